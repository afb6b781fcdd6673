package ports

import "context"

// LineSource is a closeable, line-oriented input such as the operator console.
type LineSource interface {
	// ReadLine blocks until a full line is available, the input ends (io.EOF),
	// the source is closed, or ctx is done.
	ReadLine(ctx context.Context) (string, error)

	// Close unblocks pending and future reads.
	Close() error
}

// ClientIDSource loads the application identifier used to initialize the PresenceClient.
// An empty result means no identifier is configured; failures are logged by the source.
type ClientIDSource interface {
	Load() string
}
