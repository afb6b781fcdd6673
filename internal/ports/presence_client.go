package ports

import "github.com/bft-labs/presenced/internal/domain"

//go:generate mockgen -destination=mocks/mock_presence_client.go -package=mocks -source=presence_client.go PresenceClient

// EventHandlers receives asynchronous notifications from a PresenceClient.
// Handlers are invoked synchronously from RunCallbacks, on the caller's goroutine.
// Nil handlers are skipped.
type EventHandlers struct {
	// Ready is called once the transport completed its handshake.
	Ready func()

	// Disconnected is called when the transport connection was lost or closed.
	Disconnected func(code int, message string)

	// Errored is called when the transport or the remote service reported an error.
	Errored func(code int, message string)
}

// PresenceClient is the boundary to the external rich-presence transport.
//
// Initialize happens before the publisher starts and Shutdown after it has
// exited; UpdatePresence and RunCallbacks are only called from the publisher
// goroutine. Failures of UpdatePresence and RunCallbacks are reported through
// the Errored and Disconnected handlers, never returned.
type PresenceClient interface {
	// Initialize prepares the transport for appID and registers handlers.
	// autoRegister asks the transport to register the application's URI scheme;
	// steamID is forwarded for Steam-launched applications and may be empty.
	Initialize(appID string, handlers EventHandlers, autoRegister bool, steamID string) error

	// UpdatePresence pushes snapshot to the remote service.
	UpdatePresence(snapshot domain.PresenceSnapshot)

	// RunCallbacks delivers queued events to the registered handlers.
	RunCallbacks()

	// Shutdown closes the transport. It is safe to call more than once.
	Shutdown() error
}
