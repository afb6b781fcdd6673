package domain

import "errors"

// Domain errors represent error conditions in the presenced domain.
// They are returned by the controller and the instance guard and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running controller,
	// or when another process already holds the single-instance lock.
	ErrAlreadyRunning = errors.New("presenced: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped controller.
	ErrNotRunning = errors.New("presenced: not running")

	// ErrShutdownTimeout is returned when the background loops did not confirm
	// exit within the shutdown timeout.
	ErrShutdownTimeout = errors.New("presenced: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("presenced: invalid configuration")
)
