package app

import "sync"

// Signal is a single-use completion signal. Fire may be called any number of
// times; only the first call has an effect.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewSignal creates an unset signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Fire sets the signal.
func (s *Signal) Fire() {
	s.once.Do(func() { close(s.ch) })
}

// Done returns a channel closed once the signal is set.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

// IsSet reports whether Fire has been called.
func (s *Signal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
