package domain

import "time"

// PresenceSnapshot is the status pushed to the rich-presence service every cycle.
// Empty strings are omitted on the wire.
type PresenceSnapshot struct {
	Details string
	State   string

	LargeImageKey  string
	LargeImageText string
	SmallImageKey  string
	SmallImageText string

	// StartTime enables the elapsed timer when non-zero.
	StartTime time.Time
}

// IsZero reports whether the snapshot carries nothing to display.
func (s PresenceSnapshot) IsZero() bool {
	return s == PresenceSnapshot{}
}

// Equal reports whether two snapshots would render identically.
func (s PresenceSnapshot) Equal(o PresenceSnapshot) bool {
	return s.Details == o.Details &&
		s.State == o.State &&
		s.LargeImageKey == o.LargeImageKey &&
		s.LargeImageText == o.LargeImageText &&
		s.SmallImageKey == o.SmallImageKey &&
		s.SmallImageText == o.SmallImageText &&
		s.StartTime.Equal(o.StartTime)
}
