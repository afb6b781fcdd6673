package app

// Priority is a scheduling hint for a loop goroutine. No behavior depends on it.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityLowest
	PriorityHighest
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "Lowest"
	case PriorityHighest:
		return "Highest"
	default:
		return "Normal"
	}
}
