package client

type Status uint8

const (
	StatusDisconnected Status = 0
	StatusConnecting   Status = 1
	StatusConnected    Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "Disconnected"
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	default:
		return "Unknown Status"
	}
}

// target is the single-slot latest connection target. The generation
// counter disambiguates superseding Connect calls: an epoch belongs to
// exactly one generation, and a mismatch means it has been preempted.
type target struct {
	address    string
	generation uint64
}
