package arbiter

// Group keys cancellable scheduler waits. The client dispatches plain
// tasks only, so the domain holds a single value; scheduled waits added
// later must define their group here.
type Group uint8

const (
	GroupInvalid Group = 0
)

func (g Group) String() string {
	switch g {
	case GroupInvalid:
		return "Invalid Group"
	default:
		return "Unknown Group"
	}
}
