package message

type SendJoules struct {
	Type string `json:"type"`
	Tile
	Correlation
	Joules int64 `json:"joules"`
}

func NewSendJoules(x, y int, joules int64) *SendJoules {
	return &SendJoules{
		Type:   KindSendJoules,
		Tile:   Tile{X: x, Y: y},
		Joules: joules,
	}
}

func (m *SendJoules) Kind() string {
	return KindSendJoules
}

func (m *SendJoules) isRequest() {}

// SentJoules reports how much of the transfer the server did not
// accept; Spare equals the full amount when nothing was taken.
type SentJoules struct {
	Type string `json:"type"`
	Tile
	Correlation
	Spare int64 `json:"spare"`
}

func NewSentJoules(x, y int, cookie uint64, spare int64) *SentJoules {
	return &SentJoules{
		Type:        KindSentJoules,
		Tile:        Tile{X: x, Y: y},
		Correlation: Correlation{Cookie: cookie},
		Spare:       spare,
	}
}

func (m *SentJoules) Kind() string {
	return KindSentJoules
}

type RecvJoules struct {
	Type string `json:"type"`
	Tile
	Correlation
	Joules int64 `json:"joules"`
}

func NewRecvJoules(x, y int, joules int64) *RecvJoules {
	return &RecvJoules{
		Type:   KindRecvJoules,
		Tile:   Tile{X: x, Y: y},
		Joules: joules,
	}
}

func (m *RecvJoules) Kind() string {
	return KindRecvJoules
}

func (m *RecvJoules) isRequest() {}

type GotJoules struct {
	Type string `json:"type"`
	Tile
	Correlation
	Joules int64 `json:"joules"`
}

func NewGotJoules(x, y int, cookie uint64, joules int64) *GotJoules {
	return &GotJoules{
		Type:        KindGotJoules,
		Tile:        Tile{X: x, Y: y},
		Correlation: Correlation{Cookie: cookie},
		Joules:      joules,
	}
}

func (m *GotJoules) Kind() string {
	return KindGotJoules
}
