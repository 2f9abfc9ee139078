package message

type Ping struct {
	Type string `json:"type"`
}

func NewPing() *Ping {
	return &Ping{
		Type: KindPing,
	}
}

func (m *Ping) Kind() string {
	return KindPing
}

type Pong struct {
	Type string `json:"type"`
}

func NewPong() *Pong {
	return &Pong{
		Type: KindPong,
	}
}

func (m *Pong) Kind() string {
	return KindPong
}
