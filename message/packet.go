package message

import "encoding/json"

// Packet payloads are opaque nested records; they pass through the
// client untouched.

type SendPacket struct {
	Type string `json:"type"`
	Tile
	Correlation
	Phase  int             `json:"phase"`
	Packet json.RawMessage `json:"packet"`
}

func NewSendPacket(x, y int, phase int, packet json.RawMessage) *SendPacket {
	return &SendPacket{
		Type:   KindSendPacket,
		Tile:   Tile{X: x, Y: y},
		Phase:  phase,
		Packet: packet,
	}
}

func (m *SendPacket) Kind() string {
	return KindSendPacket
}

func (m *SendPacket) isRequest() {}

type SentPacket struct {
	Type string `json:"type"`
	Tile
	Correlation
	Phase    int  `json:"phase"`
	Accepted bool `json:"accepted"`
}

func NewSentPacket(x, y int, cookie uint64, phase int, accepted bool) *SentPacket {
	return &SentPacket{
		Type:        KindSentPacket,
		Tile:        Tile{X: x, Y: y},
		Correlation: Correlation{Cookie: cookie},
		Phase:       phase,
		Accepted:    accepted,
	}
}

func (m *SentPacket) Kind() string {
	return KindSentPacket
}

type RecvPacket struct {
	Type string `json:"type"`
	Tile
	Correlation
	Phase int `json:"phase"`
}

func NewRecvPacket(x, y int, phase int) *RecvPacket {
	return &RecvPacket{
		Type:  KindRecvPacket,
		Tile:  Tile{X: x, Y: y},
		Phase: phase,
	}
}

func (m *RecvPacket) Kind() string {
	return KindRecvPacket
}

func (m *RecvPacket) isRequest() {}

// GotPacket carries a null Packet when no packet was available.
type GotPacket struct {
	Type string `json:"type"`
	Tile
	Correlation
	Phase  int             `json:"phase"`
	Packet json.RawMessage `json:"packet"`
}

func NewGotPacket(x, y int, cookie uint64, phase int, packet json.RawMessage) *GotPacket {
	return &GotPacket{
		Type:        KindGotPacket,
		Tile:        Tile{X: x, Y: y},
		Correlation: Correlation{Cookie: cookie},
		Phase:       phase,
		Packet:      packet,
	}
}

func (m *GotPacket) Kind() string {
	return KindGotPacket
}
