package message

import (
	"fmt"
	"log"
)

// Synthesize produces the deterministic fallback response for a request
// that cannot reach the server: nothing was transferred, nothing was
// accepted, no packet was available. The fallback mirrors the tile and
// cookie of the original request. Passing any other request kind is a
// programming error.
func Synthesize(req Request) Response {
	switch r := req.(type) {
	case *SendJoules:
		return &SentJoules{
			Type:        KindSentJoules,
			Tile:        r.Tile,
			Correlation: r.Correlation,
			Spare:       r.Joules,
		}
	case *RecvJoules:
		return &GotJoules{
			Type:        KindGotJoules,
			Tile:        r.Tile,
			Correlation: r.Correlation,
			Joules:      0,
		}
	case *SendPacket:
		return &SentPacket{
			Type:        KindSentPacket,
			Tile:        r.Tile,
			Correlation: r.Correlation,
			Phase:       r.Phase,
			Accepted:    false,
		}
	case *RecvPacket:
		return &GotPacket{
			Type:        KindGotPacket,
			Tile:        r.Tile,
			Correlation: r.Correlation,
			Phase:       r.Phase,
			Packet:      nil,
		}
	default:
		err := fmt.Errorf("synthesize: unsupported request kind=%s", req.Kind())
		log.Printf("%s", err.Error())
		panic(err)
	}
}
