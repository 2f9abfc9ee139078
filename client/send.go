package client

import (
	"log"

	m "github.com/onizworks/go-oniz/message"
)

// SendMessage submits one message for transmission. Connected, a
// response-expecting request is assigned the next cookie and recorded
// as the tile's pending request before being enqueued; a new request
// for a tile discards any stale pending response for it. Disconnected,
// a response-expecting request receives a synthesized fallback response
// immediately and nothing reaches the wire. Never blocks on I/O.
func (p *Client) SendMessage(msg m.Message) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.submitLocked(msg)
}

// caller must hold mutex
func (p *Client) submitLocked(msg m.Message) {
	req, needsResponse := msg.(m.Request)

	if p.status == StatusConnected {
		if needsResponse {
			tile := req.Coord()
			req.SetCookie(p.cookieGen.Add(1))
			p.pendingRequest[tile] = req
			delete(p.pendingResponse, tile)
		}
		p.outbound.Push(msg)
		return
	}

	if !needsResponse {
		if p.c.LogDebug {
			log.Printf("%s: not connected, dropping %s", p.c.LogPrefix, msg.Kind())
		}
		return
	}

	tile := req.Coord()
	delete(p.pendingRequest, tile)
	p.pendingResponse[tile] = m.Synthesize(req)
	if p.c.LogDebug {
		log.Printf("%s: not connected, synthesized response for %s at %s", p.c.LogPrefix, msg.Kind(), tile)
	}
}

// GetMessageFor consumes the pending response for a tile when one of
// the expected kind is available. Returns nil when no response is ready
// or the kind differs; callers poll.
func (p *Client) GetMessageFor(kind string, x, y int) m.Message {
	tile := m.Tile{X: x, Y: y}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	resp, found := p.pendingResponse[tile]
	if !found {
		return nil
	}
	if resp.Kind() != kind {
		return nil
	}

	delete(p.pendingResponse, tile)
	return resp
}
