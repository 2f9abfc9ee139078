package client

import (
	"log"

	m "github.com/onizworks/go-oniz/message"
)

// invoked on reader goroutine
func (p *Client) dispatch(msg m.Message, descriptor string) {
	switch v := msg.(type) {
	case *m.Ping:
		p.SendMessage(m.NewPong())
	case *m.Pong:
		// keepalive answered, nothing to track
	case *m.Registered:
		p.remoteRegistered(v)
	case *m.Unregistered:
		p.remoteUnregistered(v)
	default:
		resp, ok := msg.(m.Response)
		if !ok {
			// no tile to correlate against
			log.Printf("%s: %s: ignoring uncorrelatable %s", p.c.LogPrefix, descriptor, msg.Kind())
			return
		}
		p.correlate(resp, descriptor)
	}
}

func (p *Client) remoteRegistered(v *m.Registered) {
	tile := v.Coord()

	func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		p.remoteDevices[tile] = append(p.remoteDevices[tile], v.What)
	}()

	p.notifyRemoteRegistered(tile, v.What)
}

// remoteUnregistered removes one occurrence of the device; the remote
// table may hold duplicates. Removing an absent entry is not an error.
func (p *Client) remoteUnregistered(v *m.Unregistered) {
	tile := v.Coord()

	func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		devices := p.remoteDevices[tile]
		for i, what := range devices {
			if what == v.What {
				p.remoteDevices[tile] = append(devices[:i], devices[i+1:]...)
				break
			}
		}
		if len(p.remoteDevices[tile]) == 0 {
			delete(p.remoteDevices, tile)
		}
	}()

	p.notifyRemoteUnregistered(tile, v.What)
}

// correlate matches a response against the tile's pending request. Only
// the cookie of the latest request is honored; anything else is a stale
// duplicate or unsolicited and is discarded.
func (p *Client) correlate(resp m.Response, descriptor string) {
	tile := resp.Coord()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	req, found := p.pendingRequest[tile]
	if !found {
		log.Printf("%s: %s: unsolicited %s at %s, discarding", p.c.LogPrefix, descriptor, resp.Kind(), tile)
		return
	}
	if req.CookieValue() != resp.CookieValue() {
		log.Printf(
			"%s: %s: stale %s at %s, cookie incoming<%d>:pending<%d>, discarding",
			p.c.LogPrefix,
			descriptor,
			resp.Kind(),
			tile,
			resp.CookieValue(),
			req.CookieValue(),
		)
		return
	}

	delete(p.pendingRequest, tile)
	p.pendingResponse[tile] = resp
}
