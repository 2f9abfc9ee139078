package client

import (
	"slices"

	m "github.com/onizworks/go-oniz/message"
)

// RegisterLocalDevice records what this client advertises at a tile, at
// most one device per tile; a second registration replaces the first.
// Connected, the registration is also sent on the wire. Every local
// registration is replayed after each reconnect, since the server
// forgets them on disconnect.
func (p *Client) RegisterLocalDevice(x, y int, what string) {
	tile := m.Tile{X: x, Y: y}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.localDevices[tile] = what
	if p.status == StatusConnected {
		p.submitLocked(m.NewRegister(x, y, what))
	}
}

// UnregisterLocalDevice removes the local registration only when it
// matches. The wire unregister is sent regardless of a local match:
// the protocol is intent-based and the server ignores unregisters for
// unknown devices.
func (p *Client) UnregisterLocalDevice(x, y int, what string) {
	tile := m.Tile{X: x, Y: y}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.localDevices[tile] == what {
		delete(p.localDevices, tile)
	}
	if p.status == StatusConnected {
		p.submitLocked(m.NewUnregister(x, y, what))
	}
}

// RemoteDeviceExists reports whether the server has announced the given
// device at the tile.
func (p *Client) RemoteDeviceExists(x, y int, what string) bool {
	tile := m.Tile{X: x, Y: y}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	return slices.Contains(p.remoteDevices[tile], what)
}
