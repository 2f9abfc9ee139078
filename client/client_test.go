package client

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onizworks/go-oniz/arbiter"
	"github.com/onizworks/go-oniz/config"
	m "github.com/onizworks/go-oniz/message"
)

func newTestClientWithConfig(t *testing.T, c *config.Config) *Client {
	t.Helper()

	a := arbiter.NewArbiter(c)
	p, err := NewClient(
		&Options{
			Config:  c,
			Arbiter: a,
		},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		p.Shutdown()
		a.Shutdown()
	})
	return p
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return newTestClientWithConfig(t, &config.Config{
		Instance:  "test",
		LogPrefix: "test",
	})
}

// markConnected flips the client into the connected state without a
// socket, for exercising the guarded tables directly.
func markConnected(p *Client) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.status = StatusConnected
}

func TestNewClientRequiresArbiter(t *testing.T) {
	_, err := NewClient(
		&Options{
			Config: &config.Config{Instance: "test", LogPrefix: "test"},
		},
	)
	assert.Error(t, err)
}

func TestDisconnectedRequestSynthesizesResponse(t *testing.T) {
	p := newTestClient(t)

	p.SendMessage(m.NewRecvJoules(1, 2, 25))

	resp := p.GetMessageFor(m.KindGotJoules, 1, 2)
	require.NotNil(t, resp)
	got, ok := resp.(*m.GotJoules)
	require.True(t, ok)
	assert.Equal(t, m.Tile{X: 1, Y: 2}, got.Coord())
	assert.Equal(t, int64(0), got.Joules)

	// one-shot consumption
	assert.Nil(t, p.GetMessageFor(m.KindGotJoules, 1, 2))

	// nothing reached the outbound queue
	assert.Equal(t, 0, p.outbound.Len())
}

func TestDisconnectedSynthesizedShapes(t *testing.T) {
	p := newTestClient(t)

	p.SendMessage(m.NewSendJoules(1, 1, 300))
	sent := p.GetMessageFor(m.KindSentJoules, 1, 1)
	require.NotNil(t, sent)
	assert.Equal(t, int64(300), sent.(*m.SentJoules).Spare)

	p.SendMessage(m.NewSendPacket(2, 2, 4, json.RawMessage(`{"a":1}`)))
	sentPacket := p.GetMessageFor(m.KindSentPacket, 2, 2)
	require.NotNil(t, sentPacket)
	assert.Equal(t, 4, sentPacket.(*m.SentPacket).Phase)
	assert.False(t, sentPacket.(*m.SentPacket).Accepted)

	p.SendMessage(m.NewRecvPacket(3, 3, 9))
	gotPacket := p.GetMessageFor(m.KindGotPacket, 3, 3)
	require.NotNil(t, gotPacket)
	assert.Equal(t, 9, gotPacket.(*m.GotPacket).Phase)
	assert.Nil(t, gotPacket.(*m.GotPacket).Packet)
}

func TestGetMessageForKindMismatch(t *testing.T) {
	p := newTestClient(t)

	p.SendMessage(m.NewRecvJoules(1, 2, 25))

	// wrong kind leaves the response in place
	assert.Nil(t, p.GetMessageFor(m.KindSentPacket, 1, 2))
	assert.NotNil(t, p.GetMessageFor(m.KindGotJoules, 1, 2))
}

func TestDisconnectedDropsFireAndForget(t *testing.T) {
	p := newTestClient(t)

	p.SendMessage(m.NewPing())

	assert.Equal(t, 0, p.outbound.Len())
}

func TestCookieAssignmentAndCorrelation(t *testing.T) {
	p := newTestClient(t)
	markConnected(p)

	p.SendMessage(m.NewRecvJoules(5, 6, 10))
	p.SendMessage(m.NewRecvJoules(5, 6, 20))

	// cookies are assigned in submission order
	first, ok := p.outbound.Take()
	require.True(t, ok)
	assert.Equal(t, uint64(1), first.(*m.RecvJoules).CookieValue())
	second, ok := p.outbound.Take()
	require.True(t, ok)
	assert.Equal(t, uint64(2), second.(*m.RecvJoules).CookieValue())

	// a response with the superseded cookie is a stale duplicate
	p.correlate(m.NewGotJoules(5, 6, 1, 42), "test")
	assert.Nil(t, p.GetMessageFor(m.KindGotJoules, 5, 6))

	// the pending request survives the stale duplicate
	p.mutex.Lock()
	_, pending := p.pendingRequest[m.Tile{X: 5, Y: 6}]
	p.mutex.Unlock()
	assert.True(t, pending)

	// the latest cookie is honored
	p.correlate(m.NewGotJoules(5, 6, 2, 42), "test")
	resp := p.GetMessageFor(m.KindGotJoules, 5, 6)
	require.NotNil(t, resp)
	assert.Equal(t, int64(42), resp.(*m.GotJoules).Joules)

	p.mutex.Lock()
	_, pending = p.pendingRequest[m.Tile{X: 5, Y: 6}]
	p.mutex.Unlock()
	assert.False(t, pending)
}

func TestPendingRequestResponseExclusive(t *testing.T) {
	p := newTestClient(t)
	markConnected(p)
	tile := m.Tile{X: 4, Y: 4}

	p.SendMessage(m.NewRecvJoules(4, 4, 1))
	p.correlate(m.NewGotJoules(4, 4, 1, 5), "test")

	p.mutex.Lock()
	_, reqSet := p.pendingRequest[tile]
	_, respSet := p.pendingResponse[tile]
	p.mutex.Unlock()
	assert.False(t, reqSet)
	assert.True(t, respSet)

	// a new request for the tile discards the unread response
	p.SendMessage(m.NewRecvJoules(4, 4, 2))

	p.mutex.Lock()
	_, reqSet = p.pendingRequest[tile]
	_, respSet = p.pendingResponse[tile]
	p.mutex.Unlock()
	assert.True(t, reqSet)
	assert.False(t, respSet)
}

func TestUnsolicitedResponseDiscarded(t *testing.T) {
	p := newTestClient(t)
	markConnected(p)

	p.correlate(m.NewGotJoules(9, 9, 77, 5), "test")

	assert.Nil(t, p.GetMessageFor(m.KindGotJoules, 9, 9))
}

func TestRemoteDeviceNotices(t *testing.T) {
	p := newTestClient(t)

	p.dispatch(m.NewRegistered(1, 2, "lamp"), "test")
	p.dispatch(m.NewRegistered(1, 2, "lamp"), "test") // duplicates are kept
	assert.True(t, p.RemoteDeviceExists(1, 2, "lamp"))

	// unregister removes one occurrence at a time
	p.dispatch(m.NewUnregistered(1, 2, "lamp"), "test")
	assert.True(t, p.RemoteDeviceExists(1, 2, "lamp"))
	p.dispatch(m.NewUnregistered(1, 2, "lamp"), "test")
	assert.False(t, p.RemoteDeviceExists(1, 2, "lamp"))

	// removing an absent entry is a no-op
	p.dispatch(m.NewUnregistered(1, 2, "lamp"), "test")
	assert.False(t, p.RemoteDeviceExists(1, 2, "lamp"))
}

func TestLocalDeviceReplacement(t *testing.T) {
	p := newTestClient(t)
	tile := m.Tile{X: 1, Y: 1}

	p.RegisterLocalDevice(1, 1, "first")
	p.RegisterLocalDevice(1, 1, "second")

	p.mutex.Lock()
	what := p.localDevices[tile]
	p.mutex.Unlock()
	assert.Equal(t, "second", what)

	// unregister of a non-matching id keeps the registration
	p.UnregisterLocalDevice(1, 1, "first")
	p.mutex.Lock()
	what = p.localDevices[tile]
	p.mutex.Unlock()
	assert.Equal(t, "second", what)

	p.UnregisterLocalDevice(1, 1, "second")
	p.mutex.Lock()
	_, found := p.localDevices[tile]
	p.mutex.Unlock()
	assert.False(t, found)
}

func TestUnregisterAbsentDeviceIsNoop(t *testing.T) {
	p := newTestClient(t)

	p.UnregisterLocalDevice(8, 8, "ghost")

	assert.Equal(t, 0, p.outbound.Len())
}

func TestEpochAbortsWhenTargetSupersededDuringDial(t *testing.T) {
	p := newTestClient(t)

	// a newer target generation was recorded while this epoch's dial
	// was still in flight, with no socket to force closed yet
	p.mutex.Lock()
	p.targetGen = 2
	p.tgt = &target{address: "newer", generation: 2}
	p.mutex.Unlock()

	server, conn := net.Pipe()
	defer server.Close()

	done := make(chan struct{})
	go func() {
		p.runEpoch(conn, target{address: "stale", generation: 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stale epoch did not abort")
	}

	// the socket was closed without a handshake attempt
	server.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err := server.Read(buf)
	assert.Error(t, err)

	p.mutex.Lock()
	active := p.conn
	p.mutex.Unlock()
	assert.Nil(t, active)
}

func TestUnregisterSendsWireMessageUnconditionally(t *testing.T) {
	p := newTestClient(t)
	markConnected(p)

	p.RegisterLocalDevice(1, 1, "lamp")
	assert.Equal(t, 1, p.outbound.Len())

	// intent-based protocol: the wire unregister goes out even though
	// no local registration matched
	p.UnregisterLocalDevice(1, 1, "ghost")
	assert.Equal(t, 2, p.outbound.Len())
}
