package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/onizworks/go-oniz/config"
	m "github.com/onizworks/go-oniz/message"
)

// ErrAuthUnsupported marks a server demanding authentication, which
// this client does not speak. Unlike transport faults it is permanent:
// the lifecycle worker stops retrying the target.
var ErrAuthUnsupported = errors.New("server requires authentication, not supported")

// runLoop is the connection lifecycle worker: wait for a target, dial,
// run one connection epoch, tear down, repeat. Exactly one per client.
func (p *Client) runLoop() {
	defer p.lifewg.Done()

	bo := backoff.NewConstantBackOff(p.reconnectInterval)

	for {
		tgt, ok := p.awaitTarget()
		if !ok {
			return
		}

		// a retarget signal raised before this point is already
		// reflected in tgt
		select {
		case <-p.retargetCh:
		default:
		}

		func() {
			p.mutex.Lock()
			defer p.mutex.Unlock()

			p.status = StatusConnecting
		}()

		conn, err := net.DialTimeout("tcp", tgt.address, p.dialTimeout)
		if err != nil {
			reason := fmt.Sprintf("connect to <%s> failed: %s", tgt.address, err.Error())
			log.Printf("%s: %s: %s", p.c.LogPrefix, p.defaultDescriptor, reason)
			p.recordFailure(reason)
			if !p.retryDelay(bo) {
				return
			}
			continue
		}

		p.runEpoch(conn, tgt)

		if p.inShutdown.Load() {
			return
		}
		if p.superseded(tgt) {
			// a newer Connect call won; skip the retry delay
			continue
		}
		if !p.retryDelay(bo) {
			return
		}
	}
}

// awaitTarget blocks until a connection target has been set; returns
// false on shutdown.
func (p *Client) awaitTarget() (target, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for p.tgt == nil && !p.inShutdown.Load() {
		p.targetCond.Wait()
	}

	if p.inShutdown.Load() {
		return target{}, false
	}
	return *p.tgt, true
}

// retryDelay sleeps out the reconnect interval, waking early on a
// superseding Connect call; returns false on shutdown.
func (p *Client) retryDelay(bo backoff.BackOff) bool {
	select {
	case <-p.shutdownCh:
		return false
	case <-p.retargetCh:
		return true
	case <-time.After(bo.NextBackOff()):
		return true
	}
}

func (p *Client) superseded(tgt target) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.tgt != nil && p.tgt.generation != tgt.generation
}

func (p *Client) recordFailure(reason string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.status = StatusDisconnected
	p.lastError = reason
}

// clearTarget drops the target that produced a permanent failure,
// returning the lifecycle worker to the wait-for-target state, unless a
// newer Connect call has already replaced it.
func (p *Client) clearTarget(tgt target) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.tgt != nil && p.tgt.generation == tgt.generation {
		p.tgt = nil
	}
}

// runEpoch owns one established connection: handshake, publish the
// connected state, replay local registrations, run the writer and
// keepalive workers, read and dispatch until failure, then drain.
func (p *Client) runEpoch(conn net.Conn, tgt target) {
	epochID := p.epochGen.Add(1)
	descriptor := fmt.Sprintf("[%d]%s-><%s>", epochID, p.c.Instance, tgt.address)

	log.Printf("%s: %s: new tcp connection", p.c.LogPrefix, descriptor)
	defer conn.Close()

	// expose the socket for forced closure the moment it exists, so a
	// superseding Connect or Shutdown can preempt even the handshake.
	// Either may also have landed while the dial was in flight, with no
	// socket to close yet; this epoch then lost before it began.
	preempted := func() bool {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		if p.inShutdown.Load() || p.tgt == nil || p.tgt.generation != tgt.generation {
			return true
		}
		p.conn = conn
		return false
	}()
	if preempted {
		log.Printf("%s: %s: target superseded during dial, dropping connection", p.c.LogPrefix, descriptor)
		return
	}
	defer func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		if p.conn == conn {
			p.conn = nil
		}
	}()

	br := bufio.NewReaderSize(conn, m.MaxLineLen)

	err := p.handshake(conn, br, descriptor)
	if err != nil {
		log.Printf("%s", err.Error())
		p.recordFailure(err.Error())
		if errors.Is(err, ErrAuthUnsupported) {
			log.Printf("%s: %s: permanent incompatibility, dropping target", p.c.LogPrefix, descriptor)
			p.clearTarget(tgt)
		}
		return
	}

	// publish connected state; stale outbound messages from the prior
	// epoch are discarded, then the local device table is replayed so
	// the server relearns it. Replay holds the lock to serialize with
	// concurrent registration calls.
	func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		p.status = StatusConnected
		p.lastError = ""

		discarded := p.outbound.Drain()
		if discarded > 0 {
			log.Printf("%s: %s: discarded %d stale outbound messages", p.c.LogPrefix, descriptor, discarded)
		}

		for tile, what := range p.localDevices {
			p.outbound.Push(m.NewRegister(tile.X, tile.Y, what))
		}
	}()
	log.Printf("%s: %s: connection now ready", p.c.LogPrefix, descriptor)
	p.notifyConnected()

	ctx, cancel := context.WithCancel(context.Background())
	var workwg sync.WaitGroup
	workwg.Add(2)
	go p.writeLoop(ctx, &workwg, conn, descriptor)
	go p.keepAliveLoop(ctx, &workwg, descriptor)

	reason := p.readLoop(br, descriptor)

	// drain: requests still outstanding will never get a real answer;
	// synthesize their fallbacks before anyone can observe the gap
	func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		p.status = StatusDisconnected
		p.lastError = reason

		for tile, req := range p.pendingRequest {
			p.pendingResponse[tile] = m.Synthesize(req)
			if p.c.LogDebug {
				log.Printf("%s: %s: synthesized response for outstanding %s at %s", p.c.LogPrefix, descriptor, req.Kind(), tile)
			}
		}
		clear(p.pendingRequest)
	}()

	// cooperative stop: cancel both workers, force any blocked write or
	// take to fail, then join before the next epoch may start
	cancel()
	conn.Close()
	p.outbound.Interrupt()
	workwg.Wait()

	p.notifyDisconnected(reason)
	log.Printf("%s: %s: tcp connection closed", p.c.LogPrefix, descriptor)
}

// handshake identifies protocol and version; the server must answer
// with exactly one auth_ok before any other traffic.
func (p *Client) handshake(conn net.Conn, br *bufio.Reader, descriptor string) error {
	conn.SetDeadline(time.Now().Add(config.HandshakeTimeout))
	defer conn.SetDeadline(time.Time{})

	err := m.WriteMessage(conn, m.NewHello())
	if err != nil {
		return fmt.Errorf("%s: %s: hello write failed: %w", p.c.LogPrefix, descriptor, err)
	}

	reply, err := m.ReadMessage(br)
	if err != nil {
		return fmt.Errorf("%s: %s: hello reply read failed: %w", p.c.LogPrefix, descriptor, err)
	}

	switch reply.(type) {
	case *m.AuthOk:
		return nil
	case *m.NeedAuth:
		return fmt.Errorf("%s: %s: %w", p.c.LogPrefix, descriptor, ErrAuthUnsupported)
	default:
		return fmt.Errorf("%s: %s: unexpected handshake reply kind=%s", p.c.LogPrefix, descriptor, reply.Kind())
	}
}

// readLoop reads and dispatches incoming messages until the connection
// fails; returns the failure reason that ends the epoch.
func (p *Client) readLoop(br *bufio.Reader, descriptor string) string {
	for {
		msg, err := m.ReadMessage(br)
		if err != nil {
			if errors.Is(err, m.ErrUnknownKind) {
				// benign with a closed record set; not a response candidate
				log.Printf("%s: %s: ignoring message, %s", p.c.LogPrefix, descriptor, err.Error())
				continue
			}
			reason := fmt.Sprintf("read failed: %s", err.Error())
			log.Printf("%s: %s: %s", p.c.LogPrefix, descriptor, reason)
			return reason
		}

		if p.c.LogDebug {
			log.Printf("%s: %s: received %s", p.c.LogPrefix, descriptor, msg.Kind())
		}
		p.dispatch(msg, descriptor)
	}
}
