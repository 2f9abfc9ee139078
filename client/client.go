package client

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/onizworks/go-oniz/arbiter"
	"github.com/onizworks/go-oniz/config"
	m "github.com/onizworks/go-oniz/message"
	"github.com/onizworks/go-oniz/queue"
)

// Handler receives lifecycle and remote-registry notices. Callbacks are
// invoked on the arbiter goroutine, never on the connection reader.
type Handler interface {
	Connected(*Client)
	Disconnected(*Client, string)
	RemoteRegistered(*Client, m.Tile, string)
	RemoteUnregistered(*Client, m.Tile, string)
}

type Options struct {
	Config  *config.Config
	Arbiter *arbiter.Arbiter
	Handler Handler // optional; nil disables callbacks
}

// Client keeps one connection to an oniz server alive across failures.
// All table state is guarded by mutex; no I/O happens under it.
type Client struct {
	options           *Options
	c                 *config.Config
	defaultDescriptor string

	dialTimeout       time.Duration
	reconnectInterval time.Duration

	inShutdown       atomic.Bool
	epochGen         atomic.Uint32
	cookieGen        atomic.Uint64
	keepAliveSeconds atomic.Int64

	shutdownCh chan struct{}
	retargetCh chan struct{}

	outbound *queue.Queue[m.Message]

	mutex      sync.Mutex
	targetCond *sync.Cond
	tgt        *target
	targetGen  uint64
	status     Status
	lastError  string
	conn       net.Conn // active socket, forced closed on retarget or shutdown

	pendingRequest  map[m.Tile]m.Request
	pendingResponse map[m.Tile]m.Response
	remoteDevices   map[m.Tile][]string
	localDevices    map[m.Tile]string

	lifewg sync.WaitGroup
}

func NewClient(options *Options) (*Client, error) {
	if options == nil {
		err := fmt.Errorf("nil options")
		log.Printf("%s", err.Error())
		return nil, err
	}

	c := options.Config
	err := c.Validate()
	if err != nil {
		return nil, err
	}

	if options.Arbiter == nil {
		err := fmt.Errorf("%s: nil Arbiter", c.LogPrefix)
		log.Printf("%s", err.Error())
		return nil, err
	}

	var dialTimeout time.Duration
	if c.DialTimeout == 0 {
		dialTimeout = config.DialTimeout
	} else {
		dialTimeout = time.Second * time.Duration(c.DialTimeout)
	}

	var reconnectInterval time.Duration
	if c.ReconnectInterval == 0 {
		reconnectInterval = config.ReconnectInterval
	} else {
		reconnectInterval = time.Second * time.Duration(c.ReconnectInterval)
	}

	p := &Client{
		options:           options,
		c:                 c,
		defaultDescriptor: fmt.Sprintf("%s-><idle>", c.Instance),

		dialTimeout:       dialTimeout,
		reconnectInterval: reconnectInterval,

		shutdownCh: make(chan struct{}),
		retargetCh: make(chan struct{}, 1),

		outbound: queue.New[m.Message](),

		status: StatusDisconnected,

		pendingRequest:  make(map[m.Tile]m.Request),
		pendingResponse: make(map[m.Tile]m.Response),
		remoteDevices:   make(map[m.Tile][]string),
		localDevices:    make(map[m.Tile]string),
	}
	p.targetCond = sync.NewCond(&p.mutex)
	p.keepAliveSeconds.Store(int64(c.KeepAliveInterval))

	p.lifewg.Add(1)
	go p.runLoop()

	return p, nil
}

func (p *Client) Options() *Options {
	return p.options
}

// Connect points the client at a new server target. A target set while
// a connection is active forces that connection closed; the lifecycle
// worker then dials the new target without the usual retry delay.
func (p *Client) Connect(address string, port uint16) {
	tgtAddress := net.JoinHostPort(address, strconv.FormatUint(uint64(port), 10))

	var conn net.Conn
	func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		p.targetGen++
		p.tgt = &target{
			address:    tgtAddress,
			generation: p.targetGen,
		}
		conn = p.conn
	}()
	p.targetCond.Broadcast()

	select {
	case p.retargetCh <- struct{}{}:
	default:
	}

	if conn != nil {
		log.Printf("%s: superseding active connection for target <%s>", p.c.LogPrefix, tgtAddress)
		conn.Close()
	}
}

// Shutdown stops the lifecycle worker and waits for it, along with any
// epoch workers, to fully stop.
func (p *Client) Shutdown() {
	if p.inShutdown.Swap(true) {
		return
	}
	log.Printf("%s: %s: client closing", p.c.LogPrefix, p.defaultDescriptor)

	close(p.shutdownCh)

	var conn net.Conn
	func() {
		p.mutex.Lock()
		defer p.mutex.Unlock()

		conn = p.conn
	}()
	p.targetCond.Broadcast()

	if conn != nil {
		conn.Close()
	}

	p.lifewg.Wait()
	log.Printf("%s: %s: client closed", p.c.LogPrefix, p.defaultDescriptor)
}

// invoked on any goroutine
func (p *Client) GetStatus() Status {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.status
}

// invoked on any goroutine
func (p *Client) CheckConnection() bool {
	return p.GetStatus() == StatusConnected
}

// GetConnectionError reports the last connection failure reason, or ""
// when none is recorded.
func (p *Client) GetConnectionError() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.lastError
}

// SetKeepAliveInterval changes the protocol keepalive period in
// seconds; zero or negative disables it. The running keepalive worker
// observes the change on its next cycle.
func (p *Client) SetKeepAliveInterval(seconds int) {
	p.keepAliveSeconds.Store(int64(seconds))
}

func (p *Client) notifyConnected() {
	h := p.options.Handler
	if h == nil {
		return
	}
	err := p.options.Arbiter.Dispatch(
		func() {
			// invoked on arbiter goroutine
			h.Connected(p)
		},
	)
	if err != nil {
		log.Printf("%s: Connected notice dropped, err=%s", p.c.LogPrefix, err.Error())
	}
}

func (p *Client) notifyDisconnected(reason string) {
	h := p.options.Handler
	if h == nil {
		return
	}
	err := p.options.Arbiter.Dispatch(
		func() {
			// invoked on arbiter goroutine
			h.Disconnected(p, reason)
		},
	)
	if err != nil {
		log.Printf("%s: Disconnected notice dropped, err=%s", p.c.LogPrefix, err.Error())
	}
}

func (p *Client) notifyRemoteRegistered(tile m.Tile, what string) {
	h := p.options.Handler
	if h == nil {
		return
	}
	err := p.options.Arbiter.Dispatch(
		func() {
			// invoked on arbiter goroutine
			h.RemoteRegistered(p, tile, what)
		},
	)
	if err != nil {
		log.Printf("%s: RemoteRegistered notice dropped, err=%s", p.c.LogPrefix, err.Error())
	}
}

func (p *Client) notifyRemoteUnregistered(tile m.Tile, what string) {
	h := p.options.Handler
	if h == nil {
		return
	}
	err := p.options.Arbiter.Dispatch(
		func() {
			// invoked on arbiter goroutine
			h.RemoteUnregistered(p, tile, what)
		},
	)
	if err != nil {
		log.Printf("%s: RemoteUnregistered notice dropped, err=%s", p.c.LogPrefix, err.Error())
	}
}
