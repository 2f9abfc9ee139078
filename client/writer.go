package client

import (
	"context"
	"log"
	"net"
	"sync"
	"time"

	"github.com/onizworks/go-oniz/config"
	m "github.com/onizworks/go-oniz/message"
)

// writeLoop drains the outbound queue onto the socket in strict
// submission order, one worker per connection epoch. It stops when the
// epoch is cancelled, the queue take is interrupted, or a write fails.
func (p *Client) writeLoop(ctx context.Context, wg *sync.WaitGroup, conn net.Conn, descriptor string) {
	defer wg.Done()

	if p.c.LogDebug {
		log.Printf("%s: %s: writer started", p.c.LogPrefix, descriptor)
		defer log.Printf("%s: %s: writer stopped", p.c.LogPrefix, descriptor)
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, ok := p.outbound.Take()
		if !ok {
			return
		}

		conn.SetWriteDeadline(time.Now().Add(config.WriteTimeout))
		err := m.WriteMessage(conn, msg)
		if err != nil {
			log.Printf("%s: %s: write of %s failed, err=%s", p.c.LogPrefix, descriptor, msg.Kind(), err.Error())
			// force the reader down too so the epoch tears down
			conn.Close()
			return
		}

		if p.c.LogDebug {
			log.Printf("%s: %s: sent %s", p.c.LogPrefix, descriptor, msg.Kind())
		}
	}
}
