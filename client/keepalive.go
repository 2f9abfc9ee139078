package client

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/onizworks/go-oniz/config"
	m "github.com/onizworks/go-oniz/message"
)

// keepAliveLoop submits a ping at the configured interval, one worker
// per connection epoch. The interval is re-read every cycle so runtime
// changes take effect; while disabled the worker just rechecks
// periodically.
func (p *Client) keepAliveLoop(ctx context.Context, wg *sync.WaitGroup, descriptor string) {
	defer wg.Done()

	if p.c.LogDebug {
		log.Printf("%s: %s: keepalive started", p.c.LogPrefix, descriptor)
		defer log.Printf("%s: %s: keepalive stopped", p.c.LogPrefix, descriptor)
	}

	for {
		interval := time.Second * time.Duration(p.keepAliveSeconds.Load())
		wait := interval
		if interval <= 0 {
			wait = config.KeepAliveRecheck
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if interval > 0 {
			p.SendMessage(m.NewPing())
		}
	}
}
