package dashboard

import (
	"context"
	"time"
)

// poller runs fn on every tick until stopped.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startPoller(ctx context.Context, interval time.Duration, fn func(context.Context)) *poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()

	return p
}

func (p *poller) stop() {
	p.cancel()
	<-p.done
}
