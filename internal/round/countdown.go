package round

import (
	"context"
	"sync"
	"time"
)

// Countdown fires a callback every interval until stopped.
// Each Start carries a generation tag that is passed to the callback so the
// receiver can drop ticks from a run it has already moved past.
type Countdown struct {
	interval time.Duration
	fire     func(gen uint64)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCountdown creates a stopped countdown.
func NewCountdown(interval time.Duration, fire func(gen uint64)) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval, fire: fire}
}

// Start stops any running loop and begins a new one for gen.
func (c *Countdown) Start(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, gen)
}

// Stop cancels the running loop, if any. It does not wait for an in-flight
// callback to return.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Countdown) run(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Re-check so a tick racing with Stop is not delivered.
			if ctx.Err() != nil {
				return
			}
			c.fire(gen)
		}
	}
}
