package loop

import (
	"context"
	"time"
)

// Loop runs posted callbacks and an idle tick on a single goroutine, the one
// that calls Run. Everything the callbacks touch needs no locking.
type Loop struct {
	queue  chan func()
	tick   time.Duration
	onTick func()
}

// New creates a loop. onTick may be nil.
func New(tick time.Duration, onTick func()) *Loop {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	return &Loop{
		queue:  make(chan func(), 256),
		tick:   tick,
		onTick: onTick,
	}
}

// Post schedules f on the loop goroutine. Safe from any goroutine; blocks
// only while the queue is full.
func (l *Loop) Post(f func()) {
	l.queue <- f
}

// Run processes callbacks until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.queue:
			f()
		case <-ticker.C:
			if l.onTick != nil {
				l.onTick()
			}
		}
	}
}
