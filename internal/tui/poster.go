package tui

import "sync"

// orderedPoster forwards posted callbacks to deliver one at a time, in the
// order they were posted. Post never blocks, so it is safe to call from the
// goroutine deliver eventually runs callbacks on.
type orderedPoster struct {
	deliver func(func())

	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func newOrderedPoster(deliver func(func())) *orderedPoster {
	return &orderedPoster{
		deliver: deliver,
		wake:    make(chan struct{}, 1),
	}
}

// Post queues f
func (p *orderedPoster) Post(f func()) {
	p.mu.Lock()
	p.queue = append(p.queue, f)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// run forwards queued callbacks until stop is closed
func (p *orderedPoster) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-p.wake:
		}

		for {
			p.mu.Lock()
			if len(p.queue) == 0 {
				p.mu.Unlock()
				break
			}
			f := p.queue[0]
			p.queue[0] = nil
			p.queue = p.queue[1:]
			p.mu.Unlock()

			p.deliver(f)
		}
	}
}
