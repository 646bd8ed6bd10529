package feedback

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is the refresh period used when none is given.
const DefaultPollInterval = 15 * time.Second

// Poller calls fetch on a fixed interval and hands every result to deliver.
// It runs until its context is cancelled or Stop is called. Fetch errors are
// delivered too; the poller keeps its schedule regardless.
type Poller[T any] struct {
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	deliver  func(T, error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewPoller creates a stopped poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller[T any](interval time.Duration, fetch func(ctx context.Context) (T, error), deliver func(T, error)) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		deliver:  deliver,
	}
}

// Start fetches once immediately and then on every tick. Calling Start on a
// running poller is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.loop(ctx, p.done)
}

// Stop cancels the schedule and waits for an in-flight fetch to return.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the poller is scheduled.
func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller[T]) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			if p.done == done {
				p.running = false
			}
			p.mu.Unlock()
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	result, err := p.fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	p.deliver(result, err)
}
