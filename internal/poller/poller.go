package poller

import (
	"context"
	"sync/atomic"
	"time"
)

// Poller re-runs a fetch on a fixed interval for as long as its context
// lives. Every fetch carries a generation number; a result that finishes
// after a newer tick has started is discarded instead of applied, so a slow
// response can never overwrite a fresher one.
type Poller[T any] struct {
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	apply    func(T)
	onErr    func(error)

	gen atomic.Uint64
}

func New[T any](interval time.Duration, fetch func(ctx context.Context) (T, error), apply func(T), onErr func(error)) *Poller[T] {
	if onErr == nil {
		onErr = func(error) {}
	}
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		onErr:    onErr,
	}
}

// Run fetches once immediately, then on every tick, until ctx is cancelled.
func (p *Poller[T]) Run(ctx context.Context) {
	p.tick(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	gen := p.gen.Add(1)
	go func() {
		v, err := p.fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		if gen != p.gen.Load() {
			// superseded by a newer tick
			return
		}
		if err != nil {
			p.onErr(err)
			return
		}
		p.apply(v)
	}()
}
