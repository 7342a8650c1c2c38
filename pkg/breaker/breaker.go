package breaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without calling the wrapped function while the breaker
// is cooling down.
var ErrOpen = errors.New("circuit breaker is open")

type state uint8

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker guards calls to a single remote dependency. It watches a sliding
// window of the last N outcomes: when the failure share reaches the
// threshold it opens, after cooldown it half-opens and closes again once
// enough consecutive calls succeed.
type Breaker struct {
	mu sync.Mutex

	st       state
	window   []bool // true = failed
	pos      int
	openedAt time.Time

	cooldown  time.Duration
	threshold float64
	recovery  int
	streak    int
}

func New(windowSize int, cooldown time.Duration, threshold float64, recovery int) *Breaker {
	return &Breaker{
		window:    make([]bool, windowSize),
		cooldown:  cooldown,
		threshold: threshold,
		recovery:  recovery,
	}
}

// Do runs fn unless the breaker is open. The fn error is passed through.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.st == stateOpen {
		if time.Since(b.openedAt) <= b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.st = stateHalfOpen
		b.streak = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.window[b.pos] = err != nil
	b.pos = (b.pos + 1) % len(b.window)

	if b.st == stateHalfOpen {
		if err != nil {
			b.st = stateOpen
			b.openedAt = time.Now()
			return err
		}
		b.streak++
		if b.streak > b.recovery {
			b.reset()
		}
		return err
	}

	fails := 0
	for _, failed := range b.window {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(len(b.window)) >= b.threshold {
		b.st = stateOpen
		b.streak = 0
		b.openedAt = time.Now()
	}

	return err
}

// Reset forces the breaker back to closed with an empty window.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

func (b *Breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.pos = 0
	b.streak = 0
	b.st = stateClosed
}
