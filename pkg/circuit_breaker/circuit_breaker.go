package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrOpen = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(fn func() error) error
	State() State
	Reset()
}

type Option func(*circuitBreaker)

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(cb *circuitBreaker) { cb.now = now }
}

type circuitBreaker struct {
	mu    sync.Mutex
	state State
	now   func() time.Time

	// window holds the outcome of the last len(window) calls, true = failed.
	window []bool
	pos    int
	// failureRatio of the window that trips the breaker.
	failureRatio float64
	// cooldown before an open breaker lets a probe call through.
	cooldown time.Duration
	openedAt time.Time
	// successes needed in half-open state to close again.
	recoverAfter int
	successes    int
}

func New(windowSize int, cooldown time.Duration, failureRatio float64, recoverAfter int, opts ...Option) CircuitBreaker {
	if windowSize <= 0 {
		windowSize = 1
	}
	cb := &circuitBreaker{
		state:        Closed,
		now:          time.Now,
		window:       make([]bool, windowSize),
		failureRatio: failureRatio,
		cooldown:     cooldown,
		recoverAfter: recoverAfter,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

func (cb *circuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = HalfOpen
		cb.successes = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.window[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % len(cb.window)

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.successes++
		if cb.successes >= cb.recoverAfter {
			cb.reset()
		}
		return err
	}

	fails := 0
	for _, failed := range cb.window {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.window)) >= cb.failureRatio {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.successes = 0
	cb.openedAt = cb.now()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.successes = 0
	cb.pos = 0
	cb.state = Closed
}
