package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed Status = iota + 1
	Open
	HalfOpen
)

func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpenCB = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

type circuitBreaker struct {
	mu  sync.Mutex
	now func() time.Time

	state Status
	// consecutive failures that open the breaker
	maxFailures int
	// how long the breaker stays open before letting a probe through
	cooldown time.Duration
	// consecutive successes in half-open needed to close again
	recoveryRequests int

	failures  int
	successes int
	openedAt  time.Time
}

func New(maxFailures int, cooldown time.Duration, recoveryRequests int) CircuitBreaker {
	return newWithClock(maxFailures, cooldown, recoveryRequests, time.Now)
}

func newWithClock(maxFailures int, cooldown time.Duration, recoveryRequests int, now func() time.Time) *circuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	if recoveryRequests < 1 {
		recoveryRequests = 1
	}
	return &circuitBreaker{
		now:              now,
		state:            Closed,
		maxFailures:      maxFailures,
		cooldown:         cooldown,
		recoveryRequests: recoveryRequests,
	}
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = HalfOpen
		cb.successes = 0
	}
	cb.mu.Unlock()

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.state == HalfOpen || cb.failures >= cb.maxFailures {
			cb.trip()
		}
		return err
	}

	cb.failures = 0
	if cb.state == HalfOpen {
		cb.successes++
		if cb.successes >= cb.recoveryRequests {
			cb.state = Closed
		}
	}
	return nil
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.openedAt = cb.now()
	cb.successes = 0
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = Closed
	cb.failures = 0
	cb.successes = 0
}
