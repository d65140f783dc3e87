package submission

import (
	"errors"
	"sync"
	"time"

	"3tcapital/atolonline/pkg/atol"
)

// BreakerState is the state of a CircuitBreaker.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // requests pass
	BreakerOpen                         // requests fail fast
	BreakerHalfOpen                     // one trial call decides
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling the service while the breaker
// is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker opens after threshold consecutive counted failures and
// rejects calls until cooldown has passed. The first call after the cooldown
// is a trial: success closes the breaker, a counted failure reopens it.
type CircuitBreaker struct {
	threshold int
	cooldown  time.Duration
	counts    func(error) bool
	now       func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

// NewCircuitBreaker creates a breaker that counts transport failures only;
// a remote rejection proves the service is reachable.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		counts:    IsTransportFailure,
		now:       time.Now,
	}
}

// IsTransportFailure reports whether err means the service could not be
// reached or answered unreadably.
func IsTransportFailure(err error) bool {
	return errors.Is(err, atol.ErrTransportFailure)
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerOpen:
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			return false
		}
		cb.state = BreakerHalfOpen
		cb.probing = true
		return true
	case BreakerHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return true
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probing = false
	if err != nil && cb.counts(err) {
		cb.failures++
		if cb.state == BreakerHalfOpen || cb.failures >= cb.threshold {
			cb.state = BreakerOpen
			cb.openedAt = cb.now()
		}
		return
	}

	cb.state = BreakerClosed
	cb.failures = 0
}

// State returns the current state. An open breaker whose cooldown has passed
// still reports open until the next call tries again.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset closes the breaker and forgets past failures.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = BreakerClosed
	cb.failures = 0
	cb.probing = false
}
