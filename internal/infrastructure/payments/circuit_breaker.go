package payments

import (
	"sync"
	"time"
)

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	}
	return "closed"
}

const (
	defaultFailureThreshold         = 5
	defaultOpenStateTimeout         = 30 * time.Second
	defaultHalfOpenSuccessThreshold = 2
)

type gatewayState struct {
	state                BreakerState
	consecutiveFailures  int
	consecutiveSuccesses int
	openUntil            time.Time
}

// CircuitBreaker tracks gateway health per gateway name.
//
// Closed -> Open after failureThreshold consecutive failures.
// Open -> HalfOpen once openTimeout elapsed.
// HalfOpen -> Closed after halfOpenSuccesses successes, back to Open on any failure.
type CircuitBreaker struct {
	mu                sync.Mutex
	gateways          map[string]*gatewayState
	failureThreshold  int
	openTimeout       time.Duration
	halfOpenSuccesses int
	now               func() time.Time
	onOpen            func(gateway string)
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenSuccesses int) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = defaultFailureThreshold
	}
	if openTimeout <= 0 {
		openTimeout = defaultOpenStateTimeout
	}
	if halfOpenSuccesses <= 0 {
		halfOpenSuccesses = defaultHalfOpenSuccessThreshold
	}
	return &CircuitBreaker{
		gateways:          make(map[string]*gatewayState),
		failureThreshold:  failureThreshold,
		openTimeout:       openTimeout,
		halfOpenSuccesses: halfOpenSuccesses,
		now:               time.Now,
	}
}

// OnOpen registers a hook called, under the breaker lock, whenever a gateway trips.
func (cb *CircuitBreaker) OnOpen(fn func(gateway string)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onOpen = fn
}

func (cb *CircuitBreaker) stateFor(gateway string) *gatewayState {
	gs, ok := cb.gateways[gateway]
	if !ok {
		gs = &gatewayState{state: BreakerClosed}
		cb.gateways[gateway] = gs
	}
	return gs
}

// Allow reports whether a call may go out. It moves an expired Open breaker to HalfOpen.
func (cb *CircuitBreaker) Allow(gateway string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	gs := cb.stateFor(gateway)
	if gs.state == BreakerOpen {
		if cb.now().Before(gs.openUntil) {
			return false
		}
		gs.state = BreakerHalfOpen
		gs.consecutiveSuccesses = 0
	}
	return true
}

func (cb *CircuitBreaker) RecordFailure(gateway string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	gs := cb.stateFor(gateway)
	switch gs.state {
	case BreakerClosed:
		gs.consecutiveFailures++
		if gs.consecutiveFailures >= cb.failureThreshold {
			cb.trip(gateway, gs)
		}
	case BreakerHalfOpen:
		cb.trip(gateway, gs)
	}
}

func (cb *CircuitBreaker) RecordSuccess(gateway string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	gs := cb.stateFor(gateway)
	switch gs.state {
	case BreakerClosed:
		gs.consecutiveFailures = 0
	case BreakerHalfOpen:
		gs.consecutiveSuccesses++
		if gs.consecutiveSuccesses >= cb.halfOpenSuccesses {
			gs.state = BreakerClosed
			gs.consecutiveFailures = 0
			gs.consecutiveSuccesses = 0
		}
	}
}

func (cb *CircuitBreaker) State(gateway string) BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if gs, ok := cb.gateways[gateway]; ok {
		return gs.state
	}
	return BreakerClosed
}

func (cb *CircuitBreaker) trip(gateway string, gs *gatewayState) {
	gs.state = BreakerOpen
	gs.openUntil = cb.now().Add(cb.openTimeout)
	gs.consecutiveFailures = 0
	gs.consecutiveSuccesses = 0
	if cb.onOpen != nil {
		cb.onOpen(gateway)
	}
}
