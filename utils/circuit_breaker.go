package utils

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned without invoking the operation while the
// breaker is tripped. Callers treat it like any other transport error.
var ErrBreakerOpen = errors.New("circuit breaker: open")

// CircuitBreaker guards calls to the fullnode so a dead endpoint fails
// fast instead of burning a poll budget on dial timeouts.
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	timeout      time.Duration
	failureRatio float64

	mutex  sync.Mutex
	state  BreakerState
	counts BreakerCounts
	expiry time.Time
}

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

type BreakerCounts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxRequests:  20,
		interval:     30 * time.Second,
		timeout:      15 * time.Second,
		failureRatio: 0.6,
		state:        BreakerClosed,
	}
}

// Do runs op unless the breaker is open. The op's error feeds the
// failure counters; context cancellation counts as a failure too since
// it usually means the endpoint stalled past the caller's deadline.
func (cb *CircuitBreaker) Do(op func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	defer func() {
		if e := recover(); e != nil {
			cb.afterRequest(false)
			panic(e)
		}
	}()

	err := op()
	cb.afterRequest(err == nil)
	return err
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.currentState(time.Now())
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	state := cb.currentState(time.Now())

	if state == BreakerOpen {
		return ErrBreakerOpen
	}
	if state == BreakerHalfOpen && cb.counts.Requests >= cb.maxRequests {
		return ErrBreakerOpen
	}

	cb.counts.Requests++
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	state := cb.currentState(time.Now())
	if success {
		cb.onSuccess(state)
	} else {
		cb.onFailure(state)
	}
}

func (cb *CircuitBreaker) onSuccess(state BreakerState) {
	cb.counts.TotalSuccesses++
	cb.counts.ConsecutiveSuccesses++
	cb.counts.ConsecutiveFailures = 0

	if state == BreakerHalfOpen {
		cb.state = BreakerClosed
		cb.resetCounts(time.Now())
	}
}

func (cb *CircuitBreaker) onFailure(state BreakerState) {
	cb.counts.TotalFailures++
	cb.counts.ConsecutiveFailures++
	cb.counts.ConsecutiveSuccesses = 0

	if state == BreakerHalfOpen || cb.readyToTrip() {
		cb.state = BreakerOpen
		cb.expiry = time.Now().Add(cb.timeout)
	}
}

func (cb *CircuitBreaker) readyToTrip() bool {
	return cb.counts.Requests >= cb.maxRequests &&
		float64(cb.counts.TotalFailures)/float64(cb.counts.Requests) >= cb.failureRatio
}

// currentState rolls the breaker forward on interval/timeout expiry.
// Callers must hold the mutex.
func (cb *CircuitBreaker) currentState(now time.Time) BreakerState {
	switch cb.state {
	case BreakerClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.resetCounts(now)
		}
	case BreakerOpen:
		if cb.expiry.Before(now) {
			cb.state = BreakerHalfOpen
			cb.resetCounts(now)
		}
	}
	return cb.state
}

func (cb *CircuitBreaker) resetCounts(now time.Time) {
	cb.counts = BreakerCounts{}
	if cb.state == BreakerClosed {
		cb.expiry = now.Add(cb.interval)
	} else {
		cb.expiry = time.Time{}
	}
}
