// Package breaker implements the closed/open/half-open circuit breaker
// wrapped around every fetcher call, grounded on original_source's
// CircuitBreaker (rate_limiter.py).
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is one of the breaker's three states.
type State int

const (
	Closed State = iota
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
	default:
		return "unknown"
	}
}

// ErrOpen is returned immediately by Call when the breaker is open.
var ErrOpen = errors.New("breaker: circuit open")

// Config configures a Breaker.
type Config struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

// DefaultConfig mirrors CircuitBreaker's constructor defaults
// (failure_threshold=10, recovery_timeout=300s).
func DefaultConfig() Config {
	return Config{FailureThreshold: 10, RecoveryTimeout: 300 * time.Second}
}

// Breaker guards a single shared resource (the fetcher's HTTP client)
// against cascading failures.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	recoveryTimeout  time.Duration

	state           State
	consecutiveFail int
	openedAt        time.Time
}

// New constructs a Breaker, defaulting zero-valued Config fields.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = DefaultConfig().RecoveryTimeout
	}
	return &Breaker{
		failureThreshold: cfg.FailureThreshold,
		recoveryTimeout:  cfg.RecoveryTimeout,
		state:            Closed,
	}
}

// Call invokes fn through the breaker, transitioning state based on its
// outcome. ErrOpen is returned without invoking fn when the breaker is
// open and the recovery timeout has not elapsed.
func (b *Breaker) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.allow() {
		return ErrOpen
	}

	err := fn(ctx)
	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if time.Since(b.openedAt) >= b.recoveryTimeout {
			b.state = HalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutiveFail = 0
	b.state = Closed
}

func (b *Breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFail++
	if b.state == HalfOpen {
		b.state = Open
		b.openedAt = time.Now()
		return
	}
	if b.consecutiveFail >= b.failureThreshold {
		b.state = Open
		b.openedAt = time.Now()
	}
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
