// Package resilience содержит повтор с экспоненциальной задержкой и circuit breaker
// для транспорта обычных запросов к API.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"doomscrollr/internal/client/config"
	"doomscrollr/pkg/logger"
)

// CircuitState - состояние breaker'а перед API.
type CircuitState int

const (
	// StateClosed - запросы к API проходят.
	StateClosed CircuitState = iota
	// StateOpen - API считается недоступным, запросы отклоняются без отправки.
	StateOpen
	// StateHalfOpen - пропускаются пробные запросы.
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	LogCircuitStateChange = "api circuit state changed"
	LogCircuitReject      = "api circuit open, request rejected"
)

// ErrCircuitOpen возвращается вместо отправки запроса, пока breaker открыт.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker размыкает цепь после серии подряд идущих сбоев транспорта.
// Отмена запроса вызывающим сбоем не считается.
type CircuitBreaker struct {
	name      string
	threshold int
	openFor   time.Duration
	probes    int
	now       func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	passed   int
	since    time.Time
}

// NewCircuitBreaker создает breaker по настройкам BreakerThreshold, BreakerTimeout
// и BreakerSuccesses.
func NewCircuitBreaker(name string, cfg config.ResilienceConfig) *CircuitBreaker {
	return &CircuitBreaker{
		name:      name,
		threshold: max(cfg.BreakerThreshold, 1),
		openFor:   cfg.BreakerTimeout,
		probes:    max(cfg.BreakerSuccesses, 1),
		now:       time.Now,
		since:     time.Now(),
	}
}

// Execute вызывает fn, если цепь не разомкнута, и учитывает результат.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if !cb.allow(ctx) {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(ctx, err)
	return err
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow(ctx context.Context) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.now().Sub(cb.since) >= cb.openFor {
		cb.moveTo(ctx, StateHalfOpen)
		return true
	}

	logger.Log(ctx).Debug(ctx, LogCircuitReject, zap.String("circuit_breaker", cb.name))
	return false
}

func (cb *CircuitBreaker) record(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err != nil && cb.state == StateHalfOpen:
		cb.moveTo(ctx, StateOpen)
	case err != nil:
		cb.failures++
		if cb.failures >= cb.threshold {
			cb.moveTo(ctx, StateOpen)
		}
	case cb.state == StateHalfOpen:
		cb.passed++
		if cb.passed >= cb.probes {
			cb.moveTo(ctx, StateClosed)
		}
	default:
		cb.failures = 0
	}
}

// moveTo вызывается под cb.mu.
func (cb *CircuitBreaker) moveTo(ctx context.Context, state CircuitState) {
	logger.Log(ctx).Info(ctx, LogCircuitStateChange,
		zap.String("circuit_breaker", cb.name),
		zap.Stringer("from", cb.state),
		zap.Stringer("to", state),
		zap.Int("failures", cb.failures))

	cb.state = state
	cb.since = cb.now()
	cb.failures = 0
	cb.passed = 0
}
