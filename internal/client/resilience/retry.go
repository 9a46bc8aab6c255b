package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"doomscrollr/internal/client/config"
	"doomscrollr/pkg/logger"
)

const backoffFactor = 2

const (
	LogRetryScheduled = "transient api failure, retrying"
	LogRetryExhausted = "transient api failure, attempts exhausted"
)

// Retry повторяет операцию с удваивающейся задержкой между попытками.
// Ошибки отмены и истечения контекста не повторяются.
type Retry struct {
	name     string
	attempts int
	initial  time.Duration
	ceiling  time.Duration
}

// NewRetry создает Retry по настройкам MaxAttempts, InitialBackoff и MaxBackoff.
func NewRetry(name string, cfg config.ResilienceConfig) *Retry {
	return &Retry{
		name:     name,
		attempts: max(cfg.MaxAttempts, 1),
		initial:  cfg.InitialBackoff,
		ceiling:  cfg.MaxBackoff,
	}
}

// Execute вызывает operation до успеха, неповторяемой ошибки или исчерпания попыток.
func (r *Retry) Execute(ctx context.Context, operation func() error) error {
	log := logger.Log(ctx).With(zap.String("retry", r.name))
	wait := r.initial

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil || !retryable(err) {
			return err
		}
		if attempt >= r.attempts {
			log.Warn(ctx, LogRetryExhausted, zap.Int("attempts", attempt), zap.Error(err))
			return err
		}

		log.Info(ctx, LogRetryScheduled, zap.Int("attempt", attempt), zap.Duration("backoff", wait), zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ctx.Err(), err)
		}

		wait *= backoffFactor
		if r.ceiling > 0 && wait > r.ceiling {
			wait = r.ceiling
		}
	}
}

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
