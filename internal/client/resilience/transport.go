package resilience

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"doomscrollr/internal/client/config"
	"doomscrollr/pkg/logger"
)

const (
	LogTransportRetryableStatus = "retryable response status"
	breakerName                 = "doomscrollr-api"
)

// StatusError - ответ 502, 503 или 504, который считается сбоем транспорта.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.StatusCode)
}

// Transport оборачивает http.RoundTripper повтором и circuit breaker. Повторяются только
// идемпотентные запросы и только при сетевой ошибке или ответах 502, 503, 504.
// Ответы 4xx, включая 401, проходят без изменений.
type Transport struct {
	base    http.RoundTripper
	breaker *CircuitBreaker
	retry   *Retry
}

// NewTransport создает Transport поверх base. nil base означает http.DefaultTransport.
func NewTransport(base http.RoundTripper, cfg config.ResilienceConfig) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		base:    base,
		breaker: NewCircuitBreaker(breakerName, cfg),
		retry:   NewRetry(breakerName, cfg),
	}
}

// Wrap возвращает Transport, если устойчивость включена, иначе base.
func Wrap(base http.RoundTripper, cfg config.ResilienceConfig) http.RoundTripper {
	if !cfg.Enabled {
		if base == nil {
			return http.DefaultTransport
		}
		return base
	}
	return NewTransport(base, cfg)
}

// Breaker возвращает circuit breaker транспорта.
func (t *Transport) Breaker() *CircuitBreaker {
	return t.breaker
}

// RoundTrip реализует http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var resp *http.Response
	attempts := 0

	attempt := func() error {
		next := req
		if attempts > 0 {
			if resp != nil {
				drain(resp)
				resp = nil
			}
			var err error
			if next, err = rewind(req); err != nil {
				return err
			}
		}
		attempts++

		var err error
		resp, err = t.base.RoundTrip(next)
		if err != nil {
			resp = nil
			return err
		}
		if retryableStatus(resp.StatusCode) {
			logger.Log(ctx).Debug(ctx, LogTransportRetryableStatus,
				zap.String("method", req.Method),
				zap.Int("status", resp.StatusCode))
			return &StatusError{StatusCode: resp.StatusCode}
		}
		return nil
	}

	operation := attempt
	if replayable(req) {
		operation = func() error { return t.retry.Execute(ctx, attempt) }
	}

	err := t.breaker.Execute(ctx, operation)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && resp != nil {
		return resp, nil
	}
	if err != nil {
		if resp != nil {
			drain(resp)
		}
		return nil, err
	}
	return resp, nil
}

func replayable(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		return false
	}
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewind request body: %w", err)
	}
	next.Body = body
	return next, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
