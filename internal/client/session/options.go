package session

import (
	"context"
	"net/http"

	"doomscrollr/internal/client/metrics"
)

// Option настраивает Session.
type Option func(*Session)

// SessionEndedHandler вызывается один раз на каждый неудачный цикл восстановления,
// после того как учетные данные удалены.
type SessionEndedHandler func(ctx context.Context, cause error)

// WithTransport задает транспорт для обычных запросов. Запрос обновления
// токена этот транспорт не использует.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Session) {
		if rt != nil {
			s.client.Transport = rt
		}
	}
}

// WithRefreshTransport задает транспорт для запроса обновления токена.
func WithRefreshTransport(rt http.RoundTripper) Option {
	return func(s *Session) {
		if rt != nil {
			s.refreshClient.Transport = rt
		}
	}
}

// WithSessionEndedHandler подписывает fn на сигнал повторной аутентификации.
func WithSessionEndedHandler(fn SessionEndedHandler) Option {
	return func(s *Session) {
		s.onEnded = fn
	}
}

// WithMetrics задает набор метрик. По умолчанию метрики пишутся в отдельный реестр.
func WithMetrics(m *metrics.Session) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}
