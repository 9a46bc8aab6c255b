// Package metrics содержит Prometheus-метрики клиентской сессии.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы обновления токена.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshNoToken = "no_token"
)

// Session собирает метрики одного экземпляра сессии.
type Session struct {
	RequestsTotal   *prometheus.CounterVec
	RefreshTotal    *prometheus.CounterVec
	ReplaysTotal    prometheus.Counter
	PendingRequests prometheus.Gauge
}

// NewSession регистрирует метрики в reg. nil reg означает отдельный реестр,
// метрики которого никуда не экспортируются.
func NewSession(reg prometheus.Registerer) *Session {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Session{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doomscrollr_client_requests_total",
				Help: "Total number of API requests sent, including replays",
			},
			[]string{"method", "status"},
		),
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doomscrollr_client_refresh_total",
				Help: "Total number of access token refresh attempts by result",
			},
			[]string{"result"},
		),
		ReplaysTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "doomscrollr_client_replays_total",
				Help: "Total number of requests replayed after a token refresh",
			},
		),
		PendingRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "doomscrollr_client_pending_requests",
				Help: "Number of requests waiting for an in-flight token refresh",
			},
		),
	}
}

// ObserveRequest учитывает отправленный запрос. status 0 означает транспортную ошибку.
func (m *Session) ObserveRequest(method string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestsTotal.WithLabelValues(method, label).Inc()
}

// ObserveRefresh учитывает исход обновления токена.
func (m *Session) ObserveRefresh(result string) {
	m.RefreshTotal.WithLabelValues(result).Inc()
}
