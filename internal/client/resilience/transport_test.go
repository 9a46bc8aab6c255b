package resilience_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doomscrollr/internal/client/config"
	"doomscrollr/internal/client/resilience"
)

func testConfig() config.ResilienceConfig {
	return config.ResilienceConfig{
		Enabled:          true,
		MaxAttempts:      3,
		InitialBackoff:   time.Millisecond,
		MaxBackoff:       2 * time.Millisecond,
		BreakerThreshold: 2,
		BreakerTimeout:   time.Hour,
		BreakerSuccesses: 1,
	}
}

// flakyServer отвечает 503 первые failures раз, затем 200.
func flakyServer(t *testing.T, failures int32, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		if n <= failures {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestTransportRetriesIdempotentRequests(t *testing.T) {
	srv, calls := flakyServer(t, 2, http.StatusServiceUnavailable)
	client := &http.Client{Transport: resilience.NewTransport(nil, testConfig())}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestTransportReturnsLastRetryableResponse(t *testing.T) {
	srv, calls := flakyServer(t, 10, http.StatusBadGateway)
	client := &http.Client{Transport: resilience.NewTransport(nil, testConfig())}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestTransportDoesNotRetryPost(t *testing.T) {
	srv, calls := flakyServer(t, 1, http.StatusServiceUnavailable)
	client := &http.Client{Transport: resilience.NewTransport(nil, testConfig())}

	resp, err := client.Post(srv.URL, "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportPassesUnauthorizedThrough(t *testing.T) {
	srv, calls := flakyServer(t, 5, http.StatusUnauthorized)
	client := &http.Client{Transport: resilience.NewTransport(nil, testConfig())}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportBreakerOpens(t *testing.T) {
	srv, calls := flakyServer(t, 100, http.StatusServiceUnavailable)
	tr := resilience.NewTransport(nil, testConfig())
	client := &http.Client{Transport: tr}

	for i := 0; i < 2; i++ {
		resp, err := client.Post(srv.URL, "text/plain", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	assert.Equal(t, resilience.StateOpen, tr.Breaker().State())

	_, err := client.Get(srv.URL)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTransportRewindsBody(t *testing.T) {
	srv, calls := flakyServer(t, 1, http.StatusGatewayTimeout)
	client := &http.Client{Transport: resilience.NewTransport(nil, testConfig())}

	req, err := http.NewRequest(http.MethodGet, srv.URL, bytes.NewReader([]byte("payload")))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestWrap(t *testing.T) {
	base := http.DefaultTransport

	cfg := testConfig()
	cfg.Enabled = false
	assert.Same(t, base, resilience.Wrap(base, cfg))

	cfg.Enabled = true
	_, ok := resilience.Wrap(base, cfg).(*resilience.Transport)
	assert.True(t, ok)
}
