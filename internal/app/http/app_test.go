package httpapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func newTestServer(health HealthChecker) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, "127.0.0.1", "0", health)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		health     error
		wantStatus int
		wantBody   string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "store down", health: errors.New("dial tcp: connection refused"), wantStatus: http.StatusServiceUnavailable, wantBody: "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(healthFunc(func(context.Context) error { return tt.health }))

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(healthFunc(func(context.Context) error { return nil }))

	// one request first so the diagnostics counters have a sample
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tour_admin_http_requests_total")
	assert.Contains(t, body, `path="/health"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestAddr(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), "", "9090", nil)
	assert.Equal(t, ":9090", s.Addr())
}

func TestStopBeforeServing(t *testing.T) {
	s := newTestServer(healthFunc(func(context.Context) error { return nil }))

	require.NoError(t, s.Listen())
	addr := s.Addr()
	require.NotEqual(t, "127.0.0.1:0", addr)

	require.NoError(t, s.Stop())

	l, err := net.Listen("tcp", addr)
	require.NoError(t, err, "the port is released")
	require.NoError(t, l.Close())
}

func TestStartStop(t *testing.T) {
	s := newTestServer(healthFunc(func(context.Context) error { return nil }))
	require.NoError(t, s.Listen())

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	require.NoError(t, s.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
