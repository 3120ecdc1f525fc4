/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	s := New(append([]Option{WithName("test"), WithVersion("v1.2.3")}, opts...)...)
	s.SetReady(true)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestDefaultRoute(t *testing.T) {
	ts := newTestServer(t, WithHandler(map[string]http.HandlerFunc{
		"/v2.0/": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
	}))

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Ready   bool     `json:"ready"`
		Routes  []string `json:"routes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "test", body.Name)
	assert.Equal(t, "v1.2.3", body.Version)
	assert.True(t, body.Ready)
	assert.Equal(t, []string{"/v2.0/", "/health", "/ready", "/metrics"}, body.Routes)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(gbperrors.ErrCodeNotFound), body.Code)
}

func TestHealthAndReady(t *testing.T) {
	s := New()
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		ready  bool
		want   int
	}{
		{"health", http.MethodGet, "/health", false, http.StatusOK},
		{"health wrong method", http.MethodPost, "/health", false, http.StatusMethodNotAllowed},
		{"not ready", http.MethodGet, "/ready", false, http.StatusServiceUnavailable},
		{"ready", http.MethodGet, "/ready", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetReady(tt.ready)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	ts := newTestServer(t, WithHandler(map[string]http.HandlerFunc{
		"/echo": func(w http.ResponseWriter, r *http.Request) {
			seen = RequestID(r.Context())
			w.WriteHeader(http.StatusNoContent)
		},
	}))

	const id = "1b4e28ba-2fa1-4d3b-a3f5-ef19b5a7633b"
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"uuid kept", id, true},
		{"garbage replaced", "not-a-uuid", false},
		{"missing assigned", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/echo", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			got := resp.Header.Get(RequestIDHeader)
			assert.Equal(t, seen, got)
			if tt.keep {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0.001
	cfg.RateLimitBurst = 1
	ts := newTestServer(t, WithConfig(cfg), WithHandler(map[string]http.HandlerFunc{
		"/limited": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
	}))

	first, err := http.Get(ts.URL + "/limited")
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusNoContent, first.StatusCode)

	second, err := http.Get(ts.URL + "/limited")
	require.NoError(t, err)
	defer second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.NotEmpty(t, second.Header.Get("Retry-After"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	assert.Equal(t, string(gbperrors.ErrCodeRateLimitExceeded), body.Code)
	assert.True(t, body.Retryable)

	// system endpoints bypass the limiter
	health, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestPanicRecovery(t *testing.T) {
	ts := newTestServer(t, WithHandler(map[string]http.HandlerFunc{
		"/panic": func(http.ResponseWriter, *http.Request) { panic("boom") },
	}))

	resp, err := http.Get(ts.URL + "/panic")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(gbperrors.ErrCodeInternal), body.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ShutdownTimeout = time.Second
	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, s.isReady, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.isReady())
}
