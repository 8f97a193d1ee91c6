package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/transcribe-mcp/component"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/server/middleware"
)

func newTestServer(t *testing.T, checker func(context.Context) []component.Health) *Server {
	t.Helper()
	// port 0 binds an ephemeral port; defaults would pick 8050
	s := New(Config{Host: "127.0.0.1", Port: 0}, logger.Nop())
	s.RegisterEndpoints("transcription-server", checker)
	return s
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Host != "0.0.0.0" || cfg.Port != 8050 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("write timeout must stay 0 for streams, got %d", cfg.WriteTimeout)
	}
	if cfg.Addr() != "0.0.0.0:8050" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
	bad := Config{Port: 70000}
	if err := bad.Validate(); err == nil {
		t.Error("expected port error")
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		health     []component.Health
		wantCode   int
		wantStatus string
	}{
		{"healthy", []component.Health{{Name: "assemblyai", Status: component.StatusHealthy}}, http.StatusOK, "healthy"},
		{"degraded", []component.Health{{Name: "events", Status: component.StatusDegraded}}, http.StatusOK, "degraded"},
		{"unhealthy", []component.Health{{Name: "assemblyai", Status: component.StatusUnhealthy}}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, func(context.Context) []component.Health { return tc.health })
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["status"] != tc.wantStatus {
				t.Errorf("expected %s, got %v", tc.wantStatus, body["status"])
			}
			if body["service"] != "transcription-server" {
				t.Errorf("unexpected service %v", body["service"])
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/version", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"version"`) {
		t.Errorf("unexpected body %s", rr.Body.String())
	}
}

func TestMountedHandlerGetsMiddleware(t *testing.T) {
	s := newTestServer(t, nil)
	s.Handle("/message", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.RequestIDFromContext(r.Context()) == "" {
			t.Error("expected request id in mounted handler")
		}
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("POST", "/message", http.NoBody))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected request id header")
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, nil)
	c := NewComponent(s)
	if c.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before start")
	}

	shutdownHook := make(chan struct{})
	s.OnShutdown(func() { close(shutdownHook) })

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.HasPrefix(s.BaseURL(), "http://127.0.0.1:") {
		t.Errorf("unexpected base url %q", s.BaseURL())
	}

	resp, err := http.Get(s.BaseURL() + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	select {
	case <-shutdownHook:
	case <-time.After(time.Second):
		t.Error("expected shutdown hook to run")
	}
}
