package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v2/transcript/abc" {
			t.Errorf("expected /v2/transcript/abc, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/transcript/abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "queued") {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestClient_Do_BodyEncoding(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		contentType string
		want        string
	}{
		{"json", map[string]bool{"speaker_labels": true}, "application/json", `{"speaker_labels":true}`},
		{"bytes", []byte("ID3audio"), "application/octet-stream", "ID3audio"},
		{"reader", strings.NewReader("stream"), "application/octet-stream", "stream"},
		{"string", "hello", "text/plain", "hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ct := r.Header.Get("Content-Type"); ct != tc.contentType {
					t.Errorf("expected Content-Type %s, got %s", tc.contentType, ct)
				}
				data, _ := io.ReadAll(r.Body)
				if strings.TrimSpace(string(data)) != tc.want {
					t.Errorf("expected body %q, got %q", tc.want, data)
				}
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: tc.body}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestClient_Do_HeadersQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Default"); got != "d" {
			t.Errorf("expected default header, got %q", got)
		}
		if got := r.Header.Get("X-Default-Override"); got != "req" {
			t.Errorf("request header should override default, got %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		if got := r.Header.Get("authorization"); got != "override-key" {
			t.Errorf("expected per-request key, got %q", got)
		}
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"X-Default": "d", "X-Default-Override": "default"},
		Auth:    APIKeyAuthHeader("client-key", "authorization"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/items",
		Headers: map[string]string{"X-Default-Override": "req"},
		Query:   map[string]string{"page": "2"},
		Auth:    APIKeyAuthHeader("override-key", "authorization"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		code    int
		checker func(error) bool
	}{
		{401, IsAuth},
		{403, IsAuth},
		{404, IsNotFound},
		{429, IsRateLimit},
		{500, IsServerError},
		{503, IsServerError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(`{"error":"denied"}`))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			if err == nil || !tt.checker(err) {
				t.Fatalf("classification failed for HTTP %d: %v", tt.code, err)
			}
			if resp == nil || resp.StatusCode != tt.code {
				t.Fatalf("expected response with status %d", tt.code)
			}
			if !strings.Contains(err.Error(), "denied") {
				t.Errorf("error should carry the body, got %v", err)
			}
		})
	}
}

func TestClient_Do_SingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v2/upload"}); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestClient_Do_FullURL_IgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: "http://should-not-be-used.invalid"})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/direct"})
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("unexpected result: %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Unwrap().Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %s", c.Unwrap().Timeout)
	}

	bad := Config{Timeout: -1}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

type uploadResult struct {
	UploadURL string `json:"upload_url"`
}

func TestTypedHelpers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"upload_url":"https://cdn/x"}`))
		case http.MethodGet:
			if r.Header.Get("X-Trace") != "1" || r.URL.Query().Get("q") != "v" {
				t.Errorf("options not applied: %v %v", r.Header, r.URL.Query())
			}
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	post, err := Post[uploadResult](c, context.Background(), "/v2/upload", []byte("data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Data.UploadURL != "https://cdn/x" {
		t.Errorf("unexpected decode %+v", post.Data)
	}

	_, err = Get[uploadResult](c, context.Background(), "/missing", WithHeader("X-Trace", "1"), WithQueryParam("q", "v"))
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTypedHelpers_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	if _, err := Get[uploadResult](c, context.Background(), "/"); err == nil {
		t.Fatal("expected decode error")
	}
}
