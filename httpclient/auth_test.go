package httpclient

import (
	"net/http"
	"testing"
)

func TestAuthApply(t *testing.T) {
	tests := []struct {
		name   string
		auth   *AuthConfig
		header string
		want   string
	}{
		{"api key custom header", APIKeyAuthHeader("k2", "authorization"), "Authorization", "k2"},
		{"api key unnamed", &AuthConfig{Type: AuthAPIKey, Key: "k3"}, "X-API-Key", "k3"},
		{"none", &AuthConfig{Type: AuthNone}, "Authorization", ""},
		{"nil", nil, "Authorization", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			tc.auth.apply(req)
			if got := req.Header.Get(tc.header); got != tc.want {
				t.Errorf("%s = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
