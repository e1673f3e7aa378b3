package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/logging"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.SecurityConfig
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "auth disabled",
			cfg:        config.SecurityConfig{RequireAPIKey: false},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH001",
		},
		{
			name:       "invalid key",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers:    map[string]string{"X-API-Key": "nope"},
			wantStatus: http.StatusForbidden,
			wantCode:   "AUTH002",
		},
		{
			name:       "valid header key",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}},
			headers:    map[string]string{"X-API-Key": "k2"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers:    map[string]string{"Authorization": "Bearer k1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "required with no keys rejects",
			cfg:        config.SecurityConfig{RequireAPIKey: true},
			headers:    map[string]string{"X-API-Key": "anything"},
			wantStatus: http.StatusForbidden,
			wantCode:   "AUTH002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(tt.cfg)(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				return
			}
			var body authError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "untrusted peer ignores headers",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.5:5555",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "203.0.113.5",
		},
		{
			name:       "trusted peer uses X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:5555",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
		{
			name:       "trusted peer uses first forwarded hop",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:5555",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"},
			want:       "198.51.100.7",
		},
		{
			name:       "invalid header value keeps peer",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:5555",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.1.2.3",
		},
		{
			name:       "invalid trusted entry skipped",
			trusted:    []string{"bogus", "10.0.0.0/8"},
			remoteAddr: "10.1.2.3:1",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::1"},
			want:       "2001:db8::1",
		},
		{
			name:       "no proxies configured",
			remoteAddr: "192.0.2.1:80",
			headers:    map[string]string{"X-Real-IP": "1.2.3.4"},
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "json"))
	defer slog.SetDefault(prev)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Logger)
	r.Get("/api/videos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/videos", nil))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("log is not a single JSON line: %v: %q", err, buf.String())
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR for 5xx", entry["level"])
	}
	if entry["route"] != "/api/videos" {
		t.Errorf("route = %v", entry["route"])
	}
	if entry["status"] != float64(http.StatusServiceUnavailable) || entry["bytes"] != float64(4) {
		t.Errorf("status/bytes = %v/%v", entry["status"], entry["bytes"])
	}
	if entry["request_id"] == nil {
		t.Error("request_id missing")
	}
}
