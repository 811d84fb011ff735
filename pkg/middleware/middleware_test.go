package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/verum/pkg/middleware"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestChainOrder(t *testing.T) {
	var order []string
	var chain middleware.Chain

	for _, name := range []string{"first", "second"} {
		chain = append(chain, func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := chain.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}

	tests := []struct {
		name        string
		cfg         *middleware.CORSConfig
		method      string
		origin      string
		preflight   bool
		wantOrigin  string
		wantStatus  int
		wantHandler bool
	}{
		{"disabled", &middleware.CORSConfig{Enabled: false}, "GET", "http://example.com", false, "", 200, true},
		{"allowed origin", cfg, "GET", "http://example.com", false, "http://example.com", 200, true},
		{"disallowed origin", cfg, "GET", "http://denied.com", false, "", 200, true},
		{"preflight", cfg, "OPTIONS", "http://example.com", true, "http://example.com", 204, false},
		{"options without preflight header", cfg, "OPTIONS", "http://example.com", false, "http://example.com", 200, true},
		{"wildcard", &middleware.CORSConfig{Enabled: true, Origins: []string{"*"}}, "GET", "http://any.com", false, "http://any.com", 200, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := middleware.CORS(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin: got %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantHandler {
				t.Errorf("handler called = %v, want %v", called, tt.wantHandler)
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowCredentials: true,
		MaxAge:           3600,
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	middleware.CORS(cfg)(http.HandlerFunc(ok)).ServeHTTP(rec, req)

	want := map[string]string{
		"Access-Control-Allow-Methods":     "GET, POST",
		"Access-Control-Max-Age":           "3600",
		"Access-Control-Allow-Credentials": "true",
		"Vary":                             "Origin",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s: got %q, want %q", k, got, v)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/cases?page=2", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want 418", rec.Code)
	}
	for _, want := range []string{"uri=/cases?page=2", "status=418", "method=GET"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log %q missing %q", buf.String(), want)
		}
	}
}

func TestLoggerImplicitStatus(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("log %q missing status=200", buf.String())
	}
}

func TestCORSConfigFinalizeDefaults(t *testing.T) {
	cfg := middleware.CORSConfig{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if len(cfg.AllowedMethods) != 3 {
		t.Errorf("allowed_methods: got %v, want 3", cfg.AllowedMethods)
	}
	if len(cfg.AllowedHeaders) != 2 {
		t.Errorf("allowed_headers: got %d, want 2", len(cfg.AllowedHeaders))
	}
	if cfg.MaxAge != 3600 {
		t.Errorf("max_age: got %d, want 3600", cfg.MaxAge)
	}
}

func TestCORSConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.com, ,http://b.com")
	t.Setenv("TEST_CORS_CREDS", "true")

	cfg := middleware.CORSConfig{}
	err := cfg.Finalize(&middleware.CORSEnv{
		Enabled:          "TEST_CORS_ENABLED",
		Origins:          "TEST_CORS_ORIGINS",
		AllowCredentials: "TEST_CORS_CREDS",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled || !cfg.AllowCredentials {
		t.Errorf("cfg = %+v", cfg)
	}
	if strings.Join(cfg.Origins, " ") != "http://a.com http://b.com" {
		t.Errorf("origins: got %v", cfg.Origins)
	}
}

func TestCORSConfigWildcardCredentials(t *testing.T) {
	cfg := middleware.CORSConfig{Origins: []string{"*"}, AllowCredentials: true}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for credentials with wildcard origin")
	}
}

func TestCORSConfigMerge(t *testing.T) {
	base := middleware.CORSConfig{
		Origins:        []string{"http://base.com"},
		AllowedMethods: []string{"GET"},
		MaxAge:         3600,
	}
	base.Merge(&middleware.CORSConfig{Enabled: true, Origins: []string{"http://overlay.com"}})

	if !base.Enabled {
		t.Error("enabled should be true after merge")
	}
	if len(base.Origins) != 1 || base.Origins[0] != "http://overlay.com" {
		t.Errorf("origins: got %v", base.Origins)
	}
	if base.MaxAge != 3600 {
		t.Errorf("max_age: got %d, want 3600 (unchanged)", base.MaxAge)
	}
	if len(base.AllowedMethods) != 1 {
		t.Errorf("allowed_methods: got %v", base.AllowedMethods)
	}
}
