package module_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/verum/pkg/module"
)

func write(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func TestNewValidPrefix(t *testing.T) {
	for _, prefix := range []string{"/api", "/metrics"} {
		t.Run(prefix, func(t *testing.T) {
			m := module.New(prefix, http.NewServeMux())
			if m.Prefix() != prefix {
				t.Errorf("prefix: got %s, want %s", m.Prefix(), prefix)
			}
		})
	}
}

func TestNewInvalidPrefixPanics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"nested path", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestServePrefixStripping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		pattern  string
		wantPath string
	}{
		{"nested path", "/api/cases", "GET /cases", "/cases"},
		{"module root", "/api", "GET /", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received string
			mux := http.NewServeMux()
			mux.HandleFunc(tt.pattern, func(w http.ResponseWriter, r *http.Request) {
				received = r.URL.Path
			})

			rec := httptest.NewRecorder()
			module.New("/api", mux).Serve(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
			if received != tt.wantPath {
				t.Errorf("inner path: got %s, want %s", received, tt.wantPath)
			}
		})
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	var order []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	m := module.New("/api", mux)
	for _, name := range []string{"first", "second"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))

	if want := []string{"first", "second", "handler"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRouterDispatch(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /cases", write("api"))

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.HandleNative("GET /healthz", write("ok"))
	router.HandleNative("GET /metrics", write("metrics"))

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"module", "/api/cases", http.StatusOK, "api"},
		{"trailing slash normalized", "/api/cases/", http.StatusOK, "api"},
		{"native health", "/healthz", http.StatusOK, "ok"},
		{"native handler", "/metrics", http.StatusOK, "metrics"},
		{"unknown", "/nowhere", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body: got %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouterPrefixes(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/metrics", http.NewServeMux()))
	router.Mount(module.New("/api", http.NewServeMux()))

	if got := router.Prefixes(); !slices.Equal(got, []string{"/api", "/metrics"}) {
		t.Errorf("Prefixes() = %v", got)
	}
}

func TestRouterDuplicateMountPanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate mount")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}
