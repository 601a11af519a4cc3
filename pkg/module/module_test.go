package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mherrada/veridoc/pkg/module"
)

func echoPath() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{rest...}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
	return mux
}

func TestNewPanicsOnBadPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no slash", "api"},
		{"multi level", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", tt.prefix)
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestModuleStripsPrefix(t *testing.T) {
	m := module.New("/api", echoPath())

	router := module.NewRouter()
	router.Mount(m)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/validar", nil)
	router.ServeHTTP(rec, req)

	if got := rec.Body.String(); got != "/validar" {
		t.Errorf("stripped path = %q, want /validar", got)
	}
}

func TestRouterFallsBackToNative(t *testing.T) {
	router := module.NewRouter()
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(rec, req)

	if got := rec.Body.String(); got != "ok" {
		t.Errorf("body = %q, want ok", got)
	}
}

func TestModuleMiddlewareApplies(t *testing.T) {
	m := module.New("/api", echoPath())
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.Mount(m)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/anything", nil)
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Test"); got != "applied" {
		t.Errorf("middleware header = %q, want applied", got)
	}
}
