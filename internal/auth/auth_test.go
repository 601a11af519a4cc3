package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mherrada/veridoc/internal/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(b bool) *bool { return &b }

func TestConfigFinalize(t *testing.T) {
	t.Run("disabled needs nothing", func(t *testing.T) {
		cfg := auth.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.IsEnabled() {
			t.Error("auth should default to disabled")
		}
		if cfg.SessionName != "veridoc_session" {
			t.Errorf("SessionName = %q", cfg.SessionName)
		}
	})

	t.Run("enabled requires issuer and client", func(t *testing.T) {
		cfg := auth.Config{Enabled: boolPtr(true)}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("enabled requires session secret", func(t *testing.T) {
		cfg := auth.Config{
			Enabled:     boolPtr(true),
			Issuer:      "https://idp.example.com/realms/veridoc",
			ClientID:    "veridoc-admin",
			RedirectURL: "https://veridoc.example.com/auth/callback",
		}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("secret comes from environment", func(t *testing.T) {
		t.Setenv("TEST_AUTH_SESSION_SECRET", "super-secret-value")

		cfg := auth.Config{
			Enabled:     boolPtr(true),
			Issuer:      "https://idp.example.com/realms/veridoc",
			ClientID:    "veridoc-admin",
			RedirectURL: "https://veridoc.example.com/auth/callback",
		}
		err := cfg.Finalize(&auth.Env{SessionSecret: "TEST_AUTH_SESSION_SECRET"})
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.SessionSecret != "super-secret-value" {
			t.Errorf("SessionSecret = %q", cfg.SessionSecret)
		}
	})
}

func protectedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("admin"))
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("disabled gate passes through", func(t *testing.T) {
		cfg := auth.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		sys := auth.New(cfg, testLogger())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/admin/registros", nil)
		sys.RequireAdmin(protectedHandler()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("enabled gate redirects anonymous requests", func(t *testing.T) {
		cfg := auth.Config{
			Enabled:       boolPtr(true),
			Issuer:        "https://idp.example.com/realms/veridoc",
			ClientID:      "veridoc-admin",
			RedirectURL:   "https://veridoc.example.com/auth/callback",
			SessionSecret: "test-secret",
		}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		sys := auth.New(cfg, testLogger())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/admin/registros", nil)
		sys.RequireAdmin(protectedHandler()).ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/auth/login" {
			t.Errorf("Location = %q, want /auth/login", loc)
		}
	})
}

func TestFlashes(t *testing.T) {
	cfg := auth.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	sys := auth.New(cfg, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/subir_pdf", nil)
	sys.Flash(rec, req, "Registro eliminado correctamente")

	// Carry the session cookie to the next request.
	next := httptest.NewRequest("GET", "/admin/registros", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}

	rec2 := httptest.NewRecorder()
	flashes := sys.Flashes(rec2, next)
	if len(flashes) != 1 || flashes[0] != "Registro eliminado correctamente" {
		t.Errorf("flashes = %v", flashes)
	}

	// A second read finds nothing.
	third := httptest.NewRequest("GET", "/admin/registros", nil)
	for _, c := range rec2.Result().Cookies() {
		third.AddCookie(c)
	}
	if again := sys.Flashes(httptest.NewRecorder(), third); len(again) != 0 {
		t.Errorf("flashes drained twice = %v", again)
	}
}
