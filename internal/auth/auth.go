// Package auth gates the admin UI behind an OpenID Connect login and
// manages the cookie sessions used for login state and flash messages.
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"github.com/mherrada/veridoc/pkg/lifecycle"
	"github.com/mherrada/veridoc/pkg/routes"
)

// System manages OIDC authentication and admin sessions.
type System struct {
	cfg      Config
	store    *sessions.CookieStore
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth    oauth2.Config
	logger   *slog.Logger
}

// New creates the auth system. Provider discovery happens during Start.
func New(cfg Config, logger *slog.Logger) *System {
	return &System{
		cfg:    cfg,
		store:  newSessionStore(cfg),
		logger: logger.With("system", "auth"),
	}
}

// Start registers OIDC provider discovery with the lifecycle coordinator.
// A no-op when the auth gate is disabled.
func (s *System) Start(lc *lifecycle.Coordinator) error {
	if !s.cfg.IsEnabled() {
		s.logger.Warn("admin auth disabled, admin UI is open")
		return nil
	}

	lc.OnStartup(func() {
		provider, err := oidc.NewProvider(lc.Context(), s.cfg.Issuer)
		if err != nil {
			s.logger.Error("oidc provider discovery failed", "issuer", s.cfg.Issuer, "error", err)
			return
		}

		s.provider = provider
		s.verifier = provider.Verifier(&oidc.Config{ClientID: s.cfg.ClientID})
		s.oauth = oauth2.Config{
			ClientID:     s.cfg.ClientID,
			ClientSecret: s.cfg.ClientSecret,
			RedirectURL:  s.cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}

		s.logger.Info("oidc provider ready", "issuer", s.cfg.Issuer)
	})

	return nil
}

// Routes returns the login, callback, and logout routes.
func (s *System) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/login", Handler: s.Login},
			{Method: "GET", Pattern: "/callback", Handler: s.Callback},
			{Method: "GET", Pattern: "/logout", Handler: s.Logout},
		},
	}
}

// Login starts the authorization code flow.
func (s *System) Login(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		http.Error(w, "identity provider unavailable", http.StatusServiceUnavailable)
		return
	}

	state := uuid.NewString()
	session := s.session(r)
	session.Values[sessionKeyState] = state
	if err := session.Save(r, w); err != nil {
		s.logger.Error("session save failed", "error", err)
		http.Error(w, "session failure", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, s.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the authorization code flow and establishes the session.
func (s *System) Callback(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		http.Error(w, "identity provider unavailable", http.StatusServiceUnavailable)
		return
	}

	session := s.session(r)
	expected, _ := session.Values[sessionKeyState].(string)
	if expected == "" || r.URL.Query().Get("state") != expected {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}

	token, err := s.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.logger.Error("code exchange failed", "error", err)
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	email, err := s.verifyIDToken(r, token)
	if err != nil {
		s.logger.Error("id token verification failed", "error", err)
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	delete(session.Values, sessionKeyState)
	session.Values[sessionKeyAuthenticated] = true
	session.Values[sessionKeyEmail] = email
	if err := session.Save(r, w); err != nil {
		s.logger.Error("session save failed", "error", err)
		http.Error(w, "session failure", http.StatusInternalServerError)
		return
	}

	s.logger.Info("admin login", "email", email)
	http.Redirect(w, r, "/admin/registros", http.StatusFound)
}

// Logout clears the session and returns to the dashboard.
func (s *System) Logout(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("session save failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *System) verifyIDToken(r *http.Request, token *oauth2.Token) (string, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("token response missing id_token")
	}

	idToken, err := s.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		return "", err
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", err
	}

	return claims.Email, nil
}
