package auth

import (
	"crypto/rand"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionKeyAuthenticated = "authenticated"
	sessionKeyEmail         = "email"
	sessionKeyState         = "oidc_state"
)

func newSessionStore(cfg Config) *sessions.CookieStore {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// Without a configured secret, sessions and flashes do not survive
		// a restart. Only tolerable with the auth gate disabled.
		secret = make([]byte, 32)
		rand.Read(secret)
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (s *System) session(r *http.Request) *sessions.Session {
	session, _ := s.store.Get(r, s.cfg.SessionName)
	return session
}

// Flash queues a one-shot notification message on the session.
func (s *System) Flash(w http.ResponseWriter, r *http.Request, message string) {
	session := s.session(r)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("session save failed", "error", err)
	}
}

// Flashes drains and returns the queued notification messages.
func (s *System) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session := s.session(r)

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("session save failed", "error", err)
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Authenticated reports whether the request carries an authenticated session.
func (s *System) Authenticated(r *http.Request) bool {
	session := s.session(r)
	v, ok := session.Values[sessionKeyAuthenticated].(bool)
	return ok && v
}

// Email returns the authenticated user's email, if any.
func (s *System) Email(r *http.Request) string {
	session := s.session(r)
	v, _ := session.Values[sessionKeyEmail].(string)
	return v
}
