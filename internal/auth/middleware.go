package auth

import "net/http"

// RequireAdmin redirects unauthenticated requests to the login flow.
// Passes everything through when the auth gate is disabled.
func (s *System) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.IsEnabled() || s.Authenticated(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/auth/login", http.StatusFound)
	})
}
