package web

import (
	"net/http"
	"net/url"
	"time"

	"powerbooks/internal/auth"
	"powerbooks/internal/session"
)

// SessionMiddleware resolves (or mints) the visitor's session and puts it on
// the request context.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := sessions.Resolve(w, r)
			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), s)))
		})
	}
}

// RequireAuth gates the storefront pages. A visitor without a usable token is
// redirected to the login page with the original path in next.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)

		var token string
		s.Do(func(state *session.State) {
			token = state.Identity.Token
		})

		if !auth.TokenUsable(token, time.Now()) {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
