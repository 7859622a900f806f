package web

import (
	"context"
	"net/http"

	"powerbooks/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

func contextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// sessionFrom returns the request's session. The session middleware runs on
// every route, so a nil here is a programming error and panics in handlers.
func sessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(sessionKey).(*session.Session)
	return s
}
