package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"powerbooks/internal/storage"
)

// Service runs logins against the store API and keeps the last issued token
// in the local store, mirroring what the browser build kept in localStorage.
type Service struct {
	client Client
	store  *storage.Local
	logger *zap.Logger
}

func NewService(client Client, store *storage.Local, logger *zap.Logger) *Service {
	return &Service{client: client, store: store, logger: logger}
}

// Login exchanges credentials for an identity. Every failure collapses to
// ErrInvalidCredentials; the real cause goes to the log only.
func (s *Service) Login(ctx context.Context, email, password string) (Identity, error) {
	id, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login rejected", zap.String("email", email), zap.Error(err))
		return Identity{}, ErrInvalidCredentials
	}
	if !id.SignedIn() {
		s.logger.Warn("login response carried no token", zap.String("email", email))
		return Identity{}, ErrInvalidCredentials
	}

	if err := s.store.Set(storage.KeyToken, id.Token); err != nil {
		s.logger.Warn("persist token failed", zap.Error(err))
	}
	return id, nil
}

// Logout drops the persisted token.
func (s *Service) Logout() error {
	return s.store.Delete(storage.KeyToken)
}

// TokenUsable reports whether a bearer token is worth sending upstream: it
// parses as a JWT and is not past its expiry. The signature is not checked
// here; the store API is the authority and verifies it on every call.
func TokenUsable(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return now.Before(exp.Time)
}
