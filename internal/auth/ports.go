package auth

import "context"

//go:generate mockgen -source=ports.go -destination=mock_client.go -package=auth

// Client exchanges credentials for an identity with the store API.
type Client interface {
	Login(ctx context.Context, email, password string) (Identity, error)
}
