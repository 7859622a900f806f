package catalog

import (
	"context"
)

// Source is the upstream catalog the storefront reads from.
type Source interface {
	FilterBooks(ctx context.Context, token string, selector Category, query string) ([]Book, error)
	GetBook(ctx context.Context, token string, id string) (Book, error)
}
