// Package web is the HTTP surface of the storefront: one handler set over
// the per-session state, the login gate, the cart, and the recommendation
// widget.
package web

import (
	"net/http"

	"go.uber.org/zap"

	"powerbooks/internal/auth"
	"powerbooks/internal/recommend"
	"powerbooks/internal/session"
	"powerbooks/internal/storage"
)

type Handlers struct {
	sessions    *session.Manager
	auth        *auth.Service
	recommender *recommend.Service
	warmer      *storage.Warmer
	logger      *zap.Logger
}

func NewHandlers(
	sessions *session.Manager,
	authService *auth.Service,
	recommender *recommend.Service,
	warmer *storage.Warmer,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sessions:    sessions,
		auth:        authService,
		recommender: recommender,
		warmer:      warmer,
		logger:      logger,
	}
}

// Routes registers every storefront route on mux. The session middleware
// wraps everything; the auth gate wraps only the pages behind the login.
func (h *Handlers) Routes(mux *http.ServeMux) {
	withSession := SessionMiddleware(h.sessions)

	open := func(handler http.HandlerFunc) http.Handler {
		return withSession(handler)
	}
	guarded := func(handler http.HandlerFunc) http.Handler {
		return withSession(RequireAuth(handler))
	}

	mux.Handle("GET /{$}", open(h.Entry))
	mux.Handle("POST /promotion/dismiss", open(h.DismissPromotion))

	mux.Handle("POST /login", open(h.Login))
	mux.Handle("POST /logout", open(h.Logout))

	mux.Handle("GET /home", guarded(h.Home))
	mux.Handle("GET /book/{id}", guarded(h.BookDetail))
	mux.Handle("POST /back", guarded(h.Back))

	mux.Handle("GET /cart", guarded(h.Cart))
	mux.Handle("POST /cart/items", guarded(h.AddToCart))
	mux.Handle("PATCH /cart/items/{id}", guarded(h.UpdateCartItem))
	mux.Handle("DELETE /cart/items/{id}", guarded(h.RemoveCartItem))

	mux.Handle("POST /recommendations", guarded(h.Recommend))
}
