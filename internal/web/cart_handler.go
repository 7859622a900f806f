package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"powerbooks/internal/cart"
	"powerbooks/internal/catalog"
	"powerbooks/internal/httpx"
	"powerbooks/internal/session"
	"powerbooks/internal/view"
)

type cartResp struct {
	Items    []cart.Item `json:"items"`
	Count    int         `json:"count"`
	Subtotal float64     `json:"subtotal"`
	Shipping float64     `json:"shipping"`
	Total    float64     `json:"total"`
}

func buildCartResp(c *cart.Cart) cartResp {
	shipping := 0.0
	if c.Count() > 0 {
		shipping = cart.ShippingFee
	}
	return cartResp{
		Items:    c.Items(),
		Count:    c.Count(),
		Subtotal: c.Subtotal(),
		Shipping: shipping,
		Total:    c.Total(),
	}
}

// Cart handles GET /cart.
func (h *Handlers) Cart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var resp cartResp
	s.Do(func(state *session.State) {
		state.Views.Set(view.Cart)
		resp = buildCartResp(state.Cart)
	})

	httpx.JSONSuccess(r, w, resp, nil)
}

type addToCartReq struct {
	ID string `json:"id" validate:"required"`
}

// AddToCart handles POST /cart/items. The book snapshot comes from the
// session's loaded catalog when possible, falling back to an upstream fetch.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); len(details) > 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	s := sessionFrom(r)

	var token string
	var browser *catalog.Browser
	var book catalog.Book
	var found bool
	s.Do(func(state *session.State) {
		token = state.Identity.Token
		browser = state.Browser
		for _, b := range state.Browser.Books() {
			if b.ID == req.ID {
				book, found = b, true
				break
			}
		}
	})

	if !found {
		var err error
		book, err = browser.Detail(r.Context(), token, req.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
				return
			}
			httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Could not load the book", nil)
			return
		}
	}

	var resp cartResp
	s.Do(func(state *session.State) {
		state.Cart.Add(book)
		resp = buildCartResp(state.Cart)
	})

	httpx.JSONSuccess(r, w, resp, nil)
}

type updateCartReq struct {
	Delta int `json:"delta" validate:"required"`
}

// UpdateCartItem handles PATCH /cart/items/{id}. Delta adjusts the quantity,
// clamped at one; removal is its own route.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	var req updateCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); len(details) > 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	s := sessionFrom(r)

	var resp cartResp
	s.Do(func(state *session.State) {
		state.Cart.UpdateQuantity(id, req.Delta)
		resp = buildCartResp(state.Cart)
	})

	httpx.JSONSuccess(r, w, resp, nil)
}

// RemoveCartItem handles DELETE /cart/items/{id}.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	s := sessionFrom(r)

	var resp cartResp
	s.Do(func(state *session.State) {
		state.Cart.Remove(id)
		resp = buildCartResp(state.Cart)
	})

	httpx.JSONSuccess(r, w, resp, nil)
}
