package web

import (
	"errors"
	"net/http"

	"powerbooks/internal/catalog"
	"powerbooks/internal/httpx"
	"powerbooks/internal/session"
	"powerbooks/internal/view"
)

type homeResp struct {
	Books      []catalog.Book     `json:"books"`
	Category   catalog.Category   `json:"category"`
	Query      string             `json:"query"`
	Categories []catalog.Category `json:"categories"`
	CartCount  int                `json:"cartCount"`
	View       view.View          `json:"view"`
}

// Home handles GET /home. Query params: category, q, and view (home or shop).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	selector := catalog.Category(query.Get("category"))
	if selector == "" {
		selector = catalog.All
	}
	q := query.Get("q")

	target := view.View(query.Get("view"))
	if target != view.Shop {
		target = view.Home
	}

	s := sessionFrom(r)

	var token string
	var browser *catalog.Browser
	s.Do(func(state *session.State) {
		token = state.Identity.Token
		browser = state.Browser
	})

	// Browse runs outside the session lock so a slow upstream fetch cannot
	// block cart operations; the browser serializes its own state and
	// discards stale completions itself.
	books := browser.Browse(r.Context(), token, selector, q)
	appliedSelector, appliedQuery := browser.Criteria()

	var resp homeResp
	s.Do(func(state *session.State) {
		state.Views.Set(target)
		resp = homeResp{
			Books:      books,
			Category:   appliedSelector,
			Query:      appliedQuery,
			Categories: catalog.Categories(),
			CartCount:  state.Cart.Count(),
			View:       state.Views.Current(),
		}
	})

	// meta.empty lets the client render an explicit "no books found" state;
	// meta.promotion drives the popup.
	meta := map[string]interface{}{
		"promotion": h.warmer.PromotionActive(),
	}
	if len(books) == 0 {
		meta["empty"] = true
	}
	httpx.JSONSuccess(r, w, resp, meta)
}

type bookDetailResp struct {
	Book      catalog.Book `json:"book"`
	CartCount int          `json:"cartCount"`
	Back      view.View    `json:"back"`
}

// BookDetail handles GET /book/{id}.
func (h *Handlers) BookDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	s := sessionFrom(r)

	var token string
	var browser *catalog.Browser
	s.Do(func(state *session.State) {
		token = state.Identity.Token
		browser = state.Browser
	})

	// The fetch runs outside the session lock; Detail is stateless.
	book, err := browser.Detail(r.Context(), token, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Could not load the book", nil)
		return
	}

	var resp bookDetailResp
	s.Do(func(state *session.State) {
		state.Views.Set(view.Details)
		resp = bookDetailResp{
			Book:      book,
			CartCount: state.Cart.Count(),
			Back:      state.Views.Previous(),
		}
	})

	httpx.JSONSuccess(r, w, resp, nil)
}

// Back handles POST /back: single-step navigation back to the previous view.
func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var target view.View
	s.Do(func(state *session.State) {
		target = state.Views.Back()
	})

	httpx.JSONSuccess(r, w, map[string]view.View{"view": target}, nil)
}
