package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"powerbooks/internal/auth"
	"powerbooks/internal/httpx"
	"powerbooks/internal/session"
	"powerbooks/internal/view"
)

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Next     string `json:"next"`
}

type loginResp struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Next     string `json:"next"`
}

// Login handles POST /login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if details := validateStruct(req); len(details) > 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	id, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httpx.JSONError(r, w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error(), nil)
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	s := sessionFrom(r)
	s.Do(func(state *session.State) {
		*state.Identity = id
		state.Views.Set(view.Home)
	})

	next := req.Next
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/home"
	}
	httpx.JSONSuccess(r, w, loginResp{
		Email:    id.Email,
		Role:     id.Role,
		Username: id.Username,
		Next:     next,
	}, nil)
}

// Logout handles POST /logout. It drops the session identity and the
// persisted token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.Do(func(state *session.State) {
		*state.Identity = auth.Identity{}
		state.Views.Set(view.Home)
	})

	if err := h.auth.Logout(); err != nil {
		h.logger.Warn("drop persisted token failed", zap.Error(err))
	}
	httpx.JSONSuccessNoContent(w)
}
