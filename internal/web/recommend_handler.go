package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"powerbooks/internal/httpx"
	"powerbooks/internal/recommend"
)

type recommendReq struct {
	Tastes string `json:"tastes" validate:"required,max=500"`
}

type recommendResp struct {
	Text string `json:"text"`
}

// Recommend handles POST /recommendations.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); len(details) > 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	s := sessionFrom(r)
	text, err := h.recommender.Recommend(r.Context(), s.ID, req.Tastes)
	if err != nil {
		if errors.Is(err, recommend.ErrBusy) {
			httpx.JSONError(r, w, http.StatusTooManyRequests, "BUSY", "A recommendation is already being prepared", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(r, w, recommendResp{Text: text}, nil)
}
