package web

import (
	"net/http"

	"go.uber.org/zap"

	"powerbooks/internal/httpx"
)

// Entry handles GET /. It runs the warm-window check that decides whether
// this visit gets the splash screen and the promotional popup.
func (h *Handlers) Entry(w http.ResponseWriter, r *http.Request) {
	status := h.warmer.Check(r.Context())

	// A warm visit skips the splash; meta.next tells the client where to go.
	var meta interface{}
	if status.Warm {
		meta = map[string]interface{}{"next": "/home"}
	}
	httpx.JSONSuccess(r, w, status, meta)
}

// DismissPromotion handles POST /promotion/dismiss.
func (h *Handlers) DismissPromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.warmer.DismissPromotion(); err != nil {
		h.logger.Warn("dismiss promotion failed", zap.Error(err))
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
