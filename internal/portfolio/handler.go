package portfolio

import (
	"net/http"
	"strings"

	"investory/internal/httputil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, userID string) {
	filter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("market")))
	summary, err := h.svc.GetPortfolio(r.Context(), userID, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
