package rewards

import (
	"net/http"

	"investory/internal/httputil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Level(w http.ResponseWriter, r *http.Request, userID string) {
	info, err := h.svc.GetLevelInfo(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := h.svc.GetAchievements(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

type addExperienceRequest struct {
	Amount int `json:"amount"`
}

// AddExperience is the internal hook for activity events raised outside the
// trading core (community posts, login streaks and so on).
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request, userID string) {
	var req addExperienceRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.AddExperience(r.Context(), userID, req.Amount); err != nil {
		httputil.WriteError(w, err)
		return
	}
	info, err := h.svc.GetLevelInfo(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}
