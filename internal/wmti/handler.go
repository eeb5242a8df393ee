package wmti

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

// Questions serves the survey itself. It is public so clients can render the
// test before the user signs in.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, Questions())
}

type submitRequest struct {
	Answers []Answer `json:"answers"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request, userID string) {
	var req submitRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.Submit(r.Context(), userID, req.Answers)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request, userID string) {
	res, err := h.svc.Latest(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := h.svc.History(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []Result{}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
