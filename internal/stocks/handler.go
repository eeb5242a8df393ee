package stocks

import (
	"net/http"
	"strconv"
	"strings"

	"investory/internal/httputil"
	"investory/internal/types"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	market := types.Market(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("market"))))
	if market != "" && !market.Valid() {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "unknown market"})
		return
	}
	list, err := h.store.List(r.Context(), market)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	stock, err := h.store.GetByCode(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stock)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))
	if keyword == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "search keyword required"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.store.Search(r.Context(), keyword, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	criterion := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.store.ListTop(r.Context(), criterion, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *Handler) Sectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.store.Sectors(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": sectors})
}

func (h *Handler) BySector(w http.ResponseWriter, r *http.Request) {
	sector := strings.TrimSpace(chi.URLParam(r, "sector"))
	list, err := h.store.ListBySector(r.Context(), sector)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": list})
}

// WatchlistHandler serves a user's favorite stocks.
type WatchlistHandler struct {
	store *WatchlistStore
}

func NewWatchlistHandler(store *WatchlistStore) *WatchlistHandler {
	return &WatchlistHandler{store: store}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request, userID string) {
	group := strings.TrimSpace(r.URL.Query().Get("group"))
	var (
		items []WatchlistItem
		err   error
	)
	if group == "" {
		items, err = h.store.List(r.Context(), userID)
	} else {
		items, err = h.store.ListByGroup(r.Context(), userID, group)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *WatchlistHandler) Groups(w http.ResponseWriter, r *http.Request, userID string) {
	groups, err := h.store.Groups(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": groups})
}

type addWatchlistRequest struct {
	StockCode string `json:"stock_code"`
	GroupName string `json:"group_name"`
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request, userID string) {
	var req addWatchlistRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	item, err := h.store.Add(r.Context(), userID, strings.ToUpper(strings.TrimSpace(req.StockCode)), strings.TrimSpace(req.GroupName))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request, userID string) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if err := h.store.Remove(r.Context(), userID, code); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) Check(w http.ResponseWriter, r *http.Request, userID string) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	in, err := h.store.Contains(r.Context(), userID, code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"in_watchlist": in})
}
