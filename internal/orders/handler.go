package orders

import (
	"net/http"
	"strconv"
	"strings"

	"investory/internal/httputil"
	"investory/internal/types"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createOrderRequest struct {
	StockCode string `json:"stock_code"`
	Type      string `json:"type"`
	Side      string `json:"side"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, userID string) {
	var req createOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	var price *decimal.Decimal
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid price"})
			return
		}
		price = &p
	}
	order, err := h.svc.CreateOrder(r.Context(), CreateOrderRequest{
		UserID:    userID,
		StockCode: strings.ToUpper(strings.TrimSpace(req.StockCode)),
		Type:      types.OrderType(req.Type),
		Side:      types.OrderSide(req.Side),
		Quantity:  req.Quantity,
		Price:     price,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, userID string) {
	order, err := h.svc.GetOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, userID string) {
	status := types.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.svc.ListOrders(r.Context(), userID, status, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": list})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request, userID string) {
	var req cancelOrderRequest
	if r.ContentLength > 0 {
		if err := httputil.ReadJSON(r, &req); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
			return
		}
	}
	order, err := h.svc.CancelOrder(r.Context(), userID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

type executeOrderRequest struct {
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// ExecuteInternal fills a resting limit order. It sits behind the internal
// token, not user auth: the surrounding application decides when a limit
// order has matched.
func (h *Handler) ExecuteInternal(w http.ResponseWriter, r *http.Request) {
	var req executeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid price"})
		return
	}
	order, err := h.svc.Execute(r.Context(), chi.URLParam(r, "id"), price, req.Quantity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}
