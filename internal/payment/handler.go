package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/paymentgateway"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
)

type ServiceAPI interface {
	CreateOrder(ctx context.Context, dto CreateOrderDTO) (*paymentgateway.Order, error)
	Verify(ctx context.Context, callerUserID int64, dto VerifyPaymentDTO) (*Transaction, error)
	Refund(ctx context.Context, dto RefundDTO) (*paymentgateway.Refund, error)
	ListTransactions(filter ListTransactionsFilter) ([]*Transaction, int64, error)
	MyTransactions(callerUserID int64, filter ListTransactionsFilter) ([]*Transaction, int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreatePaymentOrder: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "payment order created", order)
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var dto VerifyPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Verify(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.Logger.Error("VerifyPayment: verification failed", "error", err, "order_id", dto.OrderID)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "payment verified", t)
}

func (h *Handler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var dto RefundDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	refund, err := h.Service.Refund(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "refund initiated", refund)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListTransactionsFilter{
		Status: r.URL.Query().Get("status"),
		Email:  r.URL.Query().Get("email"),
		Page:   page,
		Limit:  limit,
	}

	transactions, total, err := h.Service.ListTransactions(filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"pagination":   transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) MyTransactions(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListTransactionsFilter{Page: page, Limit: limit}

	transactions, total, err := h.Service.MyTransactions(internal.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"pagination":   transport.NewPagination(page, limit, total),
	})
}
