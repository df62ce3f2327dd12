package order

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(adminUserID int64, dto CreateOrderDTO) (*SupplierOrder, error)
	UpdateStatus(callerUserID int64, callerRole string, orderID int64, dto UpdateOrderStatusDTO) (*SupplierOrder, error)
	Review(orderID int64, dto ReviewOrderDTO) (*SupplierOrder, error)
	ConfirmDelivery(orderID int64) (*SupplierOrder, error)
	GetByID(callerUserID int64, callerRole string, orderID int64) (*SupplierOrder, error)
	List(callerUserID int64, callerRole string, filter ListOrdersFilter) ([]*SupplierOrder, int64, error)
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

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.Service.Create(internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.Logger.Error("CreateOrder: service error", "error", err, "supplier_id", dto.SupplierID)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "order created", o)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var dto UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.Service.UpdateStatus(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), orderID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "order updated", o)
}

func (h *Handler) ReviewOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var dto ReviewOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.Service.Review(orderID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "order reviewed", o)
}

func (h *Handler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.Service.ConfirmDelivery(orderID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "delivery confirmed", o)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.Service.GetByID(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), orderID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	filter := ListOrdersFilter{
		SupplierID: supplierID,
		Status:     r.URL.Query().Get("status"),
		Page:       page,
		Limit:      limit,
	}

	orders, total, err := h.Service.List(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"pagination": transport.NewPagination(page, limit, total),
	})
}
