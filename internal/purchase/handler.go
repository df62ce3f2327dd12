package purchase

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
)

type ServiceAPI interface {
	Create(dto CreatePurchaseDTO) (*Purchase, error)
	MyPurchases(callerUserID int64, filter ListPurchasesFilter) ([]*Purchase, int64, error)
	ListAll(filter ListPurchasesFilter) ([]*Purchase, int64, error)
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

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var dto CreatePurchaseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreatePurchase: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "purchase recorded", p)
}

func (h *Handler) MyPurchases(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	purchases, total, err := h.Service.MyPurchases(
		internal.UserIDFromContext(r.Context()),
		ListPurchasesFilter{Page: page, Limit: limit})
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"purchases":  purchases,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListPurchasesFilter{
		Email: r.URL.Query().Get("email"),
		Page:  page,
		Limit: limit,
	}

	purchases, total, err := h.Service.ListAll(filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"purchases":  purchases,
		"pagination": transport.NewPagination(page, limit, total),
	})
}
