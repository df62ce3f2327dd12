package leave

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
	Apply(userID int64, dto ApplyLeaveDTO) (*Leave, error)
	MyLeaves(userID int64, filter ListLeavesFilter) ([]*Leave, []Balance, int64, error)
	AllLeaves(filter ListLeavesFilter) ([]*Leave, *StatusSummary, int64, error)
	Review(reviewerID, leaveID int64, dto ReviewLeaveDTO) (*Leave, error)
	Cancel(userID, leaveID int64) error
	StaffBalances(staffID int64) ([]Balance, error)
	Stats() (map[string]interface{}, error)
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

func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())

	var dto ApplyLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.Apply(userID, dto)
	if err != nil {
		h.Logger.Error("ApplyLeave: service error", "error", err, "user_id", userID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "leave applied", l)
}

func (h *Handler) MyLeaves(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	page, limit := transport.PageParams(r)
	filter := ListLeavesFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Page:   page,
		Limit:  limit,
	}

	leaves, balances, total, err := h.Service.MyLeaves(userID, filter)
	if err != nil {
		h.Logger.Error("MyLeaves: service error", "error", err, "user_id", userID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves":     leaves,
		"balances":   balances,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) AllLeaves(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListLeavesFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Page:   page,
		Limit:  limit,
	}
	if staffID, err := strconv.ParseInt(r.URL.Query().Get("staff_id"), 10, 64); err == nil {
		filter.StaffID = staffID
	}

	leaves, summary, total, err := h.Service.AllLeaves(filter)
	if err != nil {
		h.Logger.Error("AllLeaves: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves":     leaves,
		"summary":    summary,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) ReviewLeave(w http.ResponseWriter, r *http.Request) {
	reviewerID := internal.UserIDFromContext(r.Context())
	leaveID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave ID")
		return
	}

	var dto ReviewLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.Review(reviewerID, leaveID, dto)
	if err != nil {
		h.Logger.Error("ReviewLeave: service error", "error", err, "leave_id", leaveID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	leaveID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave ID")
		return
	}

	if err := h.Service.Cancel(userID, leaveID); err != nil {
		h.Logger.Error("CancelLeave: service error", "error", err, "leave_id", leaveID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "leave cancelled", nil)
}

func (h *Handler) StaffBalances(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	balances, err := h.Service.StaffBalances(staffID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"balances": balances})
}

func (h *Handler) LeaveStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.Logger.Error("LeaveStats: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
