package salary

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Pay(adminUserID int64, dto PaySalaryDTO) (*Payment, error)
	History(callerUserID int64, callerRole string, staffID int64, filter ListPaymentsFilter) ([]*Payment, int64, error)
	MyHistory(userID int64, filter ListPaymentsFilter) ([]*Payment, int64, error)
	ListPayments(filter ListPaymentsFilter) ([]*Payment, int64, error)
	PayrollStaff() ([]*staff.Staff, error)
	MonthlySummaries(year int) ([]MonthlySummary, error)
	RecentPayments(limit int) ([]*Payment, error)
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

func (h *Handler) PaySalary(w http.ResponseWriter, r *http.Request) {
	var dto PaySalaryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.Service.Pay(internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.Logger.Error("PaySalary: service error", "error", err, "staff_id", dto.StaffID)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "salary paid", payment)
}

func (h *Handler) StaffHistory(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	filter := h.paymentsFilter(r)
	payments, total, err := h.Service.History(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()),
		staffID, filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments":   payments,
		"pagination": transport.NewPagination(filter.Page, filter.Limit, total),
	})
}

func (h *Handler) MyHistory(w http.ResponseWriter, r *http.Request) {
	filter := h.paymentsFilter(r)
	payments, total, err := h.Service.MyHistory(internal.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments":   payments,
		"pagination": transport.NewPagination(filter.Page, filter.Limit, total),
	})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter := h.paymentsFilter(r)
	payments, total, err := h.Service.ListPayments(filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments":   payments,
		"pagination": transport.NewPagination(filter.Page, filter.Limit, total),
	})
}

func (h *Handler) PayrollStaff(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.PayrollStaff()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) MonthlySummaries(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	summaries, err := h.Service.MonthlySummaries(year)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	payments, err := h.Service.RecentPayments(limit)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, payments)
}

func (h *Handler) paymentsFilter(r *http.Request) ListPaymentsFilter {
	page, limit := transport.PageParams(r)
	return ListPaymentsFilter{
		Month: r.URL.Query().Get("month"),
		Page:  page,
		Limit: limit,
	}
}
