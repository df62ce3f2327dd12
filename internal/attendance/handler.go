package attendance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/freshnest/backoffice/pkg/validator"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	MarkAttendance(employeeID string) (*Record, error)
	MyStats(userID int64) (*MonthStats, error)
	MyHistory(userID int64, year int, month time.Month) ([]*Record, error)
	StaffHistory(staffID int64, year int, month time.Month) ([]*Record, error)
	DailyReport(date string) ([]*DailyReportEntry, error)
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

type markAttendanceDTO struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var dto markAttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.StructError(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.Service.MarkAttendance(dto.EmployeeID)
	if err != nil {
		h.Logger.Error("MarkAttendance: service error", "error", err, "employee_id", dto.EmployeeID)
		h.WriteAppError(w, err)
		return
	}

	message := "checked in"
	if record.CheckedOut() {
		message = "checked out"
	}
	h.WriteMessage(w, http.StatusOK, message, record)
}

func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())

	stats, err := h.Service.MyStats(userID)
	if err != nil {
		h.Logger.Error("MyStats: service error", "error", err, "user_id", userID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) MyHistory(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	year, month := monthParams(r)

	records, err := h.Service.MyHistory(userID, year, month)
	if err != nil {
		h.Logger.Error("MyHistory: service error", "error", err, "user_id", userID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func (h *Handler) StaffHistory(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}
	year, month := monthParams(r)

	records, err := h.Service.StaffHistory(staffID, year, month)
	if err != nil {
		h.Logger.Error("StaffHistory: service error", "error", err, "staff_id", staffID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	report, err := h.Service.DailyReport(date)
	if err != nil {
		h.Logger.Error("DailyReport: service error", "error", err, "date", date)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":   date,
		"report": report,
	})
}

func monthParams(r *http.Request) (int, time.Month) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}
