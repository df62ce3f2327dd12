package staff

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto CreateStaffDTO) (*CreatedStaff, error)
	GetByID(id int64) (*Staff, error)
	List(filter ListStaffFilter) ([]*Staff, int64, error)
	Update(id int64, dto UpdateStaffDTO) (*Staff, error)
	Delete(id int64, permanent bool) error
	ResetPassword(id int64) (string, error)
	Stats() (*Stats, error)
	ExportCSV() ([]byte, error)
	QRBadge(id int64) (*QRBadge, error)
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

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var dto CreateStaffDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateStaff: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "staff created", created)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	st, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListStaffFilter{
		Status:   r.URL.Query().Get("status"),
		Shift:    r.URL.Query().Get("shift"),
		Position: r.URL.Query().Get("position"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
	}

	staffList, total, err := h.Service.List(filter)
	if err != nil {
		h.Logger.Error("ListStaff: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"staff":      staffList,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	var dto UpdateStaffDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateStaff: service error", "error", err, "staff_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if err := h.Service.Delete(id, permanent); err != nil {
		h.Logger.Error("DeleteStaff: service error", "error", err, "staff_id", id)
		h.WriteAppError(w, err)
		return
	}

	if permanent {
		h.WriteMessage(w, http.StatusOK, "staff permanently deleted", nil)
		return
	}
	h.WriteMessage(w, http.StatusOK, "staff deactivated", nil)
}

func (h *Handler) ResetStaffPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	password, err := h.Service.ResetPassword(id)
	if err != nil {
		h.Logger.Error("ResetStaffPassword: service error", "error", err, "staff_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "password reset", map[string]string{"password": password})
}

func (h *Handler) StaffStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.Logger.Error("StaffStats: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) ExportStaffCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ExportCSV()
	if err != nil {
		h.Logger.Error("ExportStaffCSV: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="staff.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) StaffQRBadge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	badge, err := h.Service.QRBadge(id)
	if err != nil {
		h.Logger.Error("StaffQRBadge: service error", "error", err, "staff_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, badge)
}
