package task

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
	Create(callerUserID int64, callerRole string, dto CreateTaskDTO) (*Task, error)
	UpdateStatus(callerUserID int64, callerRole string, taskID int64, dto UpdateTaskStatusDTO) (*Task, error)
	Delete(callerUserID int64, callerRole string, taskID int64) error
	GetByID(callerUserID int64, callerRole string, taskID int64) (*Task, error)
	List(callerUserID int64, callerRole string, filter ListTasksFilter) ([]*Task, int64, error)
	AssignableStaff() ([]*staff.Staff, error)
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

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), dto)
	if err != nil {
		h.Logger.Error("CreateTask: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "task created", t)
}

func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto UpdateTaskStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.UpdateStatus(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), taskID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "task updated", t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Service.Delete(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), taskID); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "task deleted", nil)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := h.Service.GetByID(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), taskID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListTasksFilter{
		Scope:  r.URL.Query().Get("scope"),
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}

	tasks, total, err := h.Service.List(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":      tasks,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) AssignableStaff(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.AssignableStaff()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}
