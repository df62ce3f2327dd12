package user

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
	GetProfile(id int64) (*Profile, error)
	ListUsers(filter ListUsersFilter) ([]*Profile, int64, error)
	UpdateUser(id int64, dto UpdateUserDTO) (*Profile, error)
	ToggleStatus(id int64) (*Profile, error)
	UpdateSupplierProfile(userID int64, dto UpdateSupplierProfileDTO) (*Profile, error)
	SubmitApplication(dto CreateSupplierApplicationDTO) (*SupplierApplication, error)
	ListApplications(status string, page, limit int) ([]*SupplierApplication, int64, error)
	ReviewApplication(id int64, dto ReviewSupplierApplicationDTO) (*SupplierApplication, error)
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

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.Service.GetProfile(userID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "user_id", userID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListUsersFilter{
		Role:     r.URL.Query().Get("role"),
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
	}

	profiles, total, err := h.Service.ListUsers(filter)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users":      profiles,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	profile, err := h.Service.GetProfile(id)
	if err != nil {
		h.Logger.Error("GetUser: service error", "error", err, "user_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateUser(id, dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "user_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	profile, err := h.Service.ToggleStatus(id)
	if err != nil {
		h.Logger.Error("ToggleUserStatus: service error", "error", err, "user_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateSupplierProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto UpdateSupplierProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateSupplierProfile(id, dto)
	if err != nil {
		h.Logger.Error("UpdateSupplierProfile: service error", "error", err, "user_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// SubmitApplication is public: prospective suppliers apply without an account.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var dto CreateSupplierApplicationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.Service.SubmitApplication(dto)
	if err != nil {
		h.Logger.Error("SubmitApplication: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "application submitted", app)
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	status := r.URL.Query().Get("status")

	apps, total, err := h.Service.ListApplications(status, page, limit)
	if err != nil {
		h.Logger.Error("ListApplications: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"pagination":   transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid application ID")
		return
	}

	var dto ReviewSupplierApplicationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.Service.ReviewApplication(id, dto)
	if err != nil {
		h.Logger.Error("ReviewApplication: service error", "error", err, "application_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, app)
}
