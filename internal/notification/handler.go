package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(recipientID int64, unreadOnly bool, page, limit int) ([]*Notification, int64, int64, error)
	MarkRead(recipientID, notificationID int64) error
	MarkAllRead(recipientID int64) error
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

func (h *Handler) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	page, limit := transport.PageParams(r)
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"

	items, total, unread, err := h.Service.List(userID, unreadOnly, page, limit)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"unread_count":  unread,
		"pagination":    transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(userID, id); err != nil {
		h.Logger.Error("MarkRead: service error", "error", err, "notification_id", id)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "notification marked as read", nil)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())

	if err := h.Service.MarkAllRead(userID); err != nil {
		h.Logger.Error("MarkAllRead: service error", "error", err, "user_id", userID)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "all notifications marked as read", nil)
}
