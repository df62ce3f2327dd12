package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/freshnest/backoffice/pkg/validator"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	OpenConversation(callerUserID int64, callerRole string, otherUserID int64) (*Conversation, error)
	MyConversations(callerUserID int64) ([]*Conversation, error)
	Send(callerUserID, conversationID int64, dto SendMessageDTO) (*Message, error)
	Messages(callerUserID, conversationID int64, filter ListMessagesFilter) ([]*Message, error)
	MarkRead(callerUserID, conversationID int64) error
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

type openConversationDTO struct {
	UserID int64 `json:"user_id" validate:"required"`
}

func (h *Handler) OpenConversation(w http.ResponseWriter, r *http.Request) {
	var dto openConversationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.StructError(dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.Service.OpenConversation(
		internal.UserIDFromContext(r.Context()),
		internal.RoleFromContext(r.Context()), dto.UserID)
	if err != nil {
		h.Logger.Error("OpenConversation: service error", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) MyConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.Service.MyConversations(internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, conversations)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	var dto SendMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Send(internal.UserIDFromContext(r.Context()), conversationID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "message sent", m)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	before, _ := strconv.ParseInt(r.URL.Query().Get("before"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	messages, err := h.Service.Messages(
		internal.UserIDFromContext(r.Context()), conversationID,
		ListMessagesFilter{Before: before, Limit: limit})
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, messages)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	if err := h.Service.MarkRead(internal.UserIDFromContext(r.Context()), conversationID); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "conversation marked as read", nil)
}
