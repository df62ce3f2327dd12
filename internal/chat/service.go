package chat

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/user"
	"github.com/freshnest/backoffice/pkg/validator"
)

type SendMessageDTO struct {
	Body string `json:"body" validate:"required,max=4000"`
}

func (dto SendMessageDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if strings.TrimSpace(dto.Body) == "" {
		return errors.New("body is required")
	}
	return nil
}

type ListMessagesFilter struct {
	Before int64 // message id cursor, 0 means latest
	Limit  int
}

// Repository defines the data access methods for conversations and messages
type Repository interface {
	GetConversationByPair(a, b int64) (*Conversation, error)
	CreateConversation(c *Conversation) error
	GetConversation(id int64) (*Conversation, error)
	ListConversations(userID int64) ([]*Conversation, error)
	TouchConversation(id int64) error
	CreateMessage(m *Message) error
	ListMessages(conversationID int64, filter ListMessagesFilter) ([]*Message, error)
	ListForeignUnread(conversationID, userID int64) ([]*Message, error)
	UpdateMessage(m *Message) error
	LastMessage(conversationID int64) (*Message, error)
	CountForeignUnread(conversationID, userID int64) (int64, error)
}

// UserDirectory resolves participants and their roles.
type UserDirectory interface {
	GetByID(id int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, logger: logger}
}

// OpenConversation finds or creates the thread between the caller and the
// other user. A pair only ever maps to one conversation.
func (s *Service) OpenConversation(callerUserID int64, callerRole string, otherUserID int64) (*Conversation, error) {
	if callerUserID == otherUserID {
		return nil, internal.NewValidationError(
			"cannot open a conversation with yourself", internal.ErrCodeValidationFailed)
	}

	other, err := s.users.GetByID(otherUserID)
	if err != nil {
		return nil, err
	}
	if !AllowedPair(callerRole, other.Role) {
		return nil, internal.NewForbiddenError(
			"conversations are only allowed between admins and staff or suppliers",
			internal.ErrCodeConversationDenied)
	}

	a, b := OrderPair(callerUserID, otherUserID)
	if existing, err := s.repo.GetConversationByPair(a, b); err == nil {
		return existing, nil
	}

	c := &Conversation{ParticipantA: a, ParticipantB: b}
	if err := s.repo.CreateConversation(c); err != nil {
		return nil, internal.NewInternalError("failed to create conversation", err)
	}
	return c, nil
}

// MyConversations lists the caller's threads with their last message and
// derived unread count.
func (s *Service) MyConversations(callerUserID int64) ([]*Conversation, error) {
	conversations, err := s.repo.ListConversations(callerUserID)
	if err != nil {
		return nil, err
	}

	for _, c := range conversations {
		if last, err := s.repo.LastMessage(c.ID); err == nil {
			if err := last.UnpackReadBy(); err == nil {
				c.LastMessage = last
			}
		}
		unread, err := s.repo.CountForeignUnread(c.ID, callerUserID)
		if err != nil {
			s.logger.Warn("failed to count unread messages", "conversation_id", c.ID, "error", err)
			continue
		}
		c.Unread = unread
	}
	return conversations, nil
}

// Send appends a message to the conversation. Only participants may write.
func (s *Service) Send(callerUserID, conversationID int64, dto SendMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	c, err := s.participantConversation(callerUserID, conversationID)
	if err != nil {
		return nil, err
	}

	m := &Message{
		ConversationID: c.ID,
		SenderID:       callerUserID,
		ReceiverID:     c.OtherParticipant(callerUserID),
		Body:           strings.TrimSpace(dto.Body),
		ReadBy:         []int64{callerUserID},
	}
	if err := m.PackReadBy(); err != nil {
		return nil, internal.NewInternalError("failed to encode message", err)
	}
	if err := s.repo.CreateMessage(m); err != nil {
		return nil, internal.NewInternalError("failed to send message", err)
	}
	if err := s.repo.TouchConversation(c.ID); err != nil {
		s.logger.Warn("failed to touch conversation", "conversation_id", c.ID, "error", err)
	}
	return m, nil
}

// Messages returns a page of the conversation in ascending order. Before is
// an id cursor for walking backwards through history.
func (s *Service) Messages(callerUserID, conversationID int64, filter ListMessagesFilter) ([]*Message, error) {
	if _, err := s.participantConversation(callerUserID, conversationID); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	messages, err := s.repo.ListMessages(conversationID, filter)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if err := m.UnpackReadBy(); err != nil {
			m.ReadBy = []int64{}
		}
	}
	return messages, nil
}

// MarkRead adds the caller to readBy of every message they did not send.
func (s *Service) MarkRead(callerUserID, conversationID int64) error {
	if _, err := s.participantConversation(callerUserID, conversationID); err != nil {
		return err
	}

	unread, err := s.repo.ListForeignUnread(conversationID, callerUserID)
	if err != nil {
		return err
	}
	for _, m := range unread {
		if err := m.UnpackReadBy(); err != nil {
			m.ReadBy = []int64{}
		}
		if m.ReadByUser(callerUserID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, callerUserID)
		if err := m.PackReadBy(); err != nil {
			continue
		}
		if err := s.repo.UpdateMessage(m); err != nil {
			s.logger.Warn("failed to mark message read", "message_id", m.ID, "error", err)
		}
	}
	return nil
}

func (s *Service) participantConversation(callerUserID, conversationID int64) (*Conversation, error) {
	c, err := s.repo.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !c.HasParticipant(callerUserID) {
		return nil, internal.NewForbiddenError(
			"you are not a participant of this conversation", internal.ErrCodeNotParticipant)
	}
	return c, nil
}
