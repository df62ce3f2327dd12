package notification

import (
	"log/slog"
	"time"

	"github.com/freshnest/backoffice/internal"
)

// Repository defines the data access methods for notifications
type Repository interface {
	Create(n *Notification) error
	GetByID(id int64) (*Notification, error)
	ListByRecipient(recipientID int64, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	CountUnread(recipientID int64) (int64, error)
	MarkRead(id int64, readAt time.Time) error
	MarkAllRead(recipientID int64, readAt time.Time) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify writes a notification row. Callers dispatching from event handlers
// treat failures as best effort.
func (s *Service) Notify(n *Notification) error {
	if n.Type == "" {
		n.Type = TypeInfo
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification", "error", err, "recipient_id", n.RecipientID)
		return err
	}

	s.logger.Info("notification created",
		"notification_id", n.ID,
		"recipient_id", n.RecipientID,
		"type", n.Type,
		"priority", n.Priority)
	return nil
}

// List returns the recipient's notifications plus the unread count, which is
// always derived from rows rather than stored.
func (s *Service) List(recipientID int64, unreadOnly bool, page, limit int) ([]*Notification, int64, int64, error) {
	offset := (page - 1) * limit
	items, total, err := s.repo.ListByRecipient(recipientID, unreadOnly, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "recipient_id", recipientID)
		return nil, 0, 0, err
	}

	unread, err := s.repo.CountUnread(recipientID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", "error", err, "recipient_id", recipientID)
		return nil, 0, 0, err
	}

	return items, total, unread, nil
}

func (s *Service) MarkRead(recipientID, notificationID int64) error {
	n, err := s.repo.GetByID(notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return internal.NewForbiddenError("notification belongs to another user", internal.ErrCodeInsufficientRole)
	}

	return s.repo.MarkRead(notificationID, time.Now())
}

func (s *Service) MarkAllRead(recipientID int64) error {
	return s.repo.MarkAllRead(recipientID, time.Now())
}
