package postgres

import (
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/chat"
	"gorm.io/gorm"
)

// ChatRepository implements chat.Repository using GORM
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) chat.Repository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) GetConversationByPair(a, b int64) (*chat.Conversation, error) {
	var c chat.Conversation
	err := r.db.Where("participant_a = ? AND participant_b = ?", a, b).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("conversation not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) CreateConversation(c *chat.Conversation) error {
	return r.db.Create(c).Error
}

func (r *ChatRepository) GetConversation(id int64) (*chat.Conversation, error) {
	var c chat.Conversation
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("conversation not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) ListConversations(userID int64) ([]*chat.Conversation, error) {
	var conversations []*chat.Conversation
	err := r.db.Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *ChatRepository) TouchConversation(id int64) error {
	return r.db.Model(&chat.Conversation{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *ChatRepository) CreateMessage(m *chat.Message) error {
	return r.db.Create(m).Error
}

// ListMessages fetches the newest page before the cursor, returned ascending.
func (r *ChatRepository) ListMessages(conversationID int64, filter chat.ListMessagesFilter) ([]*chat.Message, error) {
	query := r.db.Where("conversation_id = ?", conversationID)
	if filter.Before > 0 {
		query = query.Where("id < ?", filter.Before)
	}

	var page []*chat.Message
	if err := query.Order("id DESC").Limit(filter.Limit).Find(&page).Error; err != nil {
		return nil, err
	}

	// reverse into chronological order
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

func (r *ChatRepository) ListForeignUnread(conversationID, userID int64) ([]*chat.Message, error) {
	var messages []*chat.Message
	err := r.db.Where("conversation_id = ? AND sender_id != ?", conversationID, userID).
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepository) UpdateMessage(m *chat.Message) error {
	return r.db.Save(m).Error
}

func (r *ChatRepository) LastMessage(conversationID int64) (*chat.Message, error) {
	var m chat.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("id DESC").First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountForeignUnread counts messages from the other participant that the user
// has not read. readBy containment is checked on a JSON text column.
func (r *ChatRepository) CountForeignUnread(conversationID, userID int64) (int64, error) {
	messages, err := r.ListForeignUnread(conversationID, userID)
	if err != nil {
		return 0, err
	}

	var unread int64
	for _, m := range messages {
		if err := m.UnpackReadBy(); err != nil {
			continue
		}
		if !m.ReadByUser(userID) {
			unread++
		}
	}
	return unread, nil
}
