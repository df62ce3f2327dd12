package chat

import (
	"encoding/json"
	"time"

	"github.com/freshnest/backoffice/internal/user"
)

// Conversation is a two-party thread. Participants are stored low id first so
// a pair always maps to the same row.
type Conversation struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	ParticipantA int64     `json:"participant_a" gorm:"column:participant_a;index:idx_conversation_pair,unique;not null"`
	ParticipantB int64     `json:"participant_b" gorm:"column:participant_b;index:idx_conversation_pair,unique;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	LastMessage *Message `json:"last_message,omitempty" gorm:"-"`
	Unread      int64    `json:"unread" gorm:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) HasParticipant(userID int64) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

func (c *Conversation) OtherParticipant(userID int64) int64 {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// OrderPair returns the canonical participant ordering.
func OrderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Message is one chat message. ReadBy holds the user ids that have seen it,
// stored serialized.
type Message struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	ConversationID int64     `json:"conversation_id" gorm:"column:conversation_id;index;not null"`
	SenderID       int64     `json:"sender_id" gorm:"column:sender_id;not null"`
	ReceiverID     int64     `json:"receiver_id" gorm:"column:receiver_id;not null"`
	Body           string    `json:"body" gorm:"not null"`
	ReadByJSON     string    `json:"-" gorm:"column:read_by"`
	ReadBy         []int64   `json:"read_by" gorm:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}

func (m *Message) PackReadBy() error {
	if m.ReadBy == nil {
		m.ReadByJSON = "[]"
		return nil
	}
	raw, err := json.Marshal(m.ReadBy)
	if err != nil {
		return err
	}
	m.ReadByJSON = string(raw)
	return nil
}

func (m *Message) UnpackReadBy() error {
	if m.ReadByJSON == "" {
		m.ReadBy = []int64{}
		return nil
	}
	return json.Unmarshal([]byte(m.ReadByJSON), &m.ReadBy)
}

func (m *Message) ReadByUser(userID int64) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// AllowedPair is the chat policy: conversations run between an admin and a
// staff member or supplier, never sideways.
func AllowedPair(callerRole, otherRole string) bool {
	if callerRole == user.RoleAdmin {
		return otherRole == user.RoleStaff || otherRole == user.RoleSupplier
	}
	if callerRole == user.RoleStaff || callerRole == user.RoleSupplier {
		return otherRole == user.RoleAdmin
	}
	return false
}
