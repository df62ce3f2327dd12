package notification

import "time"

const (
	TypeLowStock = "low_stock"
	TypeInfo     = "info"
	TypeAlert    = "alert"
	TypeSystem   = "system"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification is a per-recipient in-app message. RelatedType/RelatedID point
// at the entity that produced it, when there is one.
type Notification struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	RecipientID int64      `json:"recipient_id" gorm:"column:recipient_id;index;not null"`
	Type        string     `json:"type" gorm:"default:info"`
	Priority    string     `json:"priority" gorm:"default:normal"`
	Title       string     `json:"title" gorm:"not null"`
	Message     string     `json:"message"`
	IsRead      bool       `json:"is_read" gorm:"column:is_read;default:false"`
	ReadAt      *time.Time `json:"read_at,omitempty" gorm:"column:read_at"`
	RelatedType string     `json:"related_type,omitempty" gorm:"column:related_type"`
	RelatedID   int64      `json:"related_id,omitempty" gorm:"column:related_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
