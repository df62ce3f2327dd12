package task

import (
	"time"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	AssignedTo   int64      `json:"assigned_to" gorm:"column:assigned_to;index;not null"`
	AssigneeName string     `json:"assignee_name" gorm:"column:assignee_name"`
	CreatedBy    int64      `json:"created_by" gorm:"column:created_by;index;not null"`
	CreatorName  string     `json:"creator_name" gorm:"column:creator_name"`
	Status       string     `json:"status" gorm:"default:Pending"`
	Priority     string     `json:"priority" gorm:"default:medium"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// CanTransition is the single transition gate for task statuses. Every pair of
// valid statuses is allowed, including reversals and skips: the board supports
// moving a card anywhere, authorization is the only restriction.
func CanTransition(from, to string) bool {
	return IsValidStatus(from) && IsValidStatus(to)
}
