package staff

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

func IsValidShift(shift string) bool {
	switch shift {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return true
	}
	return false
}

// Staff is the employment profile linked to a user account. Email and name
// are snapshotted here so attendance and payroll reads avoid a join.
type Staff struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	EmployeeID  string    `json:"employee_id" gorm:"column:employee_id;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Email       string    `json:"email" gorm:"not null"`
	Phone       string    `json:"phone"`
	Position    string    `json:"position"`
	Shift       string    `json:"shift" gorm:"default:morning"`
	Salary      float64   `json:"salary" gorm:"default:0"`
	JoiningDate time.Time `json:"joining_date" gorm:"column:joining_date"`
	Address     string    `json:"address"`
	Status      string    `json:"status" gorm:"default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) IsActive() bool {
	return s.Status == StatusActive
}

// IsSupervisor reports whether the position marks this staff member as a
// supervisor. The check is a case-insensitive substring match, so titles like
// "Floor Supervisor" qualify.
func (s *Staff) IsSupervisor() bool {
	return strings.Contains(strings.ToLower(s.Position), "supervisor")
}

// GenerateEmployeeID builds an employee ID from the current timestamp plus a
// random suffix, e.g. EMP17251234004821.
func GenerateEmployeeID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("EMP%d%04d", time.Now().Unix(), suffix)
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random temporary password for new staff.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = 10
	}
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// Stats is the aggregate block for the admin staff dashboard.
type Stats struct {
	Total             int64            `json:"total"`
	Active            int64            `json:"active"`
	Inactive          int64            `json:"inactive"`
	ShiftDistribution map[string]int64 `json:"shift_distribution"`
	RecentJoinings    []*Staff         `json:"recent_joinings"`
}
