package leave

import (
	"time"
)

const (
	TypeCasual = "casual"
	TypeSick   = "sick"
	TypeAnnual = "annual"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DefaultAllowance is the per-type annual allowance in days.
var DefaultAllowance = map[string]float64{
	TypeCasual: 12,
	TypeSick:   10,
	TypeAnnual: 15,
}

func IsValidType(t string) bool {
	_, ok := DefaultAllowance[t]
	return ok
}

// Leave is one leave request. Dates are stored as YYYY-MM-DD and bounds are
// inclusive on both sides.
type Leave struct {
	ID         int64   `json:"id" gorm:"primaryKey"`
	StaffID    int64   `json:"staff_id" gorm:"column:staff_id;index;not null"`
	EmployeeID string  `json:"employee_id" gorm:"column:employee_id"`
	Type       string  `json:"type" gorm:"not null"`
	StartDate  string  `json:"start_date" gorm:"column:start_date;not null"`
	EndDate    string  `json:"end_date" gorm:"column:end_date;not null"`
	HalfDay    bool    `json:"half_day" gorm:"column:half_day;default:false"`
	TotalDays  float64 `json:"total_days" gorm:"column:total_days"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status" gorm:"default:pending"`

	ReviewedBy      *int64     `json:"reviewed_by,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
	ReviewComments  string     `json:"review_comments,omitempty" gorm:"column:review_comments"`
	BalanceSnapshot float64    `json:"balance_snapshot" gorm:"column:balance_snapshot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Leave) TableName() string {
	return "leaves"
}

// TotalDays computes the day count for an inclusive date range; half-day
// requests always count 0.5 regardless of range.
func TotalDays(start, end time.Time, halfDay bool) float64 {
	if halfDay {
		return 0.5
	}
	return float64(end.Sub(start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive date ranges intersect:
// existing.start <= new.end AND existing.end >= new.start.
func Overlaps(existingStart, existingEnd, newStart, newEnd string) bool {
	return existingStart <= newEnd && existingEnd >= newStart
}

// Balance is the derived per-type remaining allowance for a calendar year.
// Remaining is clamped to zero for display; over-allocation is permitted, so
// Used may exceed the allowance.
type Balance struct {
	Type      string  `json:"type"`
	Allowance float64 `json:"allowance"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// ComputeBalances derives balances from the approved leaves of one calendar
// year. Nothing is stored; callers pass fresh rows on every read.
func ComputeBalances(approved []*Leave) []Balance {
	used := make(map[string]float64, len(DefaultAllowance))
	for _, l := range approved {
		used[l.Type] += l.TotalDays
	}

	out := make([]Balance, 0, len(DefaultAllowance))
	for _, t := range []string{TypeCasual, TypeSick, TypeAnnual} {
		allowance := DefaultAllowance[t]
		remaining := allowance - used[t]
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, Balance{
			Type:      t,
			Allowance: allowance,
			Used:      used[t],
			Remaining: remaining,
		})
	}
	return out
}

// StatusSummary counts leaves per review state.
type StatusSummary struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
