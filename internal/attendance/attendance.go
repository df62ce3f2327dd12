package attendance

import (
	"math"
	"time"

	"github.com/freshnest/backoffice/internal"
)

// Day statuses. Absent is never stored for a marked day; it is derived for
// days without a record.
const (
	StatusPresent   = "Present"
	StatusAbsent    = "Absent"
	StatusLate      = "Late"
	StatusEarlyExit = "Early Exit"
	StatusHalfDay   = "Half Day"
)

// GraceMinutes is allowed after shift start before a check-in counts as Late.
const GraceMinutes = 15

// HalfDayHours is the working-hours cutoff below which a completed day
// counts as a half day.
const HalfDayHours = 4.0

// Record is one staff member's attendance for one calendar date. A date moves
// through exactly two transitions: no record -> checked in -> checked out.
type Record struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	StaffID      int64      `json:"staff_id" gorm:"column:staff_id;not null;uniqueIndex:idx_attendance_staff_date,priority:1"`
	EmployeeID   string     `json:"employee_id" gorm:"column:employee_id;not null"`
	Date         string     `json:"date" gorm:"not null;uniqueIndex:idx_attendance_staff_date,priority:2"` // YYYY-MM-DD
	Shift        string     `json:"shift" gorm:"not null"`
	CheckInAt    time.Time  `json:"check_in_at" gorm:"column:check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty" gorm:"column:check_out_at"`
	Status       string     `json:"status"`
	WorkingHours float64    `json:"working_hours" gorm:"column:working_hours;default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

func (r *Record) CheckedOut() bool {
	return r.CheckOutAt != nil
}

// ShiftWindow returns the shift bounds as minutes from midnight of the shift
// date. Night runs 22:00 to 06:00 the next day, so its end exceeds 24h.
func ShiftWindow(shift string) (startMin, endMin int) {
	switch shift {
	case "evening":
		return 14 * 60, 22 * 60
	case "night":
		return 22 * 60, 30 * 60
	default: // morning
		return 9 * 60, 18 * 60
	}
}

// CheckIn starts a record for the given instant. The status is Late when the
// instant falls after shift start plus grace.
func CheckIn(staffID int64, employeeID, shift string, at time.Time) *Record {
	status := StatusPresent
	startMin, _ := ShiftWindow(shift)
	if minutesIntoDay(at) > startMin+GraceMinutes {
		status = StatusLate
	}

	return &Record{
		StaffID:    staffID,
		EmployeeID: employeeID,
		Date:       at.Format("2006-01-02"),
		Shift:      shift,
		CheckInAt:  at,
		Status:     status,
	}
}

// CheckOut completes the record. Checked-out is terminal for the day; calling
// this on a completed record returns a conflict.
//
// Only a Present day is downgraded: under HalfDayHours of work to Half Day,
// leaving before the scheduled shift end to Early Exit. A Late check-in
// stays Late.
func (r *Record) CheckOut(at time.Time) error {
	if r.CheckedOut() {
		return internal.NewConflictError("attendance already marked for today", internal.ErrCodeAlreadyMarked)
	}
	if at.Before(r.CheckInAt) {
		return internal.NewValidationError("check-out must be after check-in", internal.ErrCodeValidationFailed)
	}

	hours := at.Sub(r.CheckInAt).Hours()
	r.WorkingHours = math.Round(hours*100) / 100

	_, endMin := ShiftWindow(r.Shift)
	elapsed := minutesIntoDay(at)
	if at.Format("2006-01-02") != r.Date {
		// past midnight relative to the shift date
		elapsed += 24 * 60
	}

	if r.Status == StatusPresent {
		switch {
		case r.WorkingHours < HalfDayHours:
			r.Status = StatusHalfDay
		case elapsed < endMin:
			r.Status = StatusEarlyExit
		}
	}

	out := at
	r.CheckOutAt = &out
	return nil
}

func minutesIntoDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// MonthStats is the per-staff monthly aggregate, derived from records on
// every read.
type MonthStats struct {
	Month             string  `json:"month"`
	Present           int     `json:"present"`
	Late              int     `json:"late"`
	EarlyExit         int     `json:"early_exit"`
	HalfDay           int     `json:"half_day"`
	Absent            int     `json:"absent"`
	TotalWorkingHours float64 `json:"total_working_hours"`
	Today             *Record `json:"today,omitempty"`
}

// ComputeMonthStats derives the monthly aggregate. Every marked day counts as
// present; Late/EarlyExit/HalfDay break the marked days down further.
// daysElapsed is how many days of the month have passed including today;
// absent days are the elapsed days without any record.
func ComputeMonthStats(month string, records []*Record, daysElapsed int, today *Record) MonthStats {
	stats := MonthStats{Month: month, Today: today}

	for _, r := range records {
		stats.Present++
		switch r.Status {
		case StatusLate:
			stats.Late++
		case StatusEarlyExit:
			stats.EarlyExit++
		case StatusHalfDay:
			stats.HalfDay++
		}
		stats.TotalWorkingHours += r.WorkingHours
	}
	stats.TotalWorkingHours = math.Round(stats.TotalWorkingHours*100) / 100

	marked := len(records)
	if daysElapsed > marked {
		stats.Absent = daysElapsed - marked
	}
	return stats
}
