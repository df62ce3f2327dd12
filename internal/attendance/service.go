package attendance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/staff"
)

// Repository defines the data access methods for attendance records
type Repository interface {
	Create(r *Record) error
	Update(r *Record) error
	GetByStaffAndDate(staffID int64, date string) (*Record, error)
	ListByStaffAndMonth(staffID int64, year int, month time.Month) ([]*Record, error)
	ListByDate(date string) ([]*Record, error)
}

// StaffDirectory is the slice of the staff module attendance needs.
type StaffDirectory interface {
	GetByEmployeeID(employeeID string) (*staff.Staff, error)
	GetByUserID(userID int64) (*staff.Staff, error)
	GetByID(id int64) (*staff.Staff, error)
	ListAll() ([]*staff.Staff, error)
}

type Service struct {
	repo   Repository
	staff  StaffDirectory
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, staffDir StaffDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, staff: staffDir, logger: logger, now: time.Now}
}

// MarkAttendance advances today's record for the employee: first call checks
// in, second call checks out, a third call is a conflict.
func (s *Service) MarkAttendance(employeeID string) (*Record, error) {
	st, err := s.staff.GetByEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive() {
		return nil, internal.NewForbiddenError("staff account is inactive", internal.ErrCodeUserInactive)
	}

	now := s.now()
	today := now.Format("2006-01-02")

	existing, err := s.repo.GetByStaffAndDate(st.ID, today)
	if err != nil {
		if !internal.IsNotFound(err) {
			return nil, err
		}
		record := CheckIn(st.ID, st.EmployeeID, st.Shift, now)
		if err := s.repo.Create(record); err != nil {
			s.logger.Error("failed to create attendance record", "error", err, "staff_id", st.ID)
			return nil, err
		}
		s.logger.Info("attendance check-in",
			"staff_id", st.ID, "employee_id", st.EmployeeID, "status", record.Status)
		return record, nil
	}

	if err := existing.CheckOut(now); err != nil {
		return nil, err
	}
	if err := s.repo.Update(existing); err != nil {
		s.logger.Error("failed to update attendance record", "error", err, "staff_id", st.ID)
		return nil, err
	}

	s.logger.Info("attendance check-out",
		"staff_id", st.ID,
		"employee_id", st.EmployeeID,
		"status", existing.Status,
		"working_hours", existing.WorkingHours)
	return existing, nil
}

// MyStats derives the calling staff member's aggregate for the current month.
func (s *Service) MyStats(userID int64) (*MonthStats, error) {
	st, err := s.staff.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.monthStats(st.ID, s.now())
}

// MyHistory lists the calling staff member's records for a month.
func (s *Service) MyHistory(userID int64, year int, month time.Month) ([]*Record, error) {
	st, err := s.staff.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStaffAndMonth(st.ID, year, month)
}

// StaffHistory is the admin view of a single staff member's month.
func (s *Service) StaffHistory(staffID int64, year int, month time.Month) ([]*Record, error) {
	if _, err := s.staff.GetByID(staffID); err != nil {
		return nil, err
	}
	return s.repo.ListByStaffAndMonth(staffID, year, month)
}

// DailyReportEntry pairs a staff member with their record for the day;
// staff without a record appear as Absent.
type DailyReportEntry struct {
	StaffID    int64   `json:"staff_id"`
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Shift      string  `json:"shift"`
	Status     string  `json:"status"`
	Record     *Record `json:"record,omitempty"`
}

// DailyReport builds the admin all-staff view for a date, filling Absent for
// active staff with no record.
func (s *Service) DailyReport(date string) ([]*DailyReportEntry, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}

	records, err := s.repo.ListByDate(date)
	if err != nil {
		return nil, err
	}
	byStaff := make(map[int64]*Record, len(records))
	for _, r := range records {
		byStaff[r.StaffID] = r
	}

	allStaff, err := s.staff.ListAll()
	if err != nil {
		return nil, err
	}

	report := make([]*DailyReportEntry, 0, len(allStaff))
	for _, st := range allStaff {
		if !st.IsActive() {
			continue
		}
		entry := &DailyReportEntry{
			StaffID:    st.ID,
			EmployeeID: st.EmployeeID,
			Name:       st.Name,
			Shift:      st.Shift,
			Status:     StatusAbsent,
		}
		if r, ok := byStaff[st.ID]; ok {
			entry.Status = r.Status
			entry.Record = r
		}
		report = append(report, entry)
	}
	return report, nil
}

func (s *Service) monthStats(staffID int64, now time.Time) (*MonthStats, error) {
	records, err := s.repo.ListByStaffAndMonth(staffID, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	var todayRecord *Record
	for _, r := range records {
		if r.Date == today {
			todayRecord = r
			break
		}
	}

	month := fmt.Sprintf("%04d-%02d", now.Year(), now.Month())
	stats := ComputeMonthStats(month, records, now.Day(), todayRecord)
	return &stats, nil
}
