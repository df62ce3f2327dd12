package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/staff"
)

// Repository defines the data access methods for leave requests
type Repository interface {
	Create(l *Leave) error
	GetByID(id int64) (*Leave, error)
	Update(l *Leave) error
	Delete(id int64) error
	ListByStaff(staffID int64, filter ListLeavesFilter) ([]*Leave, int64, error)
	ListAll(filter ListLeavesFilter) ([]*Leave, int64, error)
	ListActiveOverlapping(staffID int64, startDate, endDate string) ([]*Leave, error)
	ListApprovedInYear(staffID int64, year int) ([]*Leave, error)
	StatusSummary() (*StatusSummary, error)
	MonthlyCounts(year int) (map[string]int64, error)
	TypeCounts(year int) (map[string]int64, error)
	TopRequesters(year, limit int) ([]RequesterCount, error)
}

type RequesterCount struct {
	StaffID    int64   `json:"staff_id"`
	EmployeeID string  `json:"employee_id"`
	TotalDays  float64 `json:"total_days"`
	Requests   int64   `json:"requests"`
}

// StaffDirectory is the slice of the staff module leave needs.
type StaffDirectory interface {
	GetByUserID(userID int64) (*staff.Staff, error)
	GetByID(id int64) (*staff.Staff, error)
}

type Service struct {
	repo   Repository
	staff  StaffDirectory
	bus    *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, staffDir StaffDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, staff: staffDir, bus: bus, logger: logger, now: time.Now}
}

// WithClock overrides the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Apply files a leave request. Overlap with any pending or approved leave of
// the same staff member is a conflict; exhausted balances are not, the
// snapshot just records what was left.
func (s *Service) Apply(userID int64, dto ApplyLeaveDTO) (*Leave, error) {
	start, end, err := dto.Validate()
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return nil, internal.NewValidationError(
			"start date cannot be in the past", internal.ErrCodeValidationFailed)
	}

	st, err := s.staff.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.ListActiveOverlapping(st.ID, dto.StartDate, dto.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, internal.NewConflictError(
			"leave overlaps an existing request", internal.ErrCodeOverlappingLeave)
	}

	remaining, err := s.remainingFor(st.ID, dto.Type, start.Year())
	if err != nil {
		return nil, err
	}

	l := &Leave{
		StaffID:         st.ID,
		EmployeeID:      st.EmployeeID,
		Type:            dto.Type,
		StartDate:       dto.StartDate,
		EndDate:         dto.EndDate,
		HalfDay:         dto.HalfDay,
		TotalDays:       TotalDays(start, end, dto.HalfDay),
		Reason:          dto.Reason,
		Status:          StatusPending,
		BalanceSnapshot: remaining,
	}

	if err := s.repo.Create(l); err != nil {
		s.logger.Error("failed to create leave", "error", err, "staff_id", st.ID)
		return nil, err
	}

	s.logger.Info("leave applied",
		"leave_id", l.ID, "staff_id", st.ID, "type", l.Type, "days", l.TotalDays)
	return l, nil
}

// MyLeaves returns the caller's requests plus derived balances.
func (s *Service) MyLeaves(userID int64, filter ListLeavesFilter) ([]*Leave, []Balance, int64, error) {
	st, err := s.staff.GetByUserID(userID)
	if err != nil {
		return nil, nil, 0, err
	}

	leaves, total, err := s.repo.ListByStaff(st.ID, filter)
	if err != nil {
		return nil, nil, 0, err
	}

	balances, err := s.balancesFor(st.ID, s.now().Year())
	if err != nil {
		return nil, nil, 0, err
	}

	return leaves, balances, total, nil
}

// AllLeaves is the admin list with a status summary.
func (s *Service) AllLeaves(filter ListLeavesFilter) ([]*Leave, *StatusSummary, int64, error) {
	leaves, total, err := s.repo.ListAll(filter)
	if err != nil {
		return nil, nil, 0, err
	}

	summary, err := s.repo.StatusSummary()
	if err != nil {
		return nil, nil, 0, err
	}

	return leaves, summary, total, nil
}

// Review approves or rejects a pending request. Reviewing twice is a
// conflict; the first decision stands.
func (s *Service) Review(reviewerID, leaveID int64, dto ReviewLeaveDTO) (*Leave, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	l, err := s.repo.GetByID(leaveID)
	if err != nil {
		return nil, err
	}

	if l.Status != StatusPending {
		return nil, internal.NewConflictError("leave already reviewed", internal.ErrCodeAlreadyReviewed)
	}

	now := s.now()
	l.Status = dto.Status
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	l.ReviewComments = dto.Comments

	if err := s.repo.Update(l); err != nil {
		s.logger.Error("failed to review leave", "error", err, "leave_id", leaveID)
		return nil, err
	}

	s.bus.Publish(context.Background(),
		events.NewLeaveReviewedEvent(l.ID, l.StaffID, l.Status, dto.Comments))

	s.logger.Info("leave reviewed",
		"leave_id", leaveID, "status", l.Status, "reviewer_id", reviewerID)
	return l, nil
}

// Cancel hard-deletes the caller's own pending request.
func (s *Service) Cancel(userID, leaveID int64) error {
	st, err := s.staff.GetByUserID(userID)
	if err != nil {
		return err
	}

	l, err := s.repo.GetByID(leaveID)
	if err != nil {
		return err
	}

	if l.StaffID != st.ID {
		return internal.NewForbiddenError("leave belongs to another staff member", internal.ErrCodeInsufficientRole)
	}
	if l.Status != StatusPending {
		return internal.NewConflictError("only pending leaves can be cancelled", internal.ErrCodeInvalidStatus)
	}

	if err := s.repo.Delete(leaveID); err != nil {
		s.logger.Error("failed to cancel leave", "error", err, "leave_id", leaveID)
		return err
	}

	s.logger.Info("leave cancelled", "leave_id", leaveID, "staff_id", st.ID)
	return nil
}

// StaffBalances is the admin view of one staff member's balances.
func (s *Service) StaffBalances(staffID int64) ([]Balance, error) {
	if _, err := s.staff.GetByID(staffID); err != nil {
		return nil, err
	}
	return s.balancesFor(staffID, s.now().Year())
}

// Stats aggregates leave usage for the admin dashboard.
func (s *Service) Stats() (map[string]interface{}, error) {
	year := s.now().Year()

	monthly, err := s.repo.MonthlyCounts(year)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.TypeCounts(year)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopRequesters(year, 5)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.StatusSummary()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"year":           year,
		"monthly":        monthly,
		"by_type":        byType,
		"top_requesters": top,
		"summary":        summary,
	}, nil
}

func (s *Service) balancesFor(staffID int64, year int) ([]Balance, error) {
	approved, err := s.repo.ListApprovedInYear(staffID, year)
	if err != nil {
		return nil, err
	}
	return ComputeBalances(approved), nil
}

func (s *Service) remainingFor(staffID int64, leaveType string, year int) (float64, error) {
	balances, err := s.balancesFor(staffID, year)
	if err != nil {
		return 0, err
	}
	for _, b := range balances {
		if b.Type == leaveType {
			return b.Remaining, nil
		}
	}
	return 0, nil
}
