package salary

import (
	"context"
	"log/slog"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/user"
)

// Repository defines the data access methods for salary payments
type Repository interface {
	Create(p *Payment) error
	ListByStaff(staffID int64, filter ListPaymentsFilter) ([]*Payment, int64, error)
	ListByEmail(email string, filter ListPaymentsFilter) ([]*Payment, int64, error)
	ListAll(filter ListPaymentsFilter) ([]*Payment, int64, error)
	MonthlySummaries(year int) ([]MonthlySummary, error)
	Recent(limit int) ([]*Payment, error)
}

// StaffDirectory is the slice of the staff module salary needs.
type StaffDirectory interface {
	GetByID(id int64) (*staff.Staff, error)
	GetByUserID(userID int64) (*staff.Staff, error)
	ListAll() ([]*staff.Staff, error)
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

// Pay records a salary payment. The row is immutable once written; notification
// and email side effects ride on the event bus and never fail the payment.
func (s *Service) Pay(adminUserID int64, dto PaySalaryDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	st, err := s.staff.GetByID(dto.StaffID)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		StaffID:    st.ID,
		EmployeeID: st.EmployeeID,
		StaffName:  st.Name,
		Email:      st.Email,
		Month:      dto.Month,
		BaseSalary: dto.BaseSalary,
		Deductions: dto.Deductions,
		Reason:     dto.Reason,
		PaidAmount: PaidAmount(dto.BaseSalary, dto.Deductions),
		PaidBy:     adminUserID,
		PaidAt:     s.now(),
	}
	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to record salary payment", "staff_id", st.ID, "error", err)
		return nil, internal.NewInternalError("failed to record salary payment", err)
	}

	s.bus.Publish(context.Background(), events.NewSalaryPaidEvent(p.ID, st.ID, st.Email, p.Month, p.PaidAmount, p.Deductions))

	s.logger.Info("salary paid",
		"staff_id", st.ID, "month", p.Month, "paid_amount", p.PaidAmount)
	return p, nil
}

// History lists payments of one staff member. Admins can read anyone; staff
// only themselves. When the staff row has no payments under its id, older rows
// keyed only by email are matched case-insensitively.
func (s *Service) History(callerUserID int64, callerRole string, staffID int64, filter ListPaymentsFilter) ([]*Payment, int64, error) {
	st, err := s.staff.GetByID(staffID)
	if err != nil {
		return nil, 0, err
	}

	if callerRole != user.RoleAdmin {
		own, err := s.staff.GetByUserID(callerUserID)
		if err != nil || own.ID != st.ID {
			return nil, 0, internal.NewForbiddenError(
				"salary history belongs to another staff member", internal.ErrCodeInsufficientRole)
		}
	}

	payments, total, err := s.repo.ListByStaff(st.ID, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 && st.Email != "" {
		return s.repo.ListByEmail(st.Email, filter)
	}
	return payments, total, nil
}

func (s *Service) MyHistory(userID int64, filter ListPaymentsFilter) ([]*Payment, int64, error) {
	st, err := s.staff.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	payments, total, err := s.repo.ListByStaff(st.ID, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 && st.Email != "" {
		return s.repo.ListByEmail(st.Email, filter)
	}
	return payments, total, nil
}

func (s *Service) ListPayments(filter ListPaymentsFilter) ([]*Payment, int64, error) {
	return s.repo.ListAll(filter)
}

// PayrollStaff lists every staff member with their configured salary, the
// admin's worksheet for running a pay cycle.
func (s *Service) PayrollStaff() ([]*staff.Staff, error) {
	return s.staff.ListAll()
}

func (s *Service) MonthlySummaries(year int) ([]MonthlySummary, error) {
	if year == 0 {
		year = s.now().Year()
	}
	return s.repo.MonthlySummaries(year)
}

func (s *Service) RecentPayments(limit int) ([]*Payment, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.Recent(limit)
}
