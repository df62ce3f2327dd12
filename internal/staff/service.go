package staff

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/user"
)

// Repository defines the data access methods for staff profiles
type Repository interface {
	CreateWithUser(u *user.User, st *Staff) error
	GetByID(id int64) (*Staff, error)
	GetByUserID(userID int64) (*Staff, error)
	GetByEmployeeID(employeeID string) (*Staff, error)
	GetByEmail(email string) (*Staff, error)
	List(filter ListStaffFilter) ([]*Staff, int64, error)
	ListAll() ([]*Staff, error)
	Update(st *Staff) error
	Delete(id int64) error
	UpdateUserPassword(userID int64, passwordHash string) error
	SetStatus(id int64, status string) error
	CountByStatus() (total, active, inactive int64, err error)
	CountByShift() (map[string]int64, error)
	RecentJoinings(limit int) ([]*Staff, error)
}

// Mailer sends staff lifecycle emails, best effort.
type Mailer interface {
	SendStaffWelcomeEmail(to, name, employeeID, password string) error
}

type Service struct {
	repo       Repository
	mailer     Mailer
	bus        *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, mailer Mailer, bus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		mailer:     mailer,
		bus:        bus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create onboards a staff member: user account plus employment profile in one
// transaction. When no password is supplied one is generated; it is returned
// once and emailed to the new hire.
func (s *Service) Create(dto CreateStaffDTO) (*CreatedStaff, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		return nil, internal.NewConflictError("email already registered", internal.ErrCodeDuplicateEmail)
	}

	password := dto.Password
	generated := false
	if password == "" {
		var err error
		password, err = GeneratePassword(10)
		if err != nil {
			return nil, internal.NewInternalError("failed to generate password", err)
		}
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	shift := dto.Shift
	if shift == "" {
		shift = ShiftMorning
	}
	joining := time.Now()
	if dto.JoiningDate != nil {
		joining = *dto.JoiningDate
	}

	u := &user.User{
		Name:          strings.TrimSpace(dto.Name),
		Email:         email,
		PasswordHash:  string(hash),
		Phone:         dto.Phone,
		Role:          user.RoleStaff,
		Status:        user.StatusActive,
		EmailVerified: true,
	}

	st := &Staff{
		EmployeeID:  GenerateEmployeeID(),
		Name:        u.Name,
		Email:       email,
		Phone:       dto.Phone,
		Position:    strings.TrimSpace(dto.Position),
		Shift:       shift,
		Salary:      dto.Salary,
		JoiningDate: joining,
		Address:     dto.Address,
		Status:      StatusActive,
	}

	if err := s.repo.CreateWithUser(u, st); err != nil {
		s.logger.Error("failed to create staff", "error", err, "email", email)
		return nil, err
	}

	if err := s.mailer.SendStaffWelcomeEmail(email, st.Name, st.EmployeeID, password); err != nil {
		s.logger.Warn("failed to send welcome email", "error", err, "staff_id", st.ID)
	}

	s.bus.Publish(context.Background(),
		events.NewStaffOnboardedEvent(st.ID, st.UserID, st.Email, st.EmployeeID))

	s.logger.Info("staff created", "staff_id", st.ID, "employee_id", st.EmployeeID)

	out := &CreatedStaff{Staff: st}
	if generated {
		out.Password = password
	}
	return out, nil
}

func (s *Service) GetByID(id int64) (*Staff, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByUserID(userID int64) (*Staff, error) {
	return s.repo.GetByUserID(userID)
}

func (s *Service) List(filter ListStaffFilter) ([]*Staff, int64, error) {
	return s.repo.List(filter)
}

func (s *Service) Update(id int64, dto UpdateStaffDTO) (*Staff, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	st, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		st.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Phone != nil {
		st.Phone = *dto.Phone
	}
	if dto.Position != nil {
		st.Position = strings.TrimSpace(*dto.Position)
	}
	if dto.Shift != nil {
		st.Shift = *dto.Shift
	}
	if dto.Salary != nil {
		st.Salary = *dto.Salary
	}
	if dto.JoiningDate != nil {
		st.JoiningDate = *dto.JoiningDate
	}
	if dto.Address != nil {
		st.Address = *dto.Address
	}
	if dto.Status != nil {
		st.Status = *dto.Status
	}

	if err := s.repo.Update(st); err != nil {
		s.logger.Error("failed to update staff", "error", err, "staff_id", id)
		return nil, err
	}

	s.logger.Info("staff updated", "staff_id", id)
	return st, nil
}

// Delete deactivates the profile; permanent removes the row.
func (s *Service) Delete(id int64, permanent bool) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if permanent {
		if err := s.repo.Delete(id); err != nil {
			s.logger.Error("failed to delete staff", "error", err, "staff_id", id)
			return err
		}
		s.logger.Info("staff permanently deleted", "staff_id", id)
		return nil
	}

	if err := s.repo.SetStatus(id, StatusInactive); err != nil {
		s.logger.Error("failed to deactivate staff", "error", err, "staff_id", id)
		return err
	}
	s.logger.Info("staff deactivated", "staff_id", id)
	return nil
}

// ResetPassword generates a new temporary password for the linked account and
// returns it once.
func (s *Service) ResetPassword(id int64) (string, error) {
	st, err := s.repo.GetByID(id)
	if err != nil {
		return "", err
	}

	password, err := GeneratePassword(10)
	if err != nil {
		return "", internal.NewInternalError("failed to generate password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdateUserPassword(st.UserID, string(hash)); err != nil {
		s.logger.Error("failed to reset staff password", "error", err, "staff_id", id)
		return "", err
	}

	if err := s.mailer.SendStaffWelcomeEmail(st.Email, st.Name, st.EmployeeID, password); err != nil {
		s.logger.Warn("failed to send password email", "error", err, "staff_id", id)
	}

	s.logger.Info("staff password reset", "staff_id", id)
	return password, nil
}

func (s *Service) Stats() (*Stats, error) {
	total, active, inactive, err := s.repo.CountByStatus()
	if err != nil {
		return nil, err
	}

	shifts, err := s.repo.CountByShift()
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentJoinings(5)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Total:             total,
		Active:            active,
		Inactive:          inactive,
		ShiftDistribution: shifts,
		RecentJoinings:    recent,
	}, nil
}

// ExportCSV renders the full staff list as CSV.
func (s *Service) ExportCSV() ([]byte, error) {
	all, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Employee ID", "Name", "Email", "Phone", "Position", "Shift", "Salary", "Joining Date", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, st := range all {
		row := []string{
			st.EmployeeID,
			st.Name,
			st.Email,
			st.Phone,
			st.Position,
			st.Shift,
			strconv.FormatFloat(st.Salary, 'f', 2, 64),
			st.JoiningDate.Format("2006-01-02"),
			st.Status,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QRBadge encodes the staff identity card as a PNG QR code returned as a
// data URL.
func (s *Service) QRBadge(id int64) (*QRBadge, error) {
	st, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{
		"employee_id": st.EmployeeID,
		"name":        st.Name,
		"email":       st.Email,
		"phone":       st.Phone,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to build badge payload", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return nil, internal.NewInternalError("failed to encode QR badge", err)
	}

	return &QRBadge{
		EmployeeID: st.EmployeeID,
		Name:       st.Name,
		DataURL:    fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)),
	}, nil
}
