package user

import (
	"log/slog"
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/catalog"
)

// Repository defines the data access methods for users and supplier records
type Repository interface {
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List(filter ListUsersFilter) ([]*User, int64, error)
	Update(u *User) error
	UpdateStatus(id int64, status string) error

	GetSupplierProfile(userID int64) (*SupplierProfile, error)
	SaveSupplierProfile(p *SupplierProfile) error

	CreateApplication(app *SupplierApplication) error
	GetApplication(id int64) (*SupplierApplication, error)
	ListApplications(status string, limit, offset int) ([]*SupplierApplication, int64, error)
	UpdateApplication(app *SupplierApplication) error
}

// Mailer sends supplier onboarding mail, best effort. A nil mailer disables it.
type Mailer interface {
	SendSupplierWelcomeEmail(to, company string) error
}

// Service handles identity records and supplier onboarding
type Service struct {
	repo   Repository
	mailer Mailer
	logger *slog.Logger
}

func NewService(repo Repository, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, logger: logger}
}

// GetProfile returns the safe projection of a user, with the supplier
// sub-record attached for supplier roles.
func (s *Service) GetProfile(id int64) (*Profile, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var supplier *SupplierProfile
	if u.Role == RoleSupplier {
		supplier, err = s.repo.GetSupplierProfile(u.ID)
		if err != nil {
			s.logger.Warn("supplier profile missing", "user_id", u.ID, "error", err)
			supplier = nil
		}
	}

	return ToProfile(u, supplier), nil
}

func (s *Service) ListUsers(filter ListUsersFilter) ([]*Profile, int64, error) {
	users, total, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, 0, err
	}

	profiles := make([]*Profile, 0, len(users))
	for _, u := range users {
		var supplier *SupplierProfile
		if u.Role == RoleSupplier {
			supplier, _ = s.repo.GetSupplierProfile(u.ID)
		}
		profiles = append(profiles, ToProfile(u, supplier))
	}
	return profiles, total, nil
}

func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.Address != nil {
		u.Address = *dto.Address
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.Status != nil {
		u.Status = *dto.Status
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return s.GetProfile(id)
}

// ToggleStatus flips a user between active and inactive.
func (s *Service) ToggleStatus(id int64) (*Profile, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	next := StatusInactive
	if u.Status == StatusInactive {
		next = StatusActive
	}

	if err := s.repo.UpdateStatus(id, next); err != nil {
		s.logger.Error("failed to toggle user status", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user status toggled", "user_id", id, "status", next)
	return s.GetProfile(id)
}

func (s *Service) UpdateSupplierProfile(userID int64, dto UpdateSupplierProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleSupplier {
		return nil, internal.NewValidationError("user is not a supplier", internal.ErrCodeValidationFailed)
	}

	profile, err := s.repo.GetSupplierProfile(userID)
	if err != nil {
		profile = &SupplierProfile{UserID: userID}
	}

	if dto.ContactPerson != nil {
		profile.ContactPerson = *dto.ContactPerson
	}
	if dto.Category != nil {
		profile.Category = catalog.NormalizeCategory(*dto.Category)
	}
	if dto.Brands != nil {
		profile.Brands = *dto.Brands
	}
	if dto.PaymentTerms != nil {
		profile.PaymentTerms = *dto.PaymentTerms
	}
	if dto.Rating != nil {
		profile.Rating = *dto.Rating
	}

	if err := s.repo.SaveSupplierProfile(profile); err != nil {
		s.logger.Error("failed to save supplier profile", "error", err, "user_id", userID)
		return nil, err
	}

	return s.GetProfile(userID)
}

// SubmitApplication records a public supplier onboarding request.
func (s *Service) SubmitApplication(dto CreateSupplierApplicationDTO) (*SupplierApplication, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	app := &SupplierApplication{
		CompanyName:   strings.TrimSpace(dto.CompanyName),
		ContactPerson: dto.ContactPerson,
		Email:         strings.ToLower(strings.TrimSpace(dto.Email)),
		Phone:         dto.Phone,
		Category:      catalog.NormalizeCategory(dto.Category),
		Brands:        dto.Brands,
		Message:       dto.Message,
		Status:        ApplicationPending,
	}

	if err := s.repo.CreateApplication(app); err != nil {
		s.logger.Error("failed to create supplier application", "error", err, "email", app.Email)
		return nil, err
	}

	s.logger.Info("supplier application submitted", "application_id", app.ID, "email", app.Email)
	return app, nil
}

func (s *Service) ListApplications(status string, page, limit int) ([]*SupplierApplication, int64, error) {
	offset := (page - 1) * limit
	return s.repo.ListApplications(status, limit, offset)
}

// ReviewApplication moves a pending application to approved or rejected.
func (s *Service) ReviewApplication(id int64, dto ReviewSupplierApplicationDTO) (*SupplierApplication, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	app, err := s.repo.GetApplication(id)
	if err != nil {
		return nil, err
	}

	if app.Status != ApplicationPending {
		return nil, internal.NewConflictError("application already reviewed", internal.ErrCodeAlreadyReviewed)
	}

	app.Status = dto.Status
	if err := s.repo.UpdateApplication(app); err != nil {
		s.logger.Error("failed to update supplier application", "error", err, "application_id", id)
		return nil, err
	}

	if app.Status == ApplicationApproved && s.mailer != nil {
		if mailErr := s.mailer.SendSupplierWelcomeEmail(app.Email, app.CompanyName); mailErr != nil {
			s.logger.Warn("supplier welcome mail failed", "application_id", id, "error", mailErr)
		}
	}

	s.logger.Info("supplier application reviewed", "application_id", id, "status", app.Status)
	return app, nil
}
