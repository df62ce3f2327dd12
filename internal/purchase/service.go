package purchase

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/user"
	"github.com/freshnest/backoffice/pkg/validator"
)

type CreatePurchaseDTO struct {
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Method        string  `json:"method" validate:"omitempty,max=40"`
	Status        string  `json:"status" validate:"omitempty,oneof=completed pending failed"`
	Items         []Item  `json:"items"`
}

func (dto CreatePurchaseDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	for _, item := range dto.Items {
		if item.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if item.Price < 0 {
			return errors.New("item price cannot be negative")
		}
	}
	return nil
}

type ListPurchasesFilter struct {
	Email string
	Page  int
	Limit int
}

// Repository defines the data access methods for purchases
type Repository interface {
	Create(p *Purchase) error
	List(filter ListPurchasesFilter) ([]*Purchase, int64, error)
}

// UserDirectory resolves the caller's email for purchase ownership.
type UserDirectory interface {
	GetByID(id int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, logger: logger}
}

func (s *Service) Create(dto CreatePurchaseDTO) (*Purchase, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	status := dto.Status
	if status == "" {
		status = StatusCompleted
	}
	method := dto.Method
	if method == "" {
		method = "online"
	}

	p := &Purchase{
		CustomerEmail: strings.ToLower(strings.TrimSpace(dto.CustomerEmail)),
		Amount:        dto.Amount,
		Method:        method,
		Status:        status,
		Items:         dto.Items,
	}
	if err := p.PackItems(); err != nil {
		return nil, internal.NewValidationError("invalid items", internal.ErrCodeValidationFailed)
	}
	if err := s.repo.Create(p); err != nil {
		return nil, internal.NewInternalError("failed to record purchase", err)
	}
	return p, nil
}

// MyPurchases lists the caller's purchases by lowercased email.
func (s *Service) MyPurchases(callerUserID int64, filter ListPurchasesFilter) ([]*Purchase, int64, error) {
	u, err := s.users.GetByID(callerUserID)
	if err != nil {
		return nil, 0, err
	}
	filter.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return s.list(filter)
}

func (s *Service) ListAll(filter ListPurchasesFilter) ([]*Purchase, int64, error) {
	return s.list(filter)
}

func (s *Service) list(filter ListPurchasesFilter) ([]*Purchase, int64, error) {
	purchases, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range purchases {
		if err := p.UnpackItems(); err != nil {
			s.logger.Warn("failed to decode purchase items", "purchase_id", p.ID, "error", err)
			p.Items = []Item{}
		}
	}
	return purchases, total, nil
}
