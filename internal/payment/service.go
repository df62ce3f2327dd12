package payment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/paymentgateway"
	"github.com/freshnest/backoffice/internal/user"
)

// Repository defines the data access methods for payment transactions
type Repository interface {
	Create(t *Transaction) error
	GetByPaymentID(paymentID string) (*Transaction, error)
	Update(t *Transaction) error
	List(filter ListTransactionsFilter) ([]*Transaction, int64, error)
}

// Gateway is the slice of the gateway client payments need.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (*paymentgateway.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	FetchPayment(ctx context.Context, paymentID string) (*paymentgateway.PaymentDetails, error)
	RefundPayment(ctx context.Context, paymentID string, amount float64) (*paymentgateway.Refund, error)
}

// UserDirectory resolves the caller's email for transaction ownership.
type UserDirectory interface {
	GetByID(id int64) (*user.User, error)
}

type Service struct {
	repo    Repository
	gateway Gateway
	users   UserDirectory
	logger  *slog.Logger
}

func NewService(repo Repository, gateway Gateway, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, gateway: gateway, users: users, logger: logger}
}

func (s *Service) CreateOrder(ctx context.Context, dto CreateOrderDTO) (*paymentgateway.Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAmount)
	}

	order, err := s.gateway.CreateOrder(ctx, dto.Amount, dto.Currency)
	if err != nil {
		s.logger.Error("failed to create gateway order", "amount", dto.Amount, "error", err)
		return nil, internal.NewInternalError("failed to create payment order", err)
	}
	return order, nil
}

// Verify checks the checkout signature and records the transaction. A bad
// signature is a hard rejection; a failed ledger write is logged and the
// verification still succeeds.
func (s *Service) Verify(ctx context.Context, callerUserID int64, dto VerifyPaymentDTO) (*Transaction, error) {
	customerEmail := ""
	if u, err := s.users.GetByID(callerUserID); err == nil {
		customerEmail = u.Email
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if !s.gateway.VerifySignature(dto.OrderID, dto.PaymentID, dto.Signature) {
		return nil, internal.NewValidationError(
			"payment signature verification failed", internal.ErrCodeSignatureMismatch)
	}

	t := &Transaction{
		OrderID:       dto.OrderID,
		PaymentID:     dto.PaymentID,
		Status:        StatusVerified,
		CustomerEmail: strings.ToLower(strings.TrimSpace(customerEmail)),
	}
	if details, err := s.gateway.FetchPayment(ctx, dto.PaymentID); err == nil {
		t.Amount = float64(details.Amount) / 100
		t.Currency = details.Currency
		t.Method = details.Method
		t.Contact = details.Contact
		if t.CustomerEmail == "" {
			t.CustomerEmail = strings.ToLower(details.Email)
		}
	} else {
		s.logger.Warn("failed to fetch payment details", "payment_id", dto.PaymentID, "error", err)
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to persist verified payment", "payment_id", dto.PaymentID, "error", err)
	}
	return t, nil
}

func (s *Service) Refund(ctx context.Context, dto RefundDTO) (*paymentgateway.Refund, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	refund, err := s.gateway.RefundPayment(ctx, dto.PaymentID, dto.Amount)
	if err != nil {
		return nil, internal.NewInternalError("refund failed", err)
	}

	if t, err := s.repo.GetByPaymentID(dto.PaymentID); err == nil {
		t.Status = StatusRefunded
		if err := s.repo.Update(t); err != nil {
			s.logger.Warn("failed to mark transaction refunded", "payment_id", dto.PaymentID, "error", err)
		}
	}
	return refund, nil
}

func (s *Service) ListTransactions(filter ListTransactionsFilter) ([]*Transaction, int64, error) {
	return s.repo.List(filter)
}

// MyTransactions lists the caller's payments, matched by email.
func (s *Service) MyTransactions(callerUserID int64, filter ListTransactionsFilter) ([]*Transaction, int64, error) {
	u, err := s.users.GetByID(callerUserID)
	if err != nil {
		return nil, 0, err
	}
	filter.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return s.repo.List(filter)
}
