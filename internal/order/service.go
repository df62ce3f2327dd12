package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/catalog"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/user"
)

// Repository defines the data access methods for supplier orders
type Repository interface {
	Create(o *SupplierOrder) error
	GetByID(id int64) (*SupplierOrder, error)
	Update(o *SupplierOrder) error
	List(filter ListOrdersFilter) ([]*SupplierOrder, int64, error)
}

// SupplierDirectory is the slice of the user module orders need.
type SupplierDirectory interface {
	GetByID(id int64) (*user.User, error)
	GetSupplierProfile(userID int64) (*user.SupplierProfile, error)
	SaveSupplierProfile(p *user.SupplierProfile) error
}

type Service struct {
	repo      Repository
	suppliers SupplierDirectory
	bus       *events.EventBus
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, suppliers SupplierDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, suppliers: suppliers, bus: bus, logger: logger, now: time.Now}
}

// Create places a restocking order with a supplier. Supplier metrics are
// bumped best effort, a metrics failure never fails the order.
func (s *Service) Create(adminUserID int64, dto CreateOrderDTO) (*SupplierOrder, error) {
	expected, err := dto.Validate()
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	supplier, err := s.suppliers.GetByID(dto.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Role != user.RoleSupplier {
		return nil, internal.NewValidationError(
			"selected user is not a supplier", internal.ErrCodeValidationFailed)
	}

	category := catalog.NormalizeCategory(dto.Category)
	o := &SupplierOrder{
		SupplierID:       supplier.ID,
		SupplierName:     supplier.Name,
		Category:         category,
		Brand:            catalog.NormalizeBrandForCategory(dto.Brand, category),
		ProductName:      dto.ProductName,
		PricePerQuantity: dto.PricePerQuantity,
		Quantity:         dto.Quantity,
		ExpectedDelivery: expected,
		Notes:            dto.Notes,
		Status:           StatusPending,
		CreatedBy:        adminUserID,
	}
	if err := s.repo.Create(o); err != nil {
		return nil, internal.NewInternalError("failed to create order", err)
	}

	s.bumpSupplierMetrics(supplier.ID, func(p *user.SupplierProfile) {
		p.TotalOrders++
		now := s.now()
		p.LastOrderDate = &now
	})

	s.bus.Publish(context.Background(), events.NewOrderStatusMovedEvent(o.ID, o.SupplierID, "", StatusPending))
	return o, nil
}

// UpdateStatus moves an order. Suppliers are held to the transition table and
// may only touch their own orders; admins may set any valid status on any
// order.
func (s *Service) UpdateStatus(callerUserID int64, callerRole string, orderID int64, dto UpdateOrderStatusDTO) (*SupplierOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if callerRole != user.RoleAdmin {
		if o.SupplierID != callerUserID {
			return nil, internal.NewForbiddenError(
				"order belongs to another supplier", internal.ErrCodeInsufficientRole)
		}
		if !SupplierCanTransition(o.Status, dto.Status) {
			return nil, internal.NewValidationError(
				"cannot move order from "+o.Status+" to "+dto.Status, internal.ErrCodeInvalidTransition)
		}
	}

	from := o.Status
	o.Status = dto.Status
	if err := s.repo.Update(o); err != nil {
		return nil, internal.NewInternalError("failed to update order", err)
	}

	if from != StatusDelivered && o.Status == StatusDelivered {
		s.bumpSupplierMetrics(o.SupplierID, func(p *user.SupplierProfile) {
			p.TotalSpent += o.Total()
		})
	}

	s.bus.Publish(context.Background(), events.NewOrderStatusMovedEvent(o.ID, o.SupplierID, from, o.Status))
	return o, nil
}

// Review is the admin approve/reject shortcut; it ignores the supplier
// transition table.
func (s *Service) Review(orderID int64, dto ReviewOrderDTO) (*SupplierOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if dto.Action == "approve" {
		o.Status = StatusApproved
	} else {
		o.Status = StatusRejected
	}
	if err := s.repo.Update(o); err != nil {
		return nil, internal.NewInternalError("failed to review order", err)
	}

	s.bus.Publish(context.Background(), events.NewOrderStatusMovedEvent(o.ID, o.SupplierID, from, o.Status))
	return o, nil
}

// ConfirmDelivery records the admin sign-off on a delivered order. It is an
// independent flag, not a status change, and only valid once the supplier has
// marked the order Delivered.
func (s *Service) ConfirmDelivery(orderID int64) (*SupplierOrder, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDelivered {
		return nil, internal.NewValidationError(
			"order has not been delivered", internal.ErrCodeNotDelivered)
	}
	if o.AdminConfirmed {
		return o, nil
	}

	now := s.now()
	o.AdminConfirmed = true
	o.ConfirmedAt = &now
	if err := s.repo.Update(o); err != nil {
		return nil, internal.NewInternalError("failed to confirm delivery", err)
	}
	return o, nil
}

func (s *Service) GetByID(callerUserID int64, callerRole string, orderID int64) (*SupplierOrder, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if callerRole != user.RoleAdmin && o.SupplierID != callerUserID {
		return nil, internal.NewForbiddenError(
			"order belongs to another supplier", internal.ErrCodeInsufficientRole)
	}
	return o, nil
}

// List returns all orders for admins and only the caller's own orders for
// suppliers.
func (s *Service) List(callerUserID int64, callerRole string, filter ListOrdersFilter) ([]*SupplierOrder, int64, error) {
	if callerRole != user.RoleAdmin {
		filter.SupplierID = callerUserID
	}
	return s.repo.List(filter)
}

func (s *Service) bumpSupplierMetrics(supplierID int64, mutate func(*user.SupplierProfile)) {
	profile, err := s.suppliers.GetSupplierProfile(supplierID)
	if err != nil {
		profile = &user.SupplierProfile{UserID: supplierID}
	}
	mutate(profile)
	if err := s.suppliers.SaveSupplierProfile(profile); err != nil {
		s.logger.Warn("failed to update supplier metrics", "supplier_id", supplierID, "error", err)
	}
}
