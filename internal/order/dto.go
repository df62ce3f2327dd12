package order

import (
	"errors"
	"strings"
	"time"

	"github.com/freshnest/backoffice/pkg/validator"
)

type CreateOrderDTO struct {
	SupplierID       int64   `json:"supplier_id" validate:"required"`
	Category         string  `json:"category"`
	Brand            string  `json:"brand"`
	ProductName      string  `json:"product_name" validate:"required,max=200"`
	PricePerQuantity float64 `json:"price_per_quantity" validate:"gte=0"`
	Quantity         int     `json:"quantity" validate:"required,gt=0"`
	ExpectedDelivery string  `json:"expected_delivery" validate:"omitempty"`
	Notes            string  `json:"notes" validate:"omitempty,max=1000"`
}

func (dto CreateOrderDTO) Validate() (*time.Time, error) {
	if err := validator.StructError(dto); err != nil {
		return nil, err
	}
	if strings.TrimSpace(dto.ProductName) == "" {
		return nil, errors.New("product_name is required")
	}
	if dto.ExpectedDelivery == "" {
		return nil, nil
	}
	expected, err := time.Parse("2006-01-02", dto.ExpectedDelivery)
	if err != nil {
		return nil, errors.New("expected_delivery must be YYYY-MM-DD")
	}
	return &expected, nil
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

func (dto UpdateOrderStatusDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if !IsValidStatus(dto.Status) {
		return errors.New("unknown order status")
	}
	return nil
}

type ReviewOrderDTO struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

func (dto ReviewOrderDTO) Validate() error {
	return validator.StructError(dto)
}

type ListOrdersFilter struct {
	SupplierID int64
	Status     string
	Page       int
	Limit      int
}
