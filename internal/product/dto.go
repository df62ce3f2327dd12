package product

import (
	"errors"
	"strings"

	"github.com/freshnest/backoffice/pkg/validator"
)

type CreateProductDTO struct {
	Name        string  `json:"name" validate:"required,max=200"`
	SKU         string  `json:"sku" validate:"required,max=64"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	CostPrice   float64 `json:"cost_price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Unit        string  `json:"unit"`
}

func (dto CreateProductDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(dto.SKU) == "" {
		return errors.New("sku is required")
	}
	return nil
}

type UpdateProductDTO struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CostPrice   *float64 `json:"cost_price"`
	Stock       *int     `json:"stock"`
	Unit        *string  `json:"unit"`
	Status      *string  `json:"status"`
}

func (dto UpdateProductDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Price != nil && *dto.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if dto.CostPrice != nil && *dto.CostPrice < 0 {
		return errors.New("cost_price cannot be negative")
	}
	if dto.Stock != nil && *dto.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if dto.Status != nil && *dto.Status != StatusActive && *dto.Status != StatusInactive {
		return errors.New("status must be active or inactive")
	}
	return nil
}

type ListProductsFilter struct {
	Search   string
	Category string
	Status   string
	Page     int
	Limit    int
}
