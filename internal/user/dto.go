package user

import (
	"errors"
	"strings"

	"github.com/freshnest/backoffice/pkg/validator"
)

// UpdateUserDTO carries the admin-editable identity fields. Nil pointers mean
// "leave unchanged".
type UpdateUserDTO struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Role    *string `json:"role,omitempty"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (dto UpdateUserDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Role != nil && !IsValidRole(*dto.Role) {
		return errors.New("invalid role")
	}
	if dto.Status != nil && *dto.Status != StatusActive && *dto.Status != StatusInactive {
		return errors.New("status must be active or inactive")
	}
	return nil
}

// UpdateSupplierProfileDTO updates the supplier sub-record.
type UpdateSupplierProfileDTO struct {
	ContactPerson *string  `json:"contact_person,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Brands        *string  `json:"brands,omitempty"`
	PaymentTerms  *string  `json:"payment_terms,omitempty"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

func (dto UpdateSupplierProfileDTO) Validate() error {
	return validator.StructError(dto)
}

// ListUsersFilter is the query surface for the admin user list.
type ListUsersFilter struct {
	Role     string
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

// CreateSupplierApplicationDTO is the public onboarding request.
type CreateSupplierApplicationDTO struct {
	CompanyName   string `json:"company_name" validate:"required,min=2,max=160"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Category      string `json:"category"`
	Brands        string `json:"brands"`
	Message       string `json:"message" validate:"omitempty,max=2000"`
}

func (dto CreateSupplierApplicationDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if strings.TrimSpace(dto.CompanyName) == "" {
		return errors.New("company name is required")
	}
	return nil
}

// ReviewSupplierApplicationDTO moves an application out of pending.
type ReviewSupplierApplicationDTO struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (dto ReviewSupplierApplicationDTO) Validate() error {
	return validator.StructError(dto)
}
