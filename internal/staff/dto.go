package staff

import (
	"errors"
	"strings"
	"time"

	"github.com/freshnest/backoffice/pkg/validator"
)

type CreateStaffDTO struct {
	Name        string     `json:"name" validate:"required,min=1,max=120"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone"`
	Position    string     `json:"position" validate:"required"`
	Shift       string     `json:"shift" validate:"omitempty,oneof=morning evening night"`
	Salary      float64    `json:"salary" validate:"gte=0"`
	JoiningDate *time.Time `json:"joining_date,omitempty"`
	Address     string     `json:"address"`
	Password    string     `json:"password,omitempty" validate:"omitempty,min=6"`
}

func (dto CreateStaffDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(dto.Position) == "" {
		return errors.New("position is required")
	}
	return nil
}

// UpdateStaffDTO: nil pointers leave fields unchanged.
type UpdateStaffDTO struct {
	Name        *string    `json:"name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Shift       *string    `json:"shift,omitempty"`
	Salary      *float64   `json:"salary,omitempty"`
	JoiningDate *time.Time `json:"joining_date,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

func (dto UpdateStaffDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Shift != nil && !IsValidShift(*dto.Shift) {
		return errors.New("shift must be morning, evening or night")
	}
	if dto.Salary != nil && *dto.Salary < 0 {
		return errors.New("salary cannot be negative")
	}
	if dto.Status != nil && *dto.Status != StatusActive && *dto.Status != StatusInactive {
		return errors.New("status must be active or inactive")
	}
	return nil
}

type ListStaffFilter struct {
	Status   string
	Shift    string
	Position string
	Search   string
	Page     int
	Limit    int
}

// CreatedStaff is the create response. The generated password is returned
// exactly once.
type CreatedStaff struct {
	Staff    *Staff `json:"staff"`
	Password string `json:"password,omitempty"`
}

// QRBadge is the PNG badge payload for a staff member.
type QRBadge struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	DataURL    string `json:"data_url"`
}
