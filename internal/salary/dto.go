package salary

import (
	"errors"
	"regexp"

	"github.com/freshnest/backoffice/pkg/validator"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type PaySalaryDTO struct {
	StaffID    int64   `json:"staff_id" validate:"required"`
	Month      string  `json:"month" validate:"required"`
	BaseSalary float64 `json:"base_salary" validate:"gte=0"`
	Deductions float64 `json:"deductions" validate:"gte=0"`
	Reason     string  `json:"reason" validate:"omitempty,max=500"`
}

func (dto PaySalaryDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if !monthPattern.MatchString(dto.Month) {
		return errors.New("month must be YYYY-MM")
	}
	return nil
}

type ListPaymentsFilter struct {
	Month string
	Page  int
	Limit int
}
