package leave

import (
	"errors"
	"strings"
	"time"

	"github.com/freshnest/backoffice/pkg/validator"
)

type ApplyLeaveDTO struct {
	Type      string `json:"type" validate:"required,oneof=casual sick annual"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	HalfDay   bool   `json:"half_day"`
	Reason    string `json:"reason" validate:"omitempty,max=1000"`
}

func (dto ApplyLeaveDTO) Validate() (start, end time.Time, err error) {
	if err = validator.StructError(dto); err != nil {
		return start, end, err
	}

	start, err = time.Parse("2006-01-02", dto.StartDate)
	if err != nil {
		return start, end, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err = time.Parse("2006-01-02", dto.EndDate)
	if err != nil {
		return start, end, errors.New("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return start, end, errors.New("end_date cannot be before start_date")
	}
	if dto.HalfDay && !start.Equal(end) {
		return start, end, errors.New("half-day leave must start and end on the same date")
	}
	return start, end, nil
}

type ReviewLeaveDTO struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	Comments string `json:"comments" validate:"omitempty,max=1000"`
}

func (dto ReviewLeaveDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if dto.Status == StatusRejected && strings.TrimSpace(dto.Comments) == "" {
		return errors.New("comments are required when rejecting a leave")
	}
	return nil
}

type ListLeavesFilter struct {
	StaffID int64
	Status  string
	Type    string
	Page    int
	Limit   int
}
