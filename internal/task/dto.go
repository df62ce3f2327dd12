package task

import (
	"errors"
	"strings"
	"time"

	"github.com/freshnest/backoffice/pkg/validator"
)

type CreateTaskDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  int64  `json:"assigned_to" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Deadline    string `json:"deadline" validate:"omitempty"`
}

func (dto CreateTaskDTO) Validate() (*time.Time, error) {
	if err := validator.StructError(dto); err != nil {
		return nil, err
	}
	if strings.TrimSpace(dto.Title) == "" {
		return nil, errors.New("title is required")
	}
	if dto.Deadline == "" {
		return nil, nil
	}
	deadline, err := time.Parse("2006-01-02", dto.Deadline)
	if err != nil {
		return nil, errors.New("deadline must be YYYY-MM-DD")
	}
	return &deadline, nil
}

type UpdateTaskStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

func (dto UpdateTaskStatusDTO) Validate() error {
	if err := validator.StructError(dto); err != nil {
		return err
	}
	if !IsValidStatus(dto.Status) {
		return errors.New("status must be Pending, In Progress or Completed")
	}
	return nil
}

type ListTasksFilter struct {
	Scope  string // created | assigned
	Status string
	Page   int
	Limit  int
}
