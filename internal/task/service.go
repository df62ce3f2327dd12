package task

import (
	"context"
	"log/slog"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/user"
)

// Repository defines the data access methods for tasks
type Repository interface {
	Create(t *Task) error
	GetByID(id int64) (*Task, error)
	Update(t *Task) error
	Delete(id int64) error
	ListCreatedBy(userID int64, filter ListTasksFilter) ([]*Task, int64, error)
	ListAssignedTo(staffID int64, filter ListTasksFilter) ([]*Task, int64, error)
}

// StaffDirectory is the slice of the staff module tasks need.
type StaffDirectory interface {
	GetByID(id int64) (*staff.Staff, error)
	GetByUserID(userID int64) (*staff.Staff, error)
	ListAll() ([]*staff.Staff, error)
}

type Service struct {
	repo   Repository
	staff  StaffDirectory
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, staffDir StaffDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, staff: staffDir, bus: bus, logger: logger}
}

// Create files a task. Admins and supervisor-position staff may create;
// assignees must be active staff without supervisor authority themselves.
func (s *Service) Create(callerUserID int64, callerRole string, dto CreateTaskDTO) (*Task, error) {
	deadline, err := dto.Validate()
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	creatorName := "Admin"
	if callerRole != user.RoleAdmin {
		creator, err := s.staff.GetByUserID(callerUserID)
		if err != nil {
			return nil, internal.ErrForbidden
		}
		if !creator.IsSupervisor() {
			return nil, internal.NewForbiddenError(
				"only supervisors can create tasks", internal.ErrCodeInsufficientRole)
		}
		creatorName = creator.Name
	}

	assignee, err := s.staff.GetByID(dto.AssignedTo)
	if err != nil {
		return nil, err
	}
	if !assignee.IsActive() {
		return nil, internal.NewValidationError(
			"assignee is not an active staff member", internal.ErrCodeValidationFailed)
	}
	if assignee.IsSupervisor() {
		return nil, internal.NewValidationError(
			"tasks cannot be assigned to supervisors", internal.ErrCodeValidationFailed)
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Task{
		Title:        dto.Title,
		Description:  dto.Description,
		AssignedTo:   assignee.ID,
		AssigneeName: assignee.Name,
		CreatedBy:    callerUserID,
		CreatorName:  creatorName,
		Status:       StatusPending,
		Priority:     priority,
		Deadline:     deadline,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "assigned_to", assignee.ID, "error", err)
		return nil, internal.NewInternalError("failed to create task", err)
	}

	deadlineStr := ""
	if deadline != nil {
		deadlineStr = deadline.Format("2006-01-02")
	}
	s.bus.Publish(context.Background(), events.NewTaskAssignedEvent(t.ID, assignee.ID, t.Title, deadlineStr))

	return t, nil
}

// UpdateStatus moves a task between statuses. Any status may follow any other;
// only the creator, the assignee or an admin may move the card.
func (s *Service) UpdateStatus(callerUserID int64, callerRole string, taskID int64, dto UpdateTaskStatusDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(callerUserID, callerRole, t); err != nil {
		return nil, err
	}

	if !CanTransition(t.Status, dto.Status) {
		return nil, internal.NewValidationError(
			"invalid task status", internal.ErrCodeInvalidTransition)
	}

	t.Status = dto.Status
	if err := s.repo.Update(t); err != nil {
		return nil, internal.NewInternalError("failed to update task", err)
	}
	return t, nil
}

func (s *Service) Delete(callerUserID int64, callerRole string, taskID int64) error {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return err
	}
	if callerRole != user.RoleAdmin && t.CreatedBy != callerUserID {
		return internal.NewForbiddenError(
			"only the creator or an admin can delete a task", internal.ErrCodeInsufficientRole)
	}
	return s.repo.Delete(taskID)
}

func (s *Service) GetByID(callerUserID int64, callerRole string, taskID int64) (*Task, error) {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(callerUserID, callerRole, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List scopes results by caller. Admins default to tasks they created;
// supervisors toggle between created and assigned via the scope filter;
// everyone else only ever sees tasks assigned to them.
func (s *Service) List(callerUserID int64, callerRole string, filter ListTasksFilter) ([]*Task, int64, error) {
	if callerRole == user.RoleAdmin {
		if filter.Scope == "assigned" {
			st, err := s.staff.GetByUserID(callerUserID)
			if err != nil {
				return []*Task{}, 0, nil
			}
			return s.repo.ListAssignedTo(st.ID, filter)
		}
		return s.repo.ListCreatedBy(callerUserID, filter)
	}

	st, err := s.staff.GetByUserID(callerUserID)
	if err != nil {
		return nil, 0, err
	}
	if st.IsSupervisor() && filter.Scope == "created" {
		return s.repo.ListCreatedBy(callerUserID, filter)
	}
	return s.repo.ListAssignedTo(st.ID, filter)
}

// AssignableStaff lists active staff a task can target.
func (s *Service) AssignableStaff() ([]*staff.Staff, error) {
	all, err := s.staff.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]*staff.Staff, 0, len(all))
	for _, st := range all {
		if st.IsActive() && !st.IsSupervisor() {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Service) authorize(callerUserID int64, callerRole string, t *Task) error {
	if callerRole == user.RoleAdmin || t.CreatedBy == callerUserID {
		return nil
	}
	st, err := s.staff.GetByUserID(callerUserID)
	if err == nil && st.ID == t.AssignedTo {
		return nil
	}
	return internal.NewForbiddenError(
		"task belongs to another staff member", internal.ErrCodeInsufficientRole)
}
