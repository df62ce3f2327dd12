package postgres

import (
	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements task.Repository using GORM
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *task.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetByID(id int64) (*task.Task, error) {
	var t task.Task
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("task not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(t *task.Task) error {
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(id int64) error {
	return r.db.Delete(&task.Task{}, id).Error
}

func (r *TaskRepository) ListCreatedBy(userID int64, filter task.ListTasksFilter) ([]*task.Task, int64, error) {
	return r.list(r.db.Model(&task.Task{}).Where("created_by = ?", userID), filter)
}

func (r *TaskRepository) ListAssignedTo(staffID int64, filter task.ListTasksFilter) ([]*task.Task, int64, error) {
	return r.list(r.db.Model(&task.Task{}).Where("assigned_to = ?", staffID), filter)
}

func (r *TaskRepository) list(query *gorm.DB, filter task.ListTasksFilter) ([]*task.Task, int64, error) {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []*task.Task
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&tasks).Error
	return tasks, total, err
}
