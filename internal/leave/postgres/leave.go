package postgres

import (
	"fmt"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/leave"
	"gorm.io/gorm"
)

// LeaveRepository implements leave.Repository using GORM
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(l *leave.Leave) error {
	return r.db.Create(l).Error
}

func (r *LeaveRepository) GetByID(id int64) (*leave.Leave, error) {
	var l leave.Leave
	err := r.db.Where("id = ?", id).First(&l).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("leave not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &l, nil
}

func (r *LeaveRepository) Update(l *leave.Leave) error {
	return r.db.Save(l).Error
}

func (r *LeaveRepository) Delete(id int64) error {
	return r.db.Delete(&leave.Leave{}, id).Error
}

func (r *LeaveRepository) ListByStaff(staffID int64, filter leave.ListLeavesFilter) ([]*leave.Leave, int64, error) {
	query := r.db.Model(&leave.Leave{}).Where("staff_id = ?", staffID)
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []*leave.Leave
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *LeaveRepository) ListAll(filter leave.ListLeavesFilter) ([]*leave.Leave, int64, error) {
	query := r.db.Model(&leave.Leave{})
	if filter.StaffID != 0 {
		query = query.Where("staff_id = ?", filter.StaffID)
	}
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []*leave.Leave
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&leaves).Error
	return leaves, total, err
}

// ListActiveOverlapping finds pending or approved leaves whose inclusive date
// range intersects [startDate, endDate].
func (r *LeaveRepository) ListActiveOverlapping(staffID int64, startDate, endDate string) ([]*leave.Leave, error) {
	var leaves []*leave.Leave
	err := r.db.Where(
		"staff_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
		staffID, []string{leave.StatusPending, leave.StatusApproved}, endDate, startDate).
		Find(&leaves).Error
	return leaves, err
}

func (r *LeaveRepository) ListApprovedInYear(staffID int64, year int) ([]*leave.Leave, error) {
	prefix := fmt.Sprintf("%04d-%%", year)
	var leaves []*leave.Leave
	err := r.db.Where(
		"staff_id = ? AND status = ? AND start_date LIKE ?",
		staffID, leave.StatusApproved, prefix).
		Find(&leaves).Error
	return leaves, err
}

func (r *LeaveRepository) StatusSummary() (*leave.StatusSummary, error) {
	var summary leave.StatusSummary
	counts := map[string]*int64{
		leave.StatusPending:  &summary.Pending,
		leave.StatusApproved: &summary.Approved,
		leave.StatusRejected: &summary.Rejected,
	}
	for status, dest := range counts {
		if err := r.db.Model(&leave.Leave{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}
	return &summary, nil
}

func (r *LeaveRepository) MonthlyCounts(year int) (map[string]int64, error) {
	type row struct {
		Month string
		Count int64
	}
	var rows []row
	prefix := fmt.Sprintf("%04d-%%", year)
	err := r.db.Model(&leave.Leave{}).
		Select("substr(start_date, 1, 7) as month, COUNT(*) as count").
		Where("start_date LIKE ?", prefix).
		Group("substr(start_date, 1, 7)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Month] = r.Count
	}
	return out, nil
}

func (r *LeaveRepository) TypeCounts(year int) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	prefix := fmt.Sprintf("%04d-%%", year)
	err := r.db.Model(&leave.Leave{}).
		Select("type, COUNT(*) as count").
		Where("start_date LIKE ?", prefix).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Type] = r.Count
	}
	return out, nil
}

func (r *LeaveRepository) TopRequesters(year, limit int) ([]leave.RequesterCount, error) {
	var rows []leave.RequesterCount
	prefix := fmt.Sprintf("%04d-%%", year)
	err := r.db.Model(&leave.Leave{}).
		Select("staff_id, employee_id, SUM(total_days) as total_days, COUNT(*) as requests").
		Where("start_date LIKE ?", prefix).
		Group("staff_id, employee_id").
		Order("total_days DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func applyFilter(query *gorm.DB, filter leave.ListLeavesFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	return query
}
