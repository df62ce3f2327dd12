package postgres

import (
	"fmt"

	"github.com/freshnest/backoffice/internal/salary"
	"gorm.io/gorm"
)

// SalaryRepository implements salary.Repository using GORM
type SalaryRepository struct {
	db *gorm.DB
}

func NewSalaryRepository(db *gorm.DB) salary.Repository {
	return &SalaryRepository{db: db}
}

func (r *SalaryRepository) Create(p *salary.Payment) error {
	return r.db.Create(p).Error
}

func (r *SalaryRepository) ListByStaff(staffID int64, filter salary.ListPaymentsFilter) ([]*salary.Payment, int64, error) {
	query := r.db.Model(&salary.Payment{}).Where("staff_id = ?", staffID)
	return r.list(query, filter)
}

func (r *SalaryRepository) ListByEmail(email string, filter salary.ListPaymentsFilter) ([]*salary.Payment, int64, error) {
	query := r.db.Model(&salary.Payment{}).Where("LOWER(email) = LOWER(?)", email)
	return r.list(query, filter)
}

func (r *SalaryRepository) ListAll(filter salary.ListPaymentsFilter) ([]*salary.Payment, int64, error) {
	return r.list(r.db.Model(&salary.Payment{}), filter)
}

func (r *SalaryRepository) list(query *gorm.DB, filter salary.ListPaymentsFilter) ([]*salary.Payment, int64, error) {
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*salary.Payment
	err := query.Order("paid_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&payments).Error
	return payments, total, err
}

func (r *SalaryRepository) MonthlySummaries(year int) ([]salary.MonthlySummary, error) {
	var summaries []salary.MonthlySummary
	prefix := fmt.Sprintf("%04d-%%", year)
	err := r.db.Model(&salary.Payment{}).
		Select("month, COUNT(*) as payments, SUM(base_salary) as total_base, " +
			"SUM(deductions) as total_deductions, SUM(paid_amount) as total_paid").
		Where("month LIKE ?", prefix).
		Group("month").
		Order("month").
		Scan(&summaries).Error
	return summaries, err
}

func (r *SalaryRepository) Recent(limit int) ([]*salary.Payment, error) {
	var payments []*salary.Payment
	err := r.db.Order("paid_at DESC").Limit(limit).Find(&payments).Error
	return payments, err
}
