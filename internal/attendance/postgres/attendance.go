package postgres

import (
	"fmt"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/attendance"
	"gorm.io/gorm"
)

// AttendanceRepository implements attendance.Repository using GORM
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(rec *attendance.Record) error {
	return r.db.Create(rec).Error
}

func (r *AttendanceRepository) Update(rec *attendance.Record) error {
	return r.db.Save(rec).Error
}

func (r *AttendanceRepository) GetByStaffAndDate(staffID int64, date string) (*attendance.Record, error) {
	var rec attendance.Record
	err := r.db.Where("staff_id = ? AND date = ?", staffID, date).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("attendance record not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) ListByStaffAndMonth(staffID int64, year int, month time.Month) ([]*attendance.Record, error) {
	prefix := fmt.Sprintf("%04d-%02d-%%", year, month)
	var records []*attendance.Record
	err := r.db.Where("staff_id = ? AND date LIKE ?", staffID, prefix).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListByDate(date string) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Where("date = ?", date).Find(&records).Error
	return records, err
}
