package postgres

import (
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/user"
	"gorm.io/gorm"
)

// StaffRepository implements staff.Repository using GORM
type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) staff.Repository {
	return &StaffRepository{db: db}
}

// CreateWithUser creates the account row and the staff profile atomically.
func (r *StaffRepository) CreateWithUser(u *user.User, st *staff.Staff) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		st.UserID = u.ID
		return tx.Create(st).Error
	})
}

func (r *StaffRepository) GetByID(id int64) (*staff.Staff, error) {
	var st staff.Staff
	err := r.db.Where("id = ?", id).First(&st).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &st, nil
}

func (r *StaffRepository) GetByUserID(userID int64) (*staff.Staff, error) {
	var st staff.Staff
	err := r.db.Where("user_id = ?", userID).First(&st).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &st, nil
}

func (r *StaffRepository) GetByEmployeeID(employeeID string) (*staff.Staff, error) {
	var st staff.Staff
	err := r.db.Where("employee_id = ?", employeeID).First(&st).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &st, nil
}

func (r *StaffRepository) GetByEmail(email string) (*staff.Staff, error) {
	var st staff.Staff
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&st).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &st, nil
}

func (r *StaffRepository) List(filter staff.ListStaffFilter) ([]*staff.Staff, int64, error) {
	query := r.db.Model(&staff.Staff{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Shift != "" {
		query = query.Where("shift = ?", filter.Shift)
	}
	if filter.Position != "" {
		query = query.Where("LOWER(position) LIKE ?", "%"+strings.ToLower(filter.Position)+"%")
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_id) LIKE ?",
			needle, needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []*staff.Staff
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *StaffRepository) ListAll() ([]*staff.Staff, error) {
	var list []*staff.Staff
	err := r.db.Order("employee_id ASC").Find(&list).Error
	return list, err
}

func (r *StaffRepository) Update(st *staff.Staff) error {
	return r.db.Save(st).Error
}

func (r *StaffRepository) Delete(id int64) error {
	return r.db.Delete(&staff.Staff{}, id).Error
}

func (r *StaffRepository) UpdateUserPassword(userID int64, passwordHash string) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *StaffRepository) SetStatus(id int64, status string) error {
	return r.db.Model(&staff.Staff{}).Where("id = ?", id).Update("status", status).Error
}

func (r *StaffRepository) CountByStatus() (total, active, inactive int64, err error) {
	if err = r.db.Model(&staff.Staff{}).Count(&total).Error; err != nil {
		return
	}
	if err = r.db.Model(&staff.Staff{}).Where("status = ?", staff.StatusActive).Count(&active).Error; err != nil {
		return
	}
	inactive = total - active
	return
}

func (r *StaffRepository) CountByShift() (map[string]int64, error) {
	type shiftCount struct {
		Shift string
		Count int64
	}
	var rows []shiftCount
	err := r.db.Model(&staff.Staff{}).
		Select("shift, COUNT(*) as count").
		Where("status = ?", staff.StatusActive).
		Group("shift").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Shift] = row.Count
	}
	return out, nil
}

func (r *StaffRepository) RecentJoinings(limit int) ([]*staff.Staff, error) {
	var list []*staff.Staff
	err := r.db.Order("joining_date DESC").Limit(limit).Find(&list).Error
	return list, err
}
