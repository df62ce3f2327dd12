package postgres

import (
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(filter user.ListUsersFilter) ([]*user.User, int64, error) {
	query := r.db.Model(&user.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("id IN (?)",
			r.db.Model(&user.SupplierProfile{}).Select("user_id").Where("category = ?", filter.Category))
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*user.User
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&user.User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *UserRepository) GetSupplierProfile(userID int64) (*user.SupplierProfile, error) {
	var p user.SupplierProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("supplier profile not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) SaveSupplierProfile(p *user.SupplierProfile) error {
	return r.db.Save(p).Error
}

func (r *UserRepository) CreateApplication(app *user.SupplierApplication) error {
	return r.db.Create(app).Error
}

func (r *UserRepository) GetApplication(id int64) (*user.SupplierApplication, error) {
	var app user.SupplierApplication
	err := r.db.Where("id = ?", id).First(&app).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("application not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &app, nil
}

func (r *UserRepository) ListApplications(status string, limit, offset int) ([]*user.SupplierApplication, int64, error) {
	query := r.db.Model(&user.SupplierApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []*user.SupplierApplication
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	return apps, total, err
}

func (r *UserRepository) UpdateApplication(app *user.SupplierApplication) error {
	return r.db.Save(app).Error
}
