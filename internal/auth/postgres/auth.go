package postgres

import (
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/auth"
	"github.com/freshnest/backoffice/internal/user"
	"gorm.io/gorm"
)

// AuthRepository implements auth.Repository over the shared user rows.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.Repository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *AuthRepository) GetByEmail(email string) (*user.User, error) {
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

func (r *AuthRepository) GetByID(id int64) (*user.User, error) {
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

func (r *AuthRepository) GetByResetToken(token string) (*user.User, error) {
	var u user.User
	err := r.db.Where("reset_token = ?", token).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}
