package postgres

import (
	"github.com/freshnest/backoffice/internal/purchase"
	"gorm.io/gorm"
)

// PurchaseRepository implements purchase.Repository using GORM
type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) purchase.Repository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(p *purchase.Purchase) error {
	return r.db.Create(p).Error
}

func (r *PurchaseRepository) List(filter purchase.ListPurchasesFilter) ([]*purchase.Purchase, int64, error) {
	query := r.db.Model(&purchase.Purchase{})
	if filter.Email != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []*purchase.Purchase
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&purchases).Error
	return purchases, total, err
}
