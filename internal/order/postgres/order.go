package postgres

import (
	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/order"
	"gorm.io/gorm"
)

// OrderRepository implements order.Repository using GORM
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.Repository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *order.SupplierOrder) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id int64) (*order.SupplierOrder, error) {
	var o order.SupplierOrder
	err := r.db.Where("id = ?", id).First(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("order not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Update(o *order.SupplierOrder) error {
	return r.db.Save(o).Error
}

func (r *OrderRepository) List(filter order.ListOrdersFilter) ([]*order.SupplierOrder, int64, error) {
	query := r.db.Model(&order.SupplierOrder{})
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*order.SupplierOrder
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&orders).Error
	return orders, total, err
}
