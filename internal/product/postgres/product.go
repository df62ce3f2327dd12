package postgres

import (
	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/product"
	"gorm.io/gorm"
)

// ProductRepository implements product.Repository using GORM
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.Repository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *product.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id int64) (*product.Product, error) {
	var p product.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("product not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetBySKU(sku string) (*product.Product, error) {
	var p product.Product
	err := r.db.Where("sku = ?", sku).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("product not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Update(p *product.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id int64) error {
	return r.db.Delete(&product.Product{}, id).Error
}

func (r *ProductRepository) List(filter product.ListProductsFilter) ([]*product.Product, int64, error) {
	query := r.db.Model(&product.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR brand LIKE ?", pattern, pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*product.Product
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) CountByStatus() (total, active int64, err error) {
	if err = r.db.Model(&product.Product{}).Count(&total).Error; err != nil {
		return
	}
	err = r.db.Model(&product.Product{}).Where("status = ?", product.StatusActive).Count(&active).Error
	return
}

func (r *ProductRepository) ListBelowStock(threshold int) ([]*product.Product, error) {
	var products []*product.Product
	err := r.db.Where("stock <= ? AND status = ?", threshold, product.StatusActive).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}
