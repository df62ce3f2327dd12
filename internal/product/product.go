package product

import (
	"strings"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	SKU         string    `json:"sku" gorm:"uniqueIndex;not null"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"default:0"`
	CostPrice   float64   `json:"cost_price" gorm:"column:cost_price;default:0"`
	Stock       int       `json:"stock" gorm:"default:0"`
	Unit        string    `json:"unit" gorm:"default:pcs"`
	Status      string    `json:"status" gorm:"default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// NormalizeSKU forces the canonical uppercase form used for uniqueness.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// ImportRowError records one failed row of a CSV import, keyed by the SKU the
// row carried (possibly empty).
type ImportRowError struct {
	SKU   string `json:"sku"`
	Error string `json:"error"`
}

// ImportResult summarizes a CSV import. Row failures never fail the batch.
type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors"`
}
