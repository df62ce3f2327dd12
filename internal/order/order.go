package order

import (
	"time"
)

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusInTransit = "In Transit"
	StatusDelivered = "Delivered"
	StatusRejected  = "Rejected"
)

// SupplierOrder is a restocking order placed with a supplier. Suppliers move
// it through the transition table below; admins review and confirm outside it.
type SupplierOrder struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	SupplierID       int64      `json:"supplier_id" gorm:"column:supplier_id;index;not null"`
	SupplierName     string     `json:"supplier_name" gorm:"column:supplier_name"`
	Category         string     `json:"category"`
	Brand            string     `json:"brand"`
	ProductName      string     `json:"product_name" gorm:"column:product_name;not null"`
	PricePerQuantity float64    `json:"price_per_quantity" gorm:"column:price_per_quantity"`
	Quantity         int        `json:"quantity" gorm:"not null"`
	ExpectedDelivery *time.Time `json:"expected_delivery,omitempty" gorm:"column:expected_delivery"`
	Notes            string     `json:"notes"`
	Status           string     `json:"status" gorm:"default:Pending"`
	AdminConfirmed   bool       `json:"admin_confirmed" gorm:"column:admin_confirmed;default:false"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty" gorm:"column:confirmed_at"`
	CreatedBy        int64      `json:"created_by" gorm:"column:created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (SupplierOrder) TableName() string {
	return "supplier_orders"
}

func (o *SupplierOrder) Total() float64 {
	return o.PricePerQuantity * float64(o.Quantity)
}

func (o *SupplierOrder) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusRejected
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusInTransit, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// supplierTransitions is the authoritative table for supplier-side moves.
// Delivered and Rejected are terminal; admins bypass this table entirely.
var supplierTransitions = map[string][]string{
	StatusPending:   {StatusInTransit, StatusRejected},
	StatusApproved:  {StatusInTransit, StatusRejected},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: {},
	StatusRejected:  {},
}

// SupplierCanTransition is the single gate for supplier status changes.
func SupplierCanTransition(from, to string) bool {
	for _, allowed := range supplierTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
