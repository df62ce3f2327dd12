package purchase

import (
	"encoding/json"
	"time"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Item is one line of a purchase.
type Item struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Purchase is the customer-facing purchase record, lighter than the payment
// ledger. Items are stored serialized.
type Purchase struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	CustomerEmail string    `json:"customer_email" gorm:"column:customer_email;index;not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Method        string    `json:"method" gorm:"default:online"`
	Status        string    `json:"status" gorm:"default:completed"`
	ItemsJSON     string    `json:"-" gorm:"column:items"`
	Items         []Item    `json:"items" gorm:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// PackItems serializes Items into the stored column.
func (p *Purchase) PackItems() error {
	if p.Items == nil {
		p.ItemsJSON = "[]"
		return nil
	}
	raw, err := json.Marshal(p.Items)
	if err != nil {
		return err
	}
	p.ItemsJSON = string(raw)
	return nil
}

// UnpackItems hydrates Items from the stored column.
func (p *Purchase) UnpackItems() error {
	if p.ItemsJSON == "" {
		p.Items = []Item{}
		return nil
	}
	return json.Unmarshal([]byte(p.ItemsJSON), &p.Items)
}
