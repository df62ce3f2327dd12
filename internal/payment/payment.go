package payment

import (
	"time"
)

const (
	StatusCreated  = "created"
	StatusVerified = "verified"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

// Transaction is the local ledger entry for a gateway payment. Written after
// signature verification succeeds.
type Transaction struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	OrderID       string    `json:"order_id" gorm:"column:order_id;index;not null"`
	PaymentID     string    `json:"payment_id" gorm:"column:payment_id;uniqueIndex"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency" gorm:"default:INR"`
	Status        string    `json:"status" gorm:"default:created"`
	Method        string    `json:"method"`
	CustomerEmail string    `json:"customer_email" gorm:"column:customer_email;index"`
	Contact       string    `json:"contact"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "payment_transactions"
}
