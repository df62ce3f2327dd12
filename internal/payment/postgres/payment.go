package postgres

import (
	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/payment"
	"gorm.io/gorm"
)

// PaymentRepository implements payment.Repository using GORM
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(t *payment.Transaction) error {
	return r.db.Create(t).Error
}

func (r *PaymentRepository) GetByPaymentID(paymentID string) (*payment.Transaction, error) {
	var t payment.Transaction
	err := r.db.Where("payment_id = ?", paymentID).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.NewNotFoundError("transaction not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *PaymentRepository) Update(t *payment.Transaction) error {
	return r.db.Save(t).Error
}

func (r *PaymentRepository) List(filter payment.ListTransactionsFilter) ([]*payment.Transaction, int64, error) {
	query := r.db.Model(&payment.Transaction{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []*payment.Transaction
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&transactions).Error
	return transactions, total, err
}
