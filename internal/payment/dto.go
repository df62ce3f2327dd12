package payment

import (
	"errors"

	"github.com/freshnest/backoffice/pkg/validator"
)

type CreateOrderDTO struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

func (dto CreateOrderDTO) Validate() error {
	if dto.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return validator.StructError(dto)
}

type VerifyPaymentDTO struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

func (dto VerifyPaymentDTO) Validate() error {
	return validator.StructError(dto)
}

type RefundDTO struct {
	PaymentID string  `json:"payment_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
}

func (dto RefundDTO) Validate() error {
	return validator.StructError(dto)
}

type ListTransactionsFilter struct {
	Status string
	Email  string
	Page   int
	Limit  int
}
