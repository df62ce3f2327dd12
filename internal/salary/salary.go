package salary

import (
	"time"
)

// Payment is an immutable record of a salary disbursement. Rows are only ever
// inserted; corrections are new payments, never edits.
type Payment struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	StaffID    int64     `json:"staff_id" gorm:"column:staff_id;index;not null"`
	EmployeeID string    `json:"employee_id" gorm:"column:employee_id"`
	StaffName  string    `json:"staff_name" gorm:"column:staff_name"`
	Email      string    `json:"email" gorm:"index"`
	Month      string    `json:"month" gorm:"not null"`
	BaseSalary float64   `json:"base_salary" gorm:"column:base_salary;not null"`
	Deductions float64   `json:"deductions" gorm:"default:0"`
	Reason     string    `json:"reason,omitempty"`
	PaidAmount float64   `json:"paid_amount" gorm:"column:paid_amount;not null"`
	PaidBy     int64     `json:"paid_by" gorm:"column:paid_by"`
	PaidAt     time.Time `json:"paid_at" gorm:"column:paid_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "salary_payments"
}

// PaidAmount derives the disbursed amount; deductions never push a payment
// below zero.
func PaidAmount(base, deductions float64) float64 {
	paid := base - deductions
	if paid < 0 {
		return 0
	}
	return paid
}

// MonthlySummary aggregates payments of one calendar month.
type MonthlySummary struct {
	Month           string  `json:"month"`
	Payments        int64   `json:"payments"`
	TotalBase       float64 `json:"total_base"`
	TotalDeductions float64 `json:"total_deductions"`
	TotalPaid       float64 `json:"total_paid"`
}
