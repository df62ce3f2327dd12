package user

import (
	"time"
)

// Role values carried on a user row.
const (
	RoleUser     = "user"
	RoleRetailer = "retailer"
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleSupplier = "supplier"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleRetailer, RoleAdmin, RoleStaff, RoleSupplier:
		return true
	}
	return false
}

// User is the identity record shared by every role. Credential and token
// columns never leave the service layer; responses go through ToProfile.
type User struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Username     *string `json:"username,omitempty" gorm:"uniqueIndex"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         string `json:"role" gorm:"default:user;index"`
	Status       string `json:"status" gorm:"default:active"`

	EmailVerified bool       `json:"email_verified" gorm:"column:email_verified;default:false"`
	OTP           *string    `json:"-" gorm:"column:otp"`
	OTPExpiresAt  *time.Time `json:"-" gorm:"column:otp_expires_at"`

	ResetToken          *string    `json:"-" gorm:"column:reset_token"`
	ResetTokenExpiresAt *time.Time `json:"-" gorm:"column:reset_token_expires_at"`

	RefreshToken          *string    `json:"-" gorm:"column:refresh_token"`
	RefreshTokenExpiresAt *time.Time `json:"-" gorm:"column:refresh_token_expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// SupplierProfile carries the supplier sub-record for users with the supplier
// role. Metrics are maintained by the order module.
type SupplierProfile struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	UserID        int64      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	ContactPerson string     `json:"contact_person" gorm:"column:contact_person"`
	Category      string     `json:"category"`
	Brands        string     `json:"brands"` // comma separated curated brands
	PaymentTerms  string     `json:"payment_terms" gorm:"column:payment_terms"`
	TotalOrders   int        `json:"total_orders" gorm:"column:total_orders;default:0"`
	TotalSpent    float64    `json:"total_spent" gorm:"column:total_spent;default:0"`
	Rating        float64    `json:"rating" gorm:"default:0"`
	LastOrderDate *time.Time `json:"last_order_date,omitempty" gorm:"column:last_order_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (SupplierProfile) TableName() string {
	return "supplier_profiles"
}

// Supplier application review states.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// SupplierApplication is the public onboarding request reviewed by admins.
type SupplierApplication struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	CompanyName   string    `json:"company_name" gorm:"column:company_name;not null"`
	ContactPerson string    `json:"contact_person" gorm:"column:contact_person"`
	Email         string    `json:"email" gorm:"not null"`
	Phone         string    `json:"phone"`
	Category      string    `json:"category"`
	Brands        string    `json:"brands"`
	Message       string    `json:"message"`
	Status        string    `json:"status" gorm:"default:pending"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (SupplierApplication) TableName() string {
	return "supplier_applications"
}

// Profile is the safe projection of a user row.
type Profile struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Username      *string          `json:"username,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Address       string           `json:"address,omitempty"`
	Role          string           `json:"role"`
	Status        string           `json:"status"`
	EmailVerified bool             `json:"email_verified"`
	Supplier      *SupplierProfile `json:"supplier,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func ToProfile(u *User, supplier *SupplierProfile) *Profile {
	return &Profile{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Username:      u.Username,
		Phone:         u.Phone,
		Address:       u.Address,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		Supplier:      supplier,
		CreatedAt:     u.CreatedAt,
	}
}
