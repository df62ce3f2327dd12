package auth

import (
	"errors"
	"strings"

	"github.com/freshnest/backoffice/pkg/validator"
)

type SignupDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"omitempty,oneof=user retailer"`
}

func (dto SignupDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	// Public signup never grants privileged roles.
	if dto.Role != "" && dto.Role != "user" && dto.Role != "retailer" {
		return errors.New("role must be user or retailer")
	}
	return validator.StructError(dto)
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (dto LoginDTO) Validate() error {
	return validator.StructError(dto)
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (dto RefreshTokenDTO) Validate() error {
	return validator.StructError(dto)
}

type VerifyOTPDTO struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (dto VerifyOTPDTO) Validate() error {
	return validator.StructError(dto)
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

func (dto ForgotPasswordDTO) Validate() error {
	return validator.StructError(dto)
}

type ResetPasswordDTO struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (dto ResetPasswordDTO) Validate() error {
	return validator.StructError(dto)
}
