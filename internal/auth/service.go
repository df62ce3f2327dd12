package auth

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/user"
)

// Repository defines the user rows auth needs to read and write.
type Repository interface {
	Create(u *user.User) error
	GetByEmail(email string) (*user.User, error)
	GetByID(id int64) (*user.User, error)
	GetByResetToken(token string) (*user.User, error)
	Update(u *user.User) error
}

// Mailer sends the auth-related emails. All calls are best effort.
type Mailer interface {
	SendOTPEmail(to, name, otp string) error
	SendPasswordResetEmail(to, name, token string) error
}

// Service handles signup, login, token lifecycle and account recovery
type Service struct {
	repo        Repository
	tokens      TokenGenerator
	rateLimiter *LoginRateLimiter
	mailer      Mailer
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, rateLimiter *LoginRateLimiter, mailer Mailer, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		tokens:      tokens,
		rateLimiter: rateLimiter,
		mailer:      mailer,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// Signup registers a user or retailer account and sends a verification OTP.
func (s *Service) Signup(dto SignupDTO) (*user.Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		return nil, internal.NewConflictError("email already registered", internal.ErrCodeDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = user.RoleUser
	}

	otp, err := GenerateOTP()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate otp", err)
	}
	otpExpiry := time.Now().Add(10 * time.Minute)

	u := &user.User{
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        dto.Phone,
		Role:         role,
		Status:       user.StatusActive,
		OTP:          &otp,
		OTPExpiresAt: &otpExpiry,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("signup failed", "error", err, "email", email)
		return nil, err
	}

	if err := s.mailer.SendOTPEmail(u.Email, u.Name, otp); err != nil {
		s.logger.Warn("failed to send otp email", "error", err, "user_id", u.ID)
	}

	s.logger.Info("user signed up", "user_id", u.ID, "role", role)
	return user.ToProfile(u, nil), nil
}

// Login verifies credentials under the rate limiter and issues a token pair.
// The refresh token is persisted on the user row so logout can revoke it.
func (s *Service) Login(dto LoginDTO, clientIP string) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if ok, remaining := s.rateLimiter.Allow(clientIP); !ok {
		minutes := int(remaining.Minutes()) + 1
		s.logger.Warn("login blocked by rate limiter", "ip", clientIP, "minutes_left", minutes)
		return AuthTokens{}, internal.NewRateLimitError(
			fmt.Sprintf("too many failed attempts, try again in %d minutes", minutes))
	}

	u, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		s.rateLimiter.RecordFailure(clientIP)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.rateLimiter.RecordFailure(clientIP)
		s.logger.Warn("invalid password", "user_id", u.ID, "ip", clientIP)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !u.IsActive() {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.rateLimiter.RecordSuccess(clientIP)

	tokens, err := s.issueTokens(u)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return tokens, nil
}

// RefreshTokens validates the refresh token against both its signature and
// the copy stored on the user row, then rotates the pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByID(claims.UserIDInt())
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	if u.RefreshToken == nil || *u.RefreshToken != refreshToken {
		s.logger.Warn("refresh token mismatch", "user_id", u.ID)
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if u.RefreshTokenExpiresAt != nil && u.RefreshTokenExpiresAt.Before(time.Now()) {
		return AuthTokens{}, internal.ErrTokenExpired
	}
	if !u.IsActive() {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(u)
}

// Logout clears the stored refresh token.
func (s *Service) Logout(userID int64) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	u.RefreshToken = nil
	u.RefreshTokenExpiresAt = nil
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("logout failed", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user logged out", "user_id", userID)
	return nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// VerifyOTP confirms the signup email address.
func (s *Service) VerifyOTP(dto VerifyOTPDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		return err
	}

	if u.OTP == nil || *u.OTP != dto.OTP {
		return internal.NewValidationError("invalid otp", internal.ErrCodeValidationFailed)
	}
	if u.OTPExpiresAt == nil || u.OTPExpiresAt.Before(time.Now()) {
		return internal.NewValidationError("otp has expired", internal.ErrCodeValidationFailed)
	}

	u.EmailVerified = true
	u.OTP = nil
	u.OTPExpiresAt = nil
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("otp verification update failed", "error", err, "user_id", u.ID)
		return err
	}

	s.logger.Info("email verified", "user_id", u.ID)
	return nil
}

// ForgotPassword issues a reset token. The response never reveals whether the
// email exists.
func (s *Service) ForgotPassword(dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return internal.NewInternalError("failed to generate reset token", err)
	}
	expiry := time.Now().Add(1 * time.Hour)

	u.ResetToken = &token
	u.ResetTokenExpiresAt = &expiry
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to store reset token", "error", err, "user_id", u.ID)
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(u.Email, u.Name, token); err != nil {
		s.logger.Warn("failed to send password reset email", "error", err, "user_id", u.ID)
	}

	s.logger.Info("password reset token issued", "user_id", u.ID)
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByResetToken(dto.Token)
	if err != nil {
		return internal.NewValidationError("invalid or expired reset token", internal.ErrCodeValidationFailed)
	}
	if u.ResetTokenExpiresAt == nil || u.ResetTokenExpiresAt.Before(time.Now()) {
		return internal.NewValidationError("invalid or expired reset token", internal.ErrCodeValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	u.PasswordHash = string(hash)
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
	u.RefreshToken = nil
	u.RefreshTokenExpiresAt = nil
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to reset password", "error", err, "user_id", u.ID)
		return err
	}

	s.logger.Info("password reset", "user_id", u.ID)
	return nil
}

// GetUser loads the user row for middleware context checks.
func (s *Service) GetUser(id int64) (*user.User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) issueTokens(u *user.User) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, expiresAt, err := s.tokens.GenerateRefreshToken(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate refresh token", err)
	}

	u.RefreshToken = &refreshToken
	u.RefreshTokenExpiresAt = &expiresAt
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to persist refresh token", "error", err, "user_id", u.ID)
		return AuthTokens{}, err
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
