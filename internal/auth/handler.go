package auth

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/internal/user"
	"github.com/freshnest/backoffice/pkg/logger"
)

type ServiceAPI interface {
	Signup(dto SignupDTO) (*user.Profile, error)
	Login(dto LoginDTO, clientIP string) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	Logout(userID int64) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	VerifyOTP(dto VerifyOTPDTO) error
	ForgotPassword(dto ForgotPasswordDTO) error
	ResetPassword(dto ResetPasswordDTO) error
	GetUser(id int64) (*user.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.Signup(dto)
	if err != nil {
		h.Logger.Error("signup failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "signup successful, verify your email", profile)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Login(dto, clientIP(r))
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	claims, err := h.Service.ValidateAccessToken(token)
	if err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.Service.Logout(claims.UserIDInt()); err != nil {
		h.Logger.Error("logout failed", "error", err, "user_id", claims.UserIDInt())
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var dto VerifyOTPDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.VerifyOTP(dto); err != nil {
		h.Logger.Error("otp verification failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "email verified", nil)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ForgotPassword(dto); err != nil {
		h.Logger.Error("forgot password failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "if the email exists, a reset link has been sent", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResetPassword(dto); err != nil {
		h.Logger.Error("password reset failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "password reset successful", nil)
}

// AuthMiddleware validates the Bearer token, loads the user and stores the
// user ID and role on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		u, err := h.Service.GetUser(claims.UserIDInt())
		if err != nil {
			h.Logger.Error("auth middleware: user not found", "user_id", claims.UserIDInt())
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}
		if !u.IsActive() {
			h.WriteError(w, http.StatusForbidden, "user account is inactive")
			return
		}

		ctx := internal.ContextWithUserID(r.Context(), u.ID)
		ctx = internal.ContextWithRole(ctx, u.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP prefers proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
