package auth_test

import (
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/auth"
	"github.com/freshnest/backoffice/internal/user"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type mockRepo struct {
	users  map[string]*user.User
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]*user.User)}
}

func (m *mockRepo) Create(u *user.User) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.Email] = u
	return nil
}

func (m *mockRepo) GetByEmail(email string) (*user.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

func (m *mockRepo) GetByID(id int64) (*user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

func (m *mockRepo) GetByResetToken(token string) (*user.User, error) {
	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

func (m *mockRepo) Update(u *user.User) error {
	m.users[u.Email] = u
	return nil
}

type mockMailer struct {
	otps        map[string]string
	resetTokens map[string]string
}

func newMockMailer() *mockMailer {
	return &mockMailer{otps: make(map[string]string), resetTokens: make(map[string]string)}
}

func (m *mockMailer) SendOTPEmail(to, name, otp string) error {
	m.otps[to] = otp
	return nil
}

func (m *mockMailer) SendPasswordResetEmail(to, name, token string) error {
	m.resetTokens[to] = token
	return nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockRepo
		mail    *mockMailer
		limiter *auth.LoginRateLimiter
		service *auth.Service
	)

	BeforeEach(func() {
		repo = newMockRepo()
		mail = newMockMailer()
		limiter = auth.NewLoginRateLimiter(3, time.Minute, 5*time.Minute)
		tokens := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
		service = auth.NewService(repo, tokens, limiter, mail, bcrypt.MinCost, slog.Default())
	})

	signup := func(email string) *user.Profile {
		p, err := service.Signup(auth.SignupDTO{
			Name:     "Asha Nair",
			Email:    email,
			Password: "secret123",
		})
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	Describe("Signup", func() {
		It("stores a hashed password, defaults the role and mails an OTP", func() {
			p := signup("asha@mail.com")
			Expect(p.Role).To(Equal(user.RoleUser))

			stored := repo.users["asha@mail.com"]
			Expect(stored.PasswordHash).NotTo(Equal("secret123"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123"))).To(Succeed())
			Expect(stored.OTP).NotTo(BeNil())
			Expect(mail.otps["asha@mail.com"]).To(Equal(*stored.OTP))
			Expect(mail.otps["asha@mail.com"]).To(HaveLen(6))
		})

		It("rejects a duplicate email", func() {
			signup("asha@mail.com")
			_, err := service.Signup(auth.SignupDTO{Name: "Other", Email: "asha@mail.com", Password: "secret123"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmail))
		})

		It("refuses privileged roles at signup", func() {
			_, err := service.Signup(auth.SignupDTO{Name: "Mallory", Email: "m@mail.com", Password: "secret123", Role: "admin"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			signup("asha@mail.com")
		})

		It("returns a token pair and persists the refresh token", func() {
			tokens, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())

			stored := repo.users["asha@mail.com"]
			Expect(stored.RefreshToken).NotTo(BeNil())
			Expect(*stored.RefreshToken).To(Equal(tokens.RefreshToken))
		})

		It("rejects a wrong password without leaking which part failed", func() {
			_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "wrong"}, "10.0.0.1")
			Expect(err).To(Equal(internal.ErrInvalidCredentials))

			_, err = service.Login(auth.LoginDTO{Email: "ghost@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("blocks the client IP after repeated failures", func() {
			for i := 0; i < 3; i++ {
				_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "wrong"}, "10.0.0.9")
				Expect(err).To(Equal(internal.ErrInvalidCredentials))
			}

			_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.9")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(429))

			// other clients are unaffected
			_, err = service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("clears the failure count after a successful login", func() {
			for i := 0; i < 2; i++ {
				service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "wrong"}, "10.0.0.2")
			}
			_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.2")
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 2; i++ {
				service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "wrong"}, "10.0.0.2")
			}
			_, err = service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.2")
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses an inactive account even with the right password", func() {
			repo.users["asha@mail.com"].Status = user.StatusInactive
			_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).To(Equal(internal.ErrUserInactive))
		})
	})

	Describe("RefreshTokens", func() {
		BeforeEach(func() {
			signup("asha@mail.com")
		})

		It("rotates the pair when the stored token matches", func() {
			first, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			second, err := service.RefreshTokens(first.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.AccessToken).NotTo(BeEmpty())
			Expect(*repo.users["asha@mail.com"].RefreshToken).To(Equal(second.RefreshToken))
		})

		It("rejects a refresh token that was already replaced", func() {
			first, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RefreshTokens(first.RefreshToken)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(first.RefreshToken)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-jwt")
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("Logout", func() {
		It("clears the stored refresh token", func() {
			signup("asha@mail.com")
			_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Logout(repo.users["asha@mail.com"].ID)).To(Succeed())
			Expect(repo.users["asha@mail.com"].RefreshToken).To(BeNil())
		})
	})

	Describe("VerifyOTP", func() {
		BeforeEach(func() {
			signup("asha@mail.com")
		})

		It("marks the email verified with the mailed code", func() {
			Expect(service.VerifyOTP(auth.VerifyOTPDTO{Email: "asha@mail.com", OTP: mail.otps["asha@mail.com"]})).To(Succeed())
			stored := repo.users["asha@mail.com"]
			Expect(stored.EmailVerified).To(BeTrue())
			Expect(stored.OTP).To(BeNil())
		})

		It("rejects a wrong code", func() {
			err := service.VerifyOTP(auth.VerifyOTPDTO{Email: "asha@mail.com", OTP: "000000"})
			Expect(err).To(HaveOccurred())
			Expect(repo.users["asha@mail.com"].EmailVerified).To(BeFalse())
		})

		It("rejects an expired code", func() {
			past := time.Now().Add(-time.Minute)
			repo.users["asha@mail.com"].OTPExpiresAt = &past
			err := service.VerifyOTP(auth.VerifyOTPDTO{Email: "asha@mail.com", OTP: mail.otps["asha@mail.com"]})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("password reset", func() {
		BeforeEach(func() {
			signup("asha@mail.com")
		})

		It("stays silent for unknown emails", func() {
			Expect(service.ForgotPassword(auth.ForgotPasswordDTO{Email: "ghost@mail.com"})).To(Succeed())
			Expect(mail.resetTokens).To(BeEmpty())
		})

		It("consumes the token, replaces the password and revokes sessions", func() {
			_, err := service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.ForgotPassword(auth.ForgotPasswordDTO{Email: "asha@mail.com"})).To(Succeed())
			token := mail.resetTokens["asha@mail.com"]
			Expect(token).NotTo(BeEmpty())

			Expect(service.ResetPassword(auth.ResetPasswordDTO{Token: token, NewPassword: "brandnew9"})).To(Succeed())

			stored := repo.users["asha@mail.com"]
			Expect(stored.ResetToken).To(BeNil())
			Expect(stored.RefreshToken).To(BeNil())

			_, err = service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "secret123"}, "10.0.0.3")
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
			_, err = service.Login(auth.LoginDTO{Email: "asha@mail.com", Password: "brandnew9"}, "10.0.0.3")
			Expect(err).NotTo(HaveOccurred())

			// the token cannot be replayed
			Expect(service.ResetPassword(auth.ResetPasswordDTO{Token: token, NewPassword: "again1234"})).NotTo(Succeed())
		})
	})
})
