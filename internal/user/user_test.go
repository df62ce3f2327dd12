package user_test

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockRepo struct {
	users        map[int64]*user.User
	profiles     map[int64]*user.SupplierProfile
	applications map[int64]*user.SupplierApplication
	nextAppID    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:        make(map[int64]*user.User),
		profiles:     make(map[int64]*user.SupplierProfile),
		applications: make(map[int64]*user.SupplierApplication),
	}
}

func (m *mockRepo) GetByID(id int64) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

func (m *mockRepo) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

func (m *mockRepo) List(filter user.ListUsersFilter) ([]*user.User, int64, error) {
	var out []*user.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepo) Update(u *user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) UpdateStatus(id int64, status string) error {
	if u, ok := m.users[id]; ok {
		u.Status = status
	}
	return nil
}

func (m *mockRepo) GetSupplierProfile(userID int64) (*user.SupplierProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, internal.NewNotFoundError("supplier profile not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) SaveSupplierProfile(p *user.SupplierProfile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockRepo) CreateApplication(app *user.SupplierApplication) error {
	m.nextAppID++
	app.ID = m.nextAppID
	m.applications[app.ID] = app
	return nil
}

func (m *mockRepo) GetApplication(id int64) (*user.SupplierApplication, error) {
	if app, ok := m.applications[id]; ok {
		return app, nil
	}
	return nil, internal.NewNotFoundError("application not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) ListApplications(status string, limit, offset int) ([]*user.SupplierApplication, int64, error) {
	var out []*user.SupplierApplication
	for id := int64(1); id <= m.nextAppID; id++ {
		app, ok := m.applications[id]
		if !ok {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		out = append(out, app)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepo) UpdateApplication(app *user.SupplierApplication) error {
	m.applications[app.ID] = app
	return nil
}

type mockMailer struct {
	welcomed []string
}

func (m *mockMailer) SendSupplierWelcomeEmail(to, company string) error {
	m.welcomed = append(m.welcomed, to+":"+company)
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockRepo
		mail    *mockMailer
		service *user.Service
	)

	BeforeEach(func() {
		repo = newMockRepo()
		mail = &mockMailer{}
		service = user.NewService(repo, mail, slog.Default())
		repo.users[1] = &user.User{ID: 1, Name: "Admin", Email: "admin@freshnest.io", Role: user.RoleAdmin, Status: user.StatusActive}
		repo.users[2] = &user.User{ID: 2, Name: "AgroFarm", Email: "supplies@agrofarm.io", Role: user.RoleSupplier, Status: user.StatusActive}
	})

	Describe("GetProfile", func() {
		It("attaches the supplier sub-record for supplier accounts", func() {
			repo.profiles[2] = &user.SupplierProfile{UserID: 2, Category: "dairy"}

			p, err := service.GetProfile(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Supplier).NotTo(BeNil())
			Expect(p.Supplier.Category).To(Equal("dairy"))
		})

		It("tolerates a supplier without a profile row", func() {
			p, err := service.GetProfile(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Supplier).To(BeNil())
		})
	})

	Describe("UpdateUser", func() {
		It("patches only the fields that are set", func() {
			name := "Administrator"
			p, err := service.UpdateUser(1, user.UpdateUserDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("Administrator"))
			Expect(p.Email).To(Equal("admin@freshnest.io"))
			Expect(p.Role).To(Equal(user.RoleAdmin))
		})

		It("rejects an unknown role", func() {
			role := "superhero"
			_, err := service.UpdateUser(1, user.UpdateUserDTO{Role: &role})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("ToggleStatus", func() {
		It("flips between active and inactive", func() {
			p, err := service.ToggleStatus(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(user.StatusInactive))

			p, err = service.ToggleStatus(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(user.StatusActive))
		})
	})

	Describe("UpdateSupplierProfile", func() {
		It("creates the profile row on first update", func() {
			contact := "Arjun"
			rating := 4.5
			p, err := service.UpdateSupplierProfile(2, user.UpdateSupplierProfileDTO{
				ContactPerson: &contact,
				Rating:        &rating,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Supplier.ContactPerson).To(Equal("Arjun"))
			Expect(p.Supplier.Rating).To(Equal(4.5))
		})

		It("refuses non-supplier accounts", func() {
			contact := "Arjun"
			_, err := service.UpdateSupplierProfile(1, user.UpdateSupplierProfileDTO{ContactPerson: &contact})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("rejects an out-of-range rating", func() {
			rating := 6.0
			_, err := service.UpdateSupplierProfile(2, user.UpdateSupplierProfileDTO{Rating: &rating})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Supplier applications", func() {
		submit := func(company string) *user.SupplierApplication {
			app, err := service.SubmitApplication(user.CreateSupplierApplicationDTO{
				CompanyName: company,
				Email:       "Hello@" + company + ".io",
				Category:    "Dairy",
			})
			Expect(err).NotTo(HaveOccurred())
			return app
		}

		It("stores a pending application with a lowercased email", func() {
			app := submit("agrofarm")
			Expect(app.Status).To(Equal(user.ApplicationPending))
			Expect(app.Email).To(Equal("hello@agrofarm.io"))
		})

		It("rejects an application without a company name", func() {
			_, err := service.SubmitApplication(user.CreateSupplierApplicationDTO{Email: "x@y.io"})
			Expect(err).To(HaveOccurred())
		})

		It("filters the list by status", func() {
			submit("agrofarm")
			second := submit("greenleaf")
			_, err := service.ReviewApplication(second.ID, user.ReviewSupplierApplicationDTO{Status: user.ApplicationApproved})
			Expect(err).NotTo(HaveOccurred())

			pending, total, err := service.ListApplications(user.ApplicationPending, 1, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(pending[0].CompanyName).To(Equal("agrofarm"))
		})

		It("welcomes the supplier by mail on approval only", func() {
			approved := submit("agrofarm")
			rejected := submit("greenleaf")

			_, err := service.ReviewApplication(rejected.ID, user.ReviewSupplierApplicationDTO{Status: user.ApplicationRejected})
			Expect(err).NotTo(HaveOccurred())
			Expect(mail.welcomed).To(BeEmpty())

			_, err = service.ReviewApplication(approved.ID, user.ReviewSupplierApplicationDTO{Status: user.ApplicationApproved})
			Expect(err).NotTo(HaveOccurred())
			Expect(mail.welcomed).To(ConsistOf("hello@agrofarm.io:agrofarm"))
		})

		It("refuses to review an application twice", func() {
			app := submit("agrofarm")
			_, err := service.ReviewApplication(app.ID, user.ReviewSupplierApplicationDTO{Status: user.ApplicationRejected})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReviewApplication(app.ID, user.ReviewSupplierApplicationDTO{Status: user.ApplicationApproved})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAlreadyReviewed))
		})
	})
})
