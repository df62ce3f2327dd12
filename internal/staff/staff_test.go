package staff_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/user"
)

func TestStaff(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Staff Suite")
}

type mockRepo struct {
	staff     map[int64]*staff.Staff
	passwords map[int64]string
	nextID    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{staff: make(map[int64]*staff.Staff), passwords: make(map[int64]string)}
}

func (m *mockRepo) CreateWithUser(u *user.User, st *staff.Staff) error {
	m.nextID++
	u.ID = m.nextID + 1000
	st.ID = m.nextID
	st.UserID = u.ID
	m.staff[st.ID] = st
	m.passwords[u.ID] = u.PasswordHash
	return nil
}

func (m *mockRepo) GetByID(id int64) (*staff.Staff, error) {
	if st, ok := m.staff[id]; ok {
		return st, nil
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) GetByUserID(userID int64) (*staff.Staff, error) {
	for _, st := range m.staff {
		if st.UserID == userID {
			return st, nil
		}
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) GetByEmployeeID(employeeID string) (*staff.Staff, error) {
	for _, st := range m.staff {
		if st.EmployeeID == employeeID {
			return st, nil
		}
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) GetByEmail(email string) (*staff.Staff, error) {
	for _, st := range m.staff {
		if st.Email == email {
			return st, nil
		}
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) List(filter staff.ListStaffFilter) ([]*staff.Staff, int64, error) {
	all, _ := m.ListAll()
	return all, int64(len(all)), nil
}

func (m *mockRepo) ListAll() ([]*staff.Staff, error) {
	var out []*staff.Staff
	for id := int64(1); id <= m.nextID; id++ {
		if st, ok := m.staff[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(st *staff.Staff) error {
	m.staff[st.ID] = st
	return nil
}

func (m *mockRepo) Delete(id int64) error {
	delete(m.staff, id)
	return nil
}

func (m *mockRepo) UpdateUserPassword(userID int64, passwordHash string) error {
	m.passwords[userID] = passwordHash
	return nil
}

func (m *mockRepo) SetStatus(id int64, status string) error {
	if st, ok := m.staff[id]; ok {
		st.Status = status
	}
	return nil
}

func (m *mockRepo) CountByStatus() (total, active, inactive int64, err error) {
	for _, st := range m.staff {
		total++
		if st.IsActive() {
			active++
		} else {
			inactive++
		}
	}
	return total, active, inactive, nil
}

func (m *mockRepo) CountByShift() (map[string]int64, error) {
	out := make(map[string]int64)
	for _, st := range m.staff {
		out[st.Shift]++
	}
	return out, nil
}

func (m *mockRepo) RecentJoinings(limit int) ([]*staff.Staff, error) {
	all, _ := m.ListAll()
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

type mockMailer struct {
	welcomes []string
}

func (m *mockMailer) SendStaffWelcomeEmail(to, name, employeeID, password string) error {
	m.welcomes = append(m.welcomes, to+":"+password)
	return nil
}

var _ = Describe("Staff Service", func() {
	var (
		repo    *mockRepo
		mail    *mockMailer
		service *staff.Service
	)

	BeforeEach(func() {
		repo = newMockRepo()
		mail = &mockMailer{}
		service = staff.NewService(repo, mail, events.NewEventBus(slog.Default()), bcrypt.MinCost, slog.Default())
	})

	create := func(name, email, position string) *staff.CreatedStaff {
		out, err := service.Create(staff.CreateStaffDTO{
			Name:     name,
			Email:    email,
			Position: position,
			Shift:    staff.ShiftMorning,
			Salary:   28000,
		})
		Expect(err).NotTo(HaveOccurred())
		return out
	}

	Describe("Create", func() {
		It("generates an employee id and a one-time password, and mails them", func() {
			out := create("Ravi Kumar", "ravi@freshnest.io", "Cashier")

			Expect(out.Staff.EmployeeID).NotTo(BeEmpty())
			Expect(out.Password).NotTo(BeEmpty())
			Expect(mail.welcomes).To(HaveLen(1))
			Expect(mail.welcomes[0]).To(Equal("ravi@freshnest.io:" + out.Password))

			hash := repo.passwords[out.Staff.UserID]
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte(out.Password))).To(Succeed())
		})

		It("does not echo a caller-supplied password back", func() {
			out, err := service.Create(staff.CreateStaffDTO{
				Name:     "Meera Pillai",
				Email:    "meera@freshnest.io",
				Position: "Floor Supervisor",
				Password: "chosen-by-admin",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Password).To(BeEmpty())
		})

		It("rejects a duplicate email", func() {
			create("Ravi Kumar", "ravi@freshnest.io", "Cashier")
			_, err := service.Create(staff.CreateStaffDTO{Name: "Imposter", Email: "ravi@freshnest.io", Position: "Cashier"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmail))
		})
	})

	Describe("Delete", func() {
		It("deactivates by default and removes only when permanent", func() {
			out := create("Ravi Kumar", "ravi@freshnest.io", "Cashier")

			Expect(service.Delete(out.Staff.ID, false)).To(Succeed())
			st, err := service.GetByID(out.Staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.IsActive()).To(BeFalse())

			Expect(service.Delete(out.Staff.ID, true)).To(Succeed())
			_, err = service.GetByID(out.Staff.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResetPassword", func() {
		It("replaces the linked account password and mails the new one", func() {
			out := create("Ravi Kumar", "ravi@freshnest.io", "Cashier")
			oldHash := repo.passwords[out.Staff.UserID]

			pw, err := service.ResetPassword(out.Staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(pw).NotTo(BeEmpty())
			Expect(repo.passwords[out.Staff.UserID]).NotTo(Equal(oldHash))
			Expect(bcrypt.CompareHashAndPassword([]byte(repo.passwords[out.Staff.UserID]), []byte(pw))).To(Succeed())
		})
	})

	Describe("ExportCSV", func() {
		It("renders one row per staff member with a header", func() {
			st := create("Ravi Kumar", "ravi@freshnest.io", "Cashier").Staff
			st.JoiningDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			create("Meera Pillai", "meera@freshnest.io", "Floor Supervisor")

			data, err := service.ExportCSV()
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(HavePrefix("Employee ID,Name,Email"))
			Expect(lines[1]).To(ContainSubstring("ravi@freshnest.io"))
			Expect(lines[1]).To(ContainSubstring("2026-03-01"))
			Expect(lines[2]).To(ContainSubstring("Floor Supervisor"))
		})
	})

	Describe("QRBadge", func() {
		It("returns a PNG data URL embedding the employee identity", func() {
			out := create("Ravi Kumar", "ravi@freshnest.io", "Cashier")

			badge, err := service.QRBadge(out.Staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(badge.EmployeeID).To(Equal(out.Staff.EmployeeID))
			Expect(badge.DataURL).To(HavePrefix("data:image/png;base64,"))
		})

		It("fails for unknown staff", func() {
			_, err := service.QRBadge(404)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Stats", func() {
		It("aggregates totals and shift distribution", func() {
			create("Ravi Kumar", "ravi@freshnest.io", "Cashier")
			out := create("Meera Pillai", "meera@freshnest.io", "Floor Supervisor")
			Expect(service.Delete(out.Staff.ID, false)).To(Succeed())

			stats, err := service.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(2)))
			Expect(stats.Active).To(Equal(int64(1)))
			Expect(stats.Inactive).To(Equal(int64(1)))
			Expect(stats.ShiftDistribution[staff.ShiftMorning]).To(Equal(int64(2)))
		})
	})
})
