package cmd

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/mailer"
	"github.com/freshnest/backoffice/internal/notification"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/user"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

type stubStaffRepo struct {
	byID map[int64]*staff.Staff
}

func (s *stubStaffRepo) GetByID(id int64) (*staff.Staff, error) {
	if st, ok := s.byID[id]; ok {
		return st, nil
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (s *stubStaffRepo) CreateWithUser(u *user.User, st *staff.Staff) error { return nil }
func (s *stubStaffRepo) GetByUserID(userID int64) (*staff.Staff, error) {
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}
func (s *stubStaffRepo) GetByEmployeeID(employeeID string) (*staff.Staff, error) {
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}
func (s *stubStaffRepo) GetByEmail(email string) (*staff.Staff, error) {
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}
func (s *stubStaffRepo) List(filter staff.ListStaffFilter) ([]*staff.Staff, int64, error) {
	return nil, 0, nil
}
func (s *stubStaffRepo) ListAll() ([]*staff.Staff, error) { return nil, nil }

func (s *stubStaffRepo) Update(st *staff.Staff) error { return nil }

func (s *stubStaffRepo) Delete(id int64) error { return nil }

func (s *stubStaffRepo) UpdateUserPassword(userID int64, hash string) error { return nil }

func (s *stubStaffRepo) SetStatus(id int64, status string) error { return nil }

func (s *stubStaffRepo) CountByStatus() (total, active, inactive int64, err error) {
	return 0, 0, 0, nil
}

func (s *stubStaffRepo) CountByShift() (map[string]int64, error) { return nil, nil }

func (s *stubStaffRepo) RecentJoinings(limit int) ([]*staff.Staff, error) { return nil, nil }

type stubNotificationRepo struct {
	rows []*notification.Notification
}

func (r *stubNotificationRepo) Create(n *notification.Notification) error {
	n.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, n)
	return nil
}

func (r *stubNotificationRepo) GetByID(id int64) (*notification.Notification, error) {
	return nil, internal.NewNotFoundError("notification not found", internal.ErrCodeRecordNotFound)
}

func (r *stubNotificationRepo) ListByRecipient(recipientID int64, unreadOnly bool, limit, offset int) ([]*notification.Notification, int64, error) {
	return nil, 0, nil
}

func (r *stubNotificationRepo) CountUnread(recipientID int64) (int64, error) { return 0, nil }

func (r *stubNotificationRepo) MarkRead(id int64, readAt time.Time) error { return nil }

func (r *stubNotificationRepo) MarkAllRead(recipientID int64, at time.Time) error { return nil }

var _ = Describe("Salary paid subscriber", func() {
	var (
		deps      *Dependencies
		notifRepo *stubNotificationRepo
	)

	BeforeEach(func() {
		log := slog.Default()
		notifRepo = &stubNotificationRepo{}
		deps = &Dependencies{
			Bus:    events.NewEventBus(log),
			Mailer: mailer.New(internal.MailConfig{}, log),
			Logger: log,
			staffRepo: &stubStaffRepo{byID: map[int64]*staff.Staff{
				10: {ID: 10, UserID: 3, Name: "Ravi Kumar", Email: "ravi@freshnest.io"},
			}},
			notification: notification.NewService(notifRepo, log),
		}
		registerEventSubscribers(deps)
	})

	It("writes a high priority notification when deductions were taken", func() {
		err := deps.Bus.PublishSync(context.Background(),
			events.NewSalaryPaidEvent(1, 10, "ravi@freshnest.io", "2026-08", 27500, 500))
		Expect(err).NotTo(HaveOccurred())

		Expect(notifRepo.rows).To(HaveLen(1))
		Expect(notifRepo.rows[0].RecipientID).To(Equal(int64(3)))
		Expect(notifRepo.rows[0].Priority).To(Equal(notification.PriorityHigh))
	})

	It("writes a normal priority notification without deductions", func() {
		err := deps.Bus.PublishSync(context.Background(),
			events.NewSalaryPaidEvent(2, 10, "ravi@freshnest.io", "2026-08", 28000, 0))
		Expect(err).NotTo(HaveOccurred())

		Expect(notifRepo.rows).To(HaveLen(1))
		Expect(notifRepo.rows[0].Priority).To(Equal(notification.PriorityNormal))
	})
})
