package task_test

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/task"
	"github.com/freshnest/backoffice/internal/user"
)

func TestTask(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Suite")
}

type mockRepo struct {
	tasks  map[int64]*task.Task
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{tasks: map[int64]*task.Task{}, nextID: 1}
}

func (m *mockRepo) Create(t *task.Task) error {
	t.ID = m.nextID
	m.nextID++
	m.tasks[t.ID] = t
	return nil
}

func (m *mockRepo) GetByID(id int64) (*task.Task, error) {
	if t, ok := m.tasks[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, internal.NewNotFoundError("task not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) Update(t *task.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockRepo) Delete(id int64) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockRepo) ListCreatedBy(userID int64, f task.ListTasksFilter) ([]*task.Task, int64, error) {
	var out []*task.Task
	for _, t := range m.tasks {
		if t.CreatedBy == userID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockRepo) ListAssignedTo(staffID int64, f task.ListTasksFilter) ([]*task.Task, int64, error) {
	var out []*task.Task
	for _, t := range m.tasks {
		if t.AssignedTo == staffID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

type mockStaffDir struct {
	staff map[int64]*staff.Staff
}

func (m *mockStaffDir) GetByID(id int64) (*staff.Staff, error) {
	if st, ok := m.staff[id]; ok {
		return st, nil
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (m *mockStaffDir) GetByUserID(userID int64) (*staff.Staff, error) {
	for _, st := range m.staff {
		if st.UserID == userID {
			return st, nil
		}
	}
	return nil, internal.NewNotFoundError("staff not found", internal.ErrCodeRecordNotFound)
}

func (m *mockStaffDir) ListAll() ([]*staff.Staff, error) {
	out := make([]*staff.Staff, 0, len(m.staff))
	for _, st := range m.staff {
		out = append(out, st)
	}
	return out, nil
}

var _ = Describe("CanTransition", func() {
	statuses := []string{task.StatusPending, task.StatusInProgress, task.StatusCompleted}

	It("allows every pair of valid statuses, reversals included", func() {
		for _, from := range statuses {
			for _, to := range statuses {
				Expect(task.CanTransition(from, to)).To(BeTrue())
			}
		}
	})

	It("rejects unknown statuses", func() {
		Expect(task.CanTransition(task.StatusPending, "Archived")).To(BeFalse())
		Expect(task.CanTransition("", task.StatusCompleted)).To(BeFalse())
	})
})

var _ = Describe("Service", func() {
	var (
		repo    *mockRepo
		dir     *mockStaffDir
		service *task.Service
	)

	const (
		supervisorUser = int64(10)
		workerUser     = int64(20)
		otherUser      = int64(30)
		adminUser      = int64(1)
	)

	BeforeEach(func() {
		repo = newMockRepo()
		dir = &mockStaffDir{staff: map[int64]*staff.Staff{
			1: {ID: 1, UserID: supervisorUser, Name: "Meera", Position: "Floor Supervisor", Status: staff.StatusActive},
			2: {ID: 2, UserID: workerUser, Name: "Karan", Position: "Cashier", Status: staff.StatusActive},
			3: {ID: 3, UserID: otherUser, Name: "Dev", Position: "Stocker", Status: staff.StatusInactive},
		}}
		bus := events.NewEventBus(slog.Default())
		service = task.NewService(repo, dir, bus, slog.Default())
	})

	Describe("Create", func() {
		It("lets supervisors assign to active non-supervisor staff", func() {
			t, err := service.Create(supervisorUser, user.RoleStaff, task.CreateTaskDTO{
				Title: "Restock aisle 4", AssignedTo: 2,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusPending))
			Expect(t.AssigneeName).To(Equal("Karan"))
			Expect(t.CreatorName).To(Equal("Meera"))
		})

		It("lets admins create without a staff profile", func() {
			_, err := service.Create(adminUser, user.RoleAdmin, task.CreateTaskDTO{
				Title: "Audit freezer temps", AssignedTo: 2,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("forbids non-supervisor staff", func() {
			_, err := service.Create(workerUser, user.RoleStaff, task.CreateTaskDTO{
				Title: "x", AssignedTo: 2,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientRole))
		})

		It("rejects inactive assignees", func() {
			_, err := service.Create(adminUser, user.RoleAdmin, task.CreateTaskDTO{
				Title: "x", AssignedTo: 3,
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects supervisor assignees", func() {
			_, err := service.Create(adminUser, user.RoleAdmin, task.CreateTaskDTO{
				Title: "x", AssignedTo: 1,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateStatus", func() {
		var created *task.Task

		BeforeEach(func() {
			var err error
			created, err = service.Create(supervisorUser, user.RoleStaff, task.CreateTaskDTO{
				Title: "Restock aisle 4", AssignedTo: 2,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets the assignee move the card anywhere", func() {
			t, err := service.UpdateStatus(workerUser, user.RoleStaff, created.ID,
				task.UpdateTaskStatusDTO{Status: task.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusCompleted))

			t, err = service.UpdateStatus(workerUser, user.RoleStaff, created.ID,
				task.UpdateTaskStatusDTO{Status: task.StatusPending})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusPending))
		})

		It("forbids unrelated staff", func() {
			_, err := service.UpdateStatus(otherUser, user.RoleStaff, created.ID,
				task.UpdateTaskStatusDTO{Status: task.StatusCompleted})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientRole))
		})

		It("rejects unknown statuses", func() {
			_, err := service.UpdateStatus(workerUser, user.RoleStaff, created.ID,
				task.UpdateTaskStatusDTO{Status: "Done"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("allows only creator or admin", func() {
			created, err := service.Create(supervisorUser, user.RoleStaff, task.CreateTaskDTO{
				Title: "Restock aisle 4", AssignedTo: 2,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(workerUser, user.RoleStaff, created.ID)).To(HaveOccurred())
			Expect(service.Delete(supervisorUser, user.RoleStaff, created.ID)).To(Succeed())
		})
	})

	Describe("AssignableStaff", func() {
		It("excludes supervisors and inactive staff", func() {
			list, err := service.AssignableStaff()
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Karan"))
		})
	})
})
