package order_test

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/order"
	"github.com/freshnest/backoffice/internal/user"
)

func TestOrder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Order Suite")
}

type mockRepo struct {
	orders map[int64]*order.SupplierOrder
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: map[int64]*order.SupplierOrder{}, nextID: 1}
}

func (m *mockRepo) Create(o *order.SupplierOrder) error {
	o.ID = m.nextID
	m.nextID++
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) GetByID(id int64) (*order.SupplierOrder, error) {
	if o, ok := m.orders[id]; ok {
		copy := *o
		return &copy, nil
	}
	return nil, internal.NewNotFoundError("order not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) Update(o *order.SupplierOrder) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) List(f order.ListOrdersFilter) ([]*order.SupplierOrder, int64, error) {
	var out []*order.SupplierOrder
	for _, o := range m.orders {
		if f.SupplierID != 0 && o.SupplierID != f.SupplierID {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

type mockSuppliers struct {
	users    map[int64]*user.User
	profiles map[int64]*user.SupplierProfile
}

func (m *mockSuppliers) GetByID(id int64) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

func (m *mockSuppliers) GetSupplierProfile(userID int64) (*user.SupplierProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, internal.NewNotFoundError("profile not found", internal.ErrCodeRecordNotFound)
}

func (m *mockSuppliers) SaveSupplierProfile(p *user.SupplierProfile) error {
	m.profiles[p.UserID] = p
	return nil
}

var _ = Describe("SupplierCanTransition", func() {
	It("allows supplier moves only per the table", func() {
		Expect(order.SupplierCanTransition(order.StatusPending, order.StatusInTransit)).To(BeTrue())
		Expect(order.SupplierCanTransition(order.StatusPending, order.StatusRejected)).To(BeTrue())
		Expect(order.SupplierCanTransition(order.StatusApproved, order.StatusInTransit)).To(BeTrue())
		Expect(order.SupplierCanTransition(order.StatusApproved, order.StatusRejected)).To(BeTrue())
		Expect(order.SupplierCanTransition(order.StatusInTransit, order.StatusDelivered)).To(BeTrue())
	})

	It("blocks everything else", func() {
		Expect(order.SupplierCanTransition(order.StatusInTransit, order.StatusPending)).To(BeFalse())
		Expect(order.SupplierCanTransition(order.StatusPending, order.StatusDelivered)).To(BeFalse())
		Expect(order.SupplierCanTransition(order.StatusDelivered, order.StatusInTransit)).To(BeFalse())
		Expect(order.SupplierCanTransition(order.StatusRejected, order.StatusPending)).To(BeFalse())
	})
})

var _ = Describe("Service", func() {
	const (
		adminUser    = int64(1)
		supplierUser = int64(50)
		otherUser    = int64(60)
	)

	var (
		repo    *mockRepo
		dir     *mockSuppliers
		service *order.Service
	)

	BeforeEach(func() {
		repo = newMockRepo()
		dir = &mockSuppliers{
			users: map[int64]*user.User{
				supplierUser: {ID: supplierUser, Name: "Fresh Farms", Role: user.RoleSupplier},
				otherUser:    {ID: otherUser, Name: "Not A Supplier", Role: user.RoleUser},
			},
			profiles: map[int64]*user.SupplierProfile{},
		}
		service = order.NewService(repo, dir, events.NewEventBus(slog.Default()), slog.Default())
	})

	create := func() *order.SupplierOrder {
		o, err := service.Create(adminUser, order.CreateOrderDTO{
			SupplierID: supplierUser, Category: "dairy", ProductName: "Toned Milk 1L",
			PricePerQuantity: 55, Quantity: 200,
		})
		Expect(err).NotTo(HaveOccurred())
		return o
	}

	Describe("Create", func() {
		It("starts Pending and bumps supplier metrics", func() {
			o := create()
			Expect(o.Status).To(Equal(order.StatusPending))
			Expect(o.Category).To(Equal("Dairy & Eggs"))
			Expect(dir.profiles[supplierUser].TotalOrders).To(Equal(1))
			Expect(dir.profiles[supplierUser].LastOrderDate).NotTo(BeNil())
		})

		It("rejects non-supplier targets", func() {
			_, err := service.Create(adminUser, order.CreateOrderDTO{
				SupplierID: otherUser, ProductName: "x", Quantity: 1,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateStatus as supplier", func() {
		It("walks the happy path to Delivered and records spend", func() {
			o := create()

			moved, err := service.UpdateStatus(supplierUser, user.RoleSupplier, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusInTransit})
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.Status).To(Equal(order.StatusInTransit))

			moved, err = service.UpdateStatus(supplierUser, user.RoleSupplier, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusDelivered})
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.Status).To(Equal(order.StatusDelivered))
			Expect(dir.profiles[supplierUser].TotalSpent).To(Equal(11000.0))
		})

		It("rejects off-table moves with a validation error", func() {
			o := create()
			_, err := service.UpdateStatus(supplierUser, user.RoleSupplier, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusInTransit})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateStatus(supplierUser, user.RoleSupplier, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusPending})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("forbids touching another supplier's order", func() {
			o := create()
			_, err := service.UpdateStatus(otherUser, user.RoleSupplier, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusInTransit})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientRole))
		})
	})

	Describe("UpdateStatus as admin", func() {
		It("bypasses the transition table", func() {
			o := create()
			moved, err := service.UpdateStatus(adminUser, user.RoleAdmin, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusDelivered})
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.Status).To(Equal(order.StatusDelivered))
		})
	})

	Describe("Review", func() {
		It("approves a pending order", func() {
			o := create()
			reviewed, err := service.Review(o.ID, order.ReviewOrderDTO{Action: "approve"})
			Expect(err).NotTo(HaveOccurred())
			Expect(reviewed.Status).To(Equal(order.StatusApproved))
		})

		It("rejects with action=reject", func() {
			o := create()
			reviewed, err := service.Review(o.ID, order.ReviewOrderDTO{Action: "reject"})
			Expect(err).NotTo(HaveOccurred())
			Expect(reviewed.Status).To(Equal(order.StatusRejected))
		})
	})

	Describe("ConfirmDelivery", func() {
		It("only works once the order is Delivered", func() {
			o := create()
			_, err := service.ConfirmDelivery(o.ID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotDelivered))

			_, err = service.UpdateStatus(adminUser, user.RoleAdmin, o.ID,
				order.UpdateOrderStatusDTO{Status: order.StatusDelivered})
			Expect(err).NotTo(HaveOccurred())

			confirmed, err := service.ConfirmDelivery(o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(confirmed.AdminConfirmed).To(BeTrue())
			Expect(confirmed.ConfirmedAt).NotTo(BeNil())

			again, err := service.ConfirmDelivery(o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.ConfirmedAt).To(Equal(confirmed.ConfirmedAt))
		})
	})

	Describe("List", func() {
		It("scopes suppliers to their own orders", func() {
			create()
			orders, total, err := service.List(otherUser, user.RoleSupplier, order.ListOrdersFilter{Page: 1, Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())
			Expect(orders).To(BeEmpty())
		})
	})
})
