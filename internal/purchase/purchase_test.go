package purchase_test

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/purchase"
	"github.com/freshnest/backoffice/internal/user"
)

func TestPurchase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Purchase Suite")
}

type mockRepo struct {
	purchases []*purchase.Purchase
	nextID    int64
}

func (m *mockRepo) Create(p *purchase.Purchase) error {
	m.nextID++
	p.ID = m.nextID
	m.purchases = append(m.purchases, p)
	return nil
}

func (m *mockRepo) List(filter purchase.ListPurchasesFilter) ([]*purchase.Purchase, int64, error) {
	var out []*purchase.Purchase
	for _, p := range m.purchases {
		if filter.Email != "" && p.CustomerEmail != filter.Email {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type mockUsers struct{}

func (m *mockUsers) GetByID(id int64) (*user.User, error) {
	if id == 5 {
		return &user.User{ID: 5, Email: "Shopper@FreshNest.io", Role: user.RoleUser}, nil
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

var _ = Describe("Purchase Service", func() {
	var (
		repo    *mockRepo
		service *purchase.Service
	)

	BeforeEach(func() {
		repo = &mockRepo{}
		service = purchase.NewService(repo, &mockUsers{}, slog.Default())
	})

	Describe("Create", func() {
		It("lowercases the email, defaults status and method, and packs items", func() {
			p, err := service.Create(purchase.CreatePurchaseDTO{
				CustomerEmail: "Shopper@FreshNest.io",
				Amount:        114,
				Items: []purchase.Item{
					{Name: "Full Cream Milk 1L", SKU: "MILK-FC-1L", Quantity: 1, Price: 66},
					{Name: "Brown Bread 400g", SKU: "BREAD-BR-400", Quantity: 1, Price: 48},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.CustomerEmail).To(Equal("shopper@freshnest.io"))
			Expect(p.Status).To(Equal(purchase.StatusCompleted))
			Expect(p.Method).To(Equal("online"))
			Expect(p.ItemsJSON).To(ContainSubstring("MILK-FC-1L"))
		})

		It("rejects a non-positive amount", func() {
			_, err := service.Create(purchase.CreatePurchaseDTO{
				CustomerEmail: "shopper@freshnest.io",
				Amount:        0,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("rejects an item with zero quantity", func() {
			_, err := service.Create(purchase.CreatePurchaseDTO{
				CustomerEmail: "shopper@freshnest.io",
				Amount:        66,
				Items:         []purchase.Item{{Name: "Milk", SKU: "MILK-FC-1L", Quantity: 0, Price: 66}},
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MyPurchases", func() {
		It("scopes the list to the caller's email and unpacks items", func() {
			_, err := service.Create(purchase.CreatePurchaseDTO{
				CustomerEmail: "shopper@freshnest.io",
				Amount:        66,
				Items:         []purchase.Item{{Name: "Milk", SKU: "MILK-FC-1L", Quantity: 1, Price: 66}},
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(purchase.CreatePurchaseDTO{
				CustomerEmail: "other@mail.com",
				Amount:        99,
			})
			Expect(err).NotTo(HaveOccurred())

			mine, total, err := service.MyPurchases(5, purchase.ListPurchasesFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(mine[0].Items).To(HaveLen(1))
			Expect(mine[0].Items[0].SKU).To(Equal("MILK-FC-1L"))
		})

		It("fails for an unknown caller", func() {
			_, _, err := service.MyPurchases(404, purchase.ListPurchasesFilter{})
			Expect(err).To(HaveOccurred())
		})
	})
})
