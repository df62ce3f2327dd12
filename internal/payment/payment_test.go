package payment_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/payment"
	"github.com/freshnest/backoffice/internal/paymentgateway"
	"github.com/freshnest/backoffice/internal/user"
)

func TestPayment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Suite")
}

type mockRepo struct {
	created   []*payment.Transaction
	createErr error
}

func (m *mockRepo) Create(t *payment.Transaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	t.ID = int64(len(m.created) + 1)
	m.created = append(m.created, t)
	return nil
}

func (m *mockRepo) GetByPaymentID(paymentID string) (*payment.Transaction, error) {
	for _, t := range m.created {
		if t.PaymentID == paymentID {
			return t, nil
		}
	}
	return nil, internal.NewNotFoundError("transaction not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) Update(t *payment.Transaction) error { return nil }

func (m *mockRepo) List(f payment.ListTransactionsFilter) ([]*payment.Transaction, int64, error) {
	var out []*payment.Transaction
	for _, t := range m.created {
		if f.Email != "" && t.CustomerEmail != f.Email {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type mockGateway struct {
	validSignature bool
	fetchErr       error
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount float64, currency string) (*paymentgateway.Order, error) {
	return &paymentgateway.Order{ID: "order_mock", Amount: paymentgateway.ToPaise(amount), Currency: "INR"}, nil
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return m.validSignature
}

func (m *mockGateway) FetchPayment(ctx context.Context, paymentID string) (*paymentgateway.PaymentDetails, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return &paymentgateway.PaymentDetails{
		ID: paymentID, OrderID: "order_mock", Amount: 49950, Currency: "INR",
		Status: "captured", Method: "upi", Email: "Buyer@Example.com",
	}, nil
}

func (m *mockGateway) RefundPayment(ctx context.Context, paymentID string, amount float64) (*paymentgateway.Refund, error) {
	return &paymentgateway.Refund{ID: "rfnd_1", PaymentID: paymentID, Status: "processed"}, nil
}

type mockUsers struct{}

func (mockUsers) GetByID(id int64) (*user.User, error) {
	if id == 5 {
		return &user.User{ID: 5, Email: "Customer@FreshNest.io"}, nil
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

var _ = Describe("Service", func() {
	var (
		repo    *mockRepo
		gw      *mockGateway
		service *payment.Service
	)

	BeforeEach(func() {
		repo = &mockRepo{}
		gw = &mockGateway{validSignature: true}
		service = payment.NewService(repo, gw, mockUsers{}, slog.Default())
	})

	dto := payment.VerifyPaymentDTO{
		OrderID: "order_mock", PaymentID: "pay_1", Signature: "sig",
	}

	Describe("Verify", func() {
		It("persists a verified transaction with lowercased email", func() {
			t, err := service.Verify(context.Background(), 5, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(payment.StatusVerified))
			Expect(t.CustomerEmail).To(Equal("customer@freshnest.io"))
			Expect(t.Amount).To(Equal(499.50))
			Expect(repo.created).To(HaveLen(1))
		})

		It("hard rejects a bad signature", func() {
			gw.validSignature = false
			_, err := service.Verify(context.Background(), 5, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSignatureMismatch))
			Expect(repo.created).To(BeEmpty())
		})

		It("still verifies when the ledger write fails", func() {
			repo.createErr = errors.New("db down")
			t, err := service.Verify(context.Background(), 5, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(payment.StatusVerified))
		})

		It("still verifies when fetching details fails", func() {
			gw.fetchErr = errors.New("gateway timeout")
			t, err := service.Verify(context.Background(), 5, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Amount).To(BeZero())
		})
	})

	Describe("MyTransactions", func() {
		It("filters by the caller's email", func() {
			_, err := service.Verify(context.Background(), 5, dto)
			Expect(err).NotTo(HaveOccurred())

			list, total, err := service.MyTransactions(5, payment.ListTransactionsFilter{Page: 1, Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(list[0].CustomerEmail).To(Equal("customer@freshnest.io"))
		})
	})
})
