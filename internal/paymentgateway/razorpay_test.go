package paymentgateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/paymentgateway"
)

func TestPaymentGateway(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Gateway Suite")
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ = Describe("ToPaise", func() {
	It("converts rupees to integer paise", func() {
		Expect(paymentgateway.ToPaise(499.50)).To(Equal(int64(49950)))
		Expect(paymentgateway.ToPaise(0.01)).To(Equal(int64(1)))
		Expect(paymentgateway.ToPaise(1000)).To(Equal(int64(100000)))
	})

	It("rounds fractional paise", func() {
		Expect(paymentgateway.ToPaise(10.005)).To(Equal(int64(1001)))
	})
})

var _ = Describe("VerifySignature", func() {
	client := paymentgateway.NewClient(internal.RazorpayConfig{KeySecret: "test_secret"})

	It("accepts the correct HMAC", func() {
		sig := sign("test_secret", "order_abc", "pay_xyz")
		Expect(client.VerifySignature("order_abc", "pay_xyz", sig)).To(BeTrue())
	})

	It("rejects a tampered payment id", func() {
		sig := sign("test_secret", "order_abc", "pay_xyz")
		Expect(client.VerifySignature("order_abc", "pay_other", sig)).To(BeFalse())
	})

	It("rejects a signature made with the wrong secret", func() {
		sig := sign("wrong_secret", "order_abc", "pay_xyz")
		Expect(client.VerifySignature("order_abc", "pay_xyz", sig)).To(BeFalse())
	})

	It("rejects garbage", func() {
		Expect(client.VerifySignature("order_abc", "pay_xyz", "not-a-signature")).To(BeFalse())
		Expect(client.VerifySignature("order_abc", "pay_xyz", "")).To(BeFalse())
	})
})

var _ = Describe("Client", func() {
	It("creates orders in paise with basic auth", func() {
		var gotAuth bool
		var gotBody map[string]interface{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			gotAuth = ok && user == "key_id" && pass == "key_secret"
			Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
			json.NewEncoder(w).Encode(paymentgateway.Order{
				ID: "order_test1", Amount: 49950, Currency: "INR", Status: "created",
			})
		}))
		defer server.Close()

		client := paymentgateway.NewClient(internal.RazorpayConfig{
			BaseURL: server.URL, KeyID: "key_id", KeySecret: "key_secret",
		})

		order, err := client.CreateOrder(context.Background(), 499.50, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(order.ID).To(Equal("order_test1"))
		Expect(gotAuth).To(BeTrue())
		Expect(gotBody["amount"]).To(BeEquivalentTo(49950))
		Expect(gotBody["currency"]).To(Equal("INR"))
		Expect(gotBody["receipt"]).To(HavePrefix("order_"))
	})

	It("fetches payment details", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/payments/pay_42"))
			json.NewEncoder(w).Encode(paymentgateway.PaymentDetails{
				ID: "pay_42", OrderID: "order_abc", Status: "captured", Method: "upi",
			})
		}))
		defer server.Close()

		client := paymentgateway.NewClient(internal.RazorpayConfig{BaseURL: server.URL})
		details, err := client.FetchPayment(context.Background(), "pay_42")
		Expect(err).NotTo(HaveOccurred())
		Expect(details.Status).To(Equal("captured"))
	})

	It("surfaces gateway errors", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"description":"amount required"}}`))
		}))
		defer server.Close()

		client := paymentgateway.NewClient(internal.RazorpayConfig{BaseURL: server.URL})
		_, err := client.CreateOrder(context.Background(), 10, "INR")
		Expect(err).To(HaveOccurred())
	})
})
