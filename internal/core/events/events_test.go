package events_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.Default())
	})

	It("delivers a published event to every subscriber", func() {
		var (
			mu       sync.Mutex
			received []string
		)
		handler := func(name string) events.Handler {
			return func(_ context.Context, e events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				received = append(received, name+":"+e.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypeLowStock, handler("first"))
		bus.Subscribe(events.EventTypeLowStock, handler("second"))

		Expect(bus.Publish(context.Background(), events.NewLowStockEvent(7, "FRT-BAN-1KG", "Bananas", "fruits_vegetables", 3, 10))).To(Succeed())

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(received)
		}, time.Second).Should(Equal(2))
		mu.Lock()
		defer mu.Unlock()
		Expect(received).To(ContainElements("first:product.low_stock", "second:product.low_stock"))
	})

	It("does not route an event to subscribers of other types", func() {
		called := make(chan struct{}, 1)
		bus.Subscribe(events.EventTypeSalaryPaid, func(_ context.Context, _ events.Event) error {
			called <- struct{}{}
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewTaskAssignedEvent(1, 2, "Restock aisle 4", ""))).To(Succeed())
		Consistently(called, 100*time.Millisecond).ShouldNot(Receive())
	})

	It("swallows handler failures on async publish", func() {
		bus.Subscribe(events.EventTypeLeaveReviewed, func(_ context.Context, _ events.Event) error {
			return errors.New("boom")
		})
		Expect(bus.Publish(context.Background(), events.NewLeaveReviewedEvent(1, 2, "approved", ""))).To(Succeed())
	})

	It("propagates the first handler failure on sync publish", func() {
		bus.Subscribe(events.EventTypeStaffOnboarded, func(_ context.Context, _ events.Event) error {
			return errors.New("boom")
		})
		second := make(chan struct{}, 1)
		bus.Subscribe(events.EventTypeStaffOnboarded, func(_ context.Context, _ events.Event) error {
			second <- struct{}{}
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewStaffOnboardedEvent(1, 2, "ravi@freshnest.io", "EMP-1001"))
		Expect(err).To(HaveOccurred())
		Consistently(second, 50*time.Millisecond).ShouldNot(Receive())
	})

	It("stamps every event with an id and timestamp", func() {
		e := events.NewSalaryPaidEvent(1, 2, "ravi@freshnest.io", "2026-08", 28000, 500)
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OccurredAt()).To(BeTemporally("~", time.Now(), time.Second))
		Expect(e.EventType()).To(Equal(events.EventTypeSalaryPaid))
	})
})
