package cmd

import (
	"context"
	"fmt"

	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/notification"
	"github.com/freshnest/backoffice/internal/user"
)

// registerEventSubscribers connects domain events to their side effects:
// in-app notifications and outbound mail. Handlers run on the bus goroutines
// and report failures through the bus's own logging.
func registerEventSubscribers(deps *Dependencies) {
	bus := deps.Bus
	log := deps.Logger

	bus.Subscribe(events.EventTypeSalaryPaid, func(_ context.Context, event events.Event) error {
		e, ok := event.(*events.SalaryPaidEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		st, err := deps.staffRepo.GetByID(e.StaffID)
		if err != nil {
			return fmt.Errorf("salary paid: staff %d lookup: %w", e.StaffID, err)
		}
		if mailErr := deps.Mailer.SendSalaryNotificationEmail(st.Email, st.Name, e.Month, e.PaidAmount, e.Deductions); mailErr != nil {
			log.Warn("salary mail failed", "staff_id", st.ID, "error", mailErr)
		}
		priority := notification.PriorityNormal
		if e.Deductions > 0 {
			priority = notification.PriorityHigh
		}
		return deps.notification.Notify(&notification.Notification{
			RecipientID: st.UserID,
			Type:        notification.TypeInfo,
			Priority:    priority,
			Title:       "Salary credited",
			Message:     fmt.Sprintf("Your salary for %s has been paid: %.2f (deductions %.2f)", e.Month, e.PaidAmount, e.Deductions),
			RelatedType: "salary_payment",
			RelatedID:   e.SalaryID,
		})
	})

	bus.Subscribe(events.EventTypeTaskAssigned, func(_ context.Context, event events.Event) error {
		e, ok := event.(*events.TaskAssignedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		st, err := deps.staffRepo.GetByID(e.AssigneeID)
		if err != nil {
			return fmt.Errorf("task assigned: staff %d lookup: %w", e.AssigneeID, err)
		}
		if mailErr := deps.Mailer.SendTaskAssignmentEmail(st.Email, st.Name, e.Title, e.Deadline); mailErr != nil {
			log.Warn("task assignment mail failed", "staff_id", st.ID, "error", mailErr)
		}
		msg := fmt.Sprintf("You have been assigned: %s", e.Title)
		if e.Deadline != "" {
			msg += fmt.Sprintf(" (due %s)", e.Deadline)
		}
		return deps.notification.Notify(&notification.Notification{
			RecipientID: st.UserID,
			Type:        notification.TypeInfo,
			Title:       "New task assigned",
			Message:     msg,
			RelatedType: "task",
			RelatedID:   e.TaskID,
		})
	})

	bus.Subscribe(events.EventTypeLeaveReviewed, func(_ context.Context, event events.Event) error {
		e, ok := event.(*events.LeaveReviewedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		st, err := deps.staffRepo.GetByID(e.StaffID)
		if err != nil {
			return fmt.Errorf("leave reviewed: staff %d lookup: %w", e.StaffID, err)
		}
		msg := fmt.Sprintf("Your leave request has been %s", e.Status)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		return deps.notification.Notify(&notification.Notification{
			RecipientID: st.UserID,
			Type:        notification.TypeInfo,
			Title:       "Leave request reviewed",
			Message:     msg,
			RelatedType: "leave",
			RelatedID:   e.LeaveID,
		})
	})

	bus.Subscribe(events.EventTypeStaffOnboarded, func(_ context.Context, event events.Event) error {
		e, ok := event.(*events.StaffOnboardedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		return deps.notification.Notify(&notification.Notification{
			RecipientID: e.UserID,
			Type:        notification.TypeSystem,
			Title:       "Welcome to FreshNest",
			Message:     fmt.Sprintf("Your staff account is ready. Employee ID: %s", e.EmployeeID),
			RelatedType: "staff",
			RelatedID:   e.StaffID,
		})
	})

	bus.Subscribe(events.EventTypeLowStock, func(_ context.Context, event events.Event) error {
		e, ok := event.(*events.LowStockEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		admins, _, err := deps.userRepo.List(user.ListUsersFilter{Role: user.RoleAdmin, Limit: 100})
		if err != nil {
			return fmt.Errorf("low stock: admin lookup: %w", err)
		}
		for _, admin := range admins {
			notifErr := deps.notification.Notify(&notification.Notification{
				RecipientID: admin.ID,
				Type:        notification.TypeLowStock,
				Priority:    notification.PriorityHigh,
				Title:       "Low stock alert",
				Message:     fmt.Sprintf("%s (%s) is down to %d units, threshold %d", e.Name, e.SKU, e.Quantity, e.Threshold),
				RelatedType: "product",
				RelatedID:   e.ProductID,
			})
			if notifErr != nil {
				log.Warn("low stock notification failed", "recipient_id", admin.ID, "error", notifErr)
			}
			if mailErr := deps.Mailer.SendLowStockAlertEmail(admin.Email, e.Name, e.SKU, e.Quantity); mailErr != nil {
				log.Warn("low stock mail failed", "recipient_id", admin.ID, "error", mailErr)
			}
		}

		if e.Category != "" {
			suppliers, _, err := deps.userRepo.List(user.ListUsersFilter{
				Role:     user.RoleSupplier,
				Category: e.Category,
				Limit:    100,
			})
			if err != nil {
				log.Warn("low stock supplier lookup failed", "category", e.Category, "error", err)
				return nil
			}
			for _, sup := range suppliers {
				notifErr := deps.notification.Notify(&notification.Notification{
					RecipientID: sup.ID,
					Type:        notification.TypeLowStock,
					Title:       "Restock opportunity",
					Message:     fmt.Sprintf("%s (%s) is low on stock: %d units left", e.Name, e.SKU, e.Quantity),
					RelatedType: "product",
					RelatedID:   e.ProductID,
				})
				if notifErr != nil {
					log.Warn("low stock supplier notification failed", "recipient_id", sup.ID, "error", notifErr)
				}
			}
		}
		return nil
	})

	bus.Subscribe(events.EventTypeOrderStatusMoved, func(_ context.Context, event events.Event) error {
		e, ok := event.(*events.OrderStatusMovedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		title := "Order status updated"
		msg := fmt.Sprintf("Order #%d moved from %s to %s", e.OrderID, e.FromStatus, e.ToStatus)
		if e.FromStatus == "" {
			title = "Order placed"
			msg = fmt.Sprintf("Order #%d has been placed and is pending review", e.OrderID)
		}
		return deps.notification.Notify(&notification.Notification{
			RecipientID: e.SupplierID,
			Type:        notification.TypeInfo,
			Title:       title,
			Message:     msg,
			RelatedType: "supplier_order",
			RelatedID:   e.OrderID,
		})
	})
}
