package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeSalaryPaid       = "salary.paid"
	EventTypeLeaveReviewed    = "leave.reviewed"
	EventTypeOrderStatusMoved = "order.status_moved"
	EventTypeLowStock         = "product.low_stock"
	EventTypeTaskAssigned     = "task.assigned"
	EventTypeStaffOnboarded   = "staff.onboarded"
)

type SalaryPaidEvent struct {
	BaseEvent
	SalaryID   int64   `json:"salary_id"`
	StaffID    int64   `json:"staff_id"`
	Email      string  `json:"email"`
	Month      string  `json:"month"`
	PaidAmount float64 `json:"paid_amount"`
	Deductions float64 `json:"deductions"`
}

func NewSalaryPaidEvent(salaryID, staffID int64, email, month string, paidAmount, deductions float64) *SalaryPaidEvent {
	return &SalaryPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSalaryPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"salary_id":   salaryID,
				"staff_id":    staffID,
				"email":       email,
				"month":       month,
				"paid_amount": paidAmount,
				"deductions":  deductions,
			},
		},
		SalaryID:   salaryID,
		StaffID:    staffID,
		Email:      email,
		Month:      month,
		PaidAmount: paidAmount,
		Deductions: deductions,
	}
}

type LeaveReviewedEvent struct {
	BaseEvent
	LeaveID int64  `json:"leave_id"`
	StaffID int64  `json:"staff_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

func NewLeaveReviewedEvent(leaveID, staffID int64, status, reason string) *LeaveReviewedEvent {
	return &LeaveReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveReviewed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_id": leaveID,
				"staff_id": staffID,
				"status":   status,
				"reason":   reason,
			},
		},
		LeaveID: leaveID,
		StaffID: staffID,
		Status:  status,
		Reason:  reason,
	}
}

type OrderStatusMovedEvent struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	SupplierID int64  `json:"supplier_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func NewOrderStatusMovedEvent(orderID, supplierID int64, fromStatus, toStatus string) *OrderStatusMovedEvent {
	return &OrderStatusMovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderStatusMoved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":    orderID,
				"supplier_id": supplierID,
				"from_status": fromStatus,
				"to_status":   toStatus,
			},
		},
		OrderID:    orderID,
		SupplierID: supplierID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	}
}

type LowStockEvent struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

func NewLowStockEvent(productID int64, sku, name, category string, quantity, threshold int) *LowStockEvent {
	return &LowStockEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLowStock,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"product_id": productID,
				"sku":        sku,
				"name":       name,
				"category":   category,
				"quantity":   quantity,
				"threshold":  threshold,
			},
		},
		ProductID: productID,
		SKU:       sku,
		Name:      name,
		Category:  category,
		Quantity:  quantity,
		Threshold: threshold,
	}
}

type TaskAssignedEvent struct {
	BaseEvent
	TaskID     int64  `json:"task_id"`
	AssigneeID int64  `json:"assignee_id"`
	Title      string `json:"title"`
	Deadline   string `json:"deadline"`
}

func NewTaskAssignedEvent(taskID, assigneeID int64, title, deadline string) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTaskAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"task_id":     taskID,
				"assignee_id": assigneeID,
				"title":       title,
				"deadline":    deadline,
			},
		},
		TaskID:     taskID,
		AssigneeID: assigneeID,
		Title:      title,
		Deadline:   deadline,
	}
}

type StaffOnboardedEvent struct {
	BaseEvent
	StaffID    int64  `json:"staff_id"`
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
}

func NewStaffOnboardedEvent(staffID, userID int64, email, employeeID string) *StaffOnboardedEvent {
	return &StaffOnboardedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStaffOnboarded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"staff_id":    staffID,
				"user_id":     userID,
				"email":       email,
				"employee_id": employeeID,
			},
		},
		StaffID:    staffID,
		UserID:     userID,
		Email:      email,
		EmployeeID: employeeID,
	}
}
