package rest

import (
	"database/sql"
	"log/slog"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/attendance"
	"github.com/freshnest/backoffice/internal/auth"
	"github.com/freshnest/backoffice/internal/chat"
	"github.com/freshnest/backoffice/internal/leave"
	"github.com/freshnest/backoffice/internal/notification"
	"github.com/freshnest/backoffice/internal/order"
	"github.com/freshnest/backoffice/internal/payment"
	"github.com/freshnest/backoffice/internal/prediction"
	"github.com/freshnest/backoffice/internal/product"
	"github.com/freshnest/backoffice/internal/purchase"
	"github.com/freshnest/backoffice/internal/salary"
	"github.com/freshnest/backoffice/internal/staff"
	"github.com/freshnest/backoffice/internal/task"
	"github.com/freshnest/backoffice/internal/transport/middleware"
	"github.com/freshnest/backoffice/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles every REST handler the router mounts. Nil entries are
// skipped so partial wiring in tests still works.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Staff        *staff.Handler
	Attendance   *attendance.Handler
	Leave        *leave.Handler
	Salary       *salary.Handler
	Task         *task.Handler
	Product      *product.Handler
	Order        *order.Handler
	Payment      *payment.Handler
	Purchase     *purchase.Handler
	Chat         *chat.Handler
	Notification *notification.Handler
	Prediction   *prediction.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/signup", h.Auth.Signup)
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
				sr.Post("/verify-otp", h.Auth.VerifyOTP)
				sr.Post("/forgot-password", h.Auth.ForgotPassword)
				sr.Post("/reset-password", h.Auth.ResetPassword)
			})
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			adminOnly := middleware.RequireRoles(user.RoleAdmin)
			staffSide := middleware.RequireRoles(user.RoleAdmin, user.RoleStaff)
			supplierSide := middleware.RequireRoles(user.RoleAdmin, user.RoleSupplier)
			chatRoles := middleware.RequireRoles(user.RoleAdmin, user.RoleStaff, user.RoleSupplier)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Put("/users/me/supplier-profile", h.User.UpdateSupplierProfile)
				pr.Post("/supplier-applications", h.User.SubmitApplication)

				pr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Get("/users", h.User.ListUsers)
					ar.Get("/users/{id}", h.User.GetUser)
					ar.Put("/users/{id}", h.User.UpdateUser)
					ar.Patch("/users/{id}/status", h.User.ToggleUserStatus)
					ar.Get("/supplier-applications", h.User.ListApplications)
					ar.Patch("/supplier-applications/{id}/review", h.User.ReviewApplication)
				})
			}

			if h.Staff != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Route("/staff", func(sr chi.Router) {
						sr.Post("/", h.Staff.CreateStaff)
						sr.Get("/", h.Staff.ListStaff)
						sr.Get("/stats", h.Staff.StaffStats)
						sr.Get("/export", h.Staff.ExportStaffCSV)
						sr.Get("/{id}", h.Staff.GetStaff)
						sr.Put("/{id}", h.Staff.UpdateStaff)
						sr.Delete("/{id}", h.Staff.DeleteStaff)
						sr.Post("/{id}/reset-password", h.Staff.ResetStaffPassword)
						sr.Get("/{id}/badge", h.Staff.StaffQRBadge)
					})
				})
			}

			if h.Attendance != nil {
				pr.Route("/attendance", func(sr chi.Router) {
					sr.Group(func(str chi.Router) {
						str.Use(staffSide)
						str.Post("/mark", h.Attendance.MarkAttendance)
						str.Get("/me", h.Attendance.MyHistory)
						str.Get("/me/stats", h.Attendance.MyStats)
					})
					sr.Group(func(ar chi.Router) {
						ar.Use(adminOnly)
						ar.Get("/report", h.Attendance.DailyReport)
						ar.Get("/staff/{staffID}", h.Attendance.StaffHistory)
					})
				})
			}

			if h.Leave != nil {
				pr.Route("/leaves", func(sr chi.Router) {
					sr.Group(func(str chi.Router) {
						str.Use(staffSide)
						str.Post("/", h.Leave.ApplyLeave)
						str.Get("/me", h.Leave.MyLeaves)
						str.Delete("/{id}", h.Leave.CancelLeave)
					})
					sr.Group(func(ar chi.Router) {
						ar.Use(adminOnly)
						ar.Get("/", h.Leave.AllLeaves)
						ar.Get("/stats", h.Leave.LeaveStats)
						ar.Patch("/{id}/review", h.Leave.ReviewLeave)
						ar.Get("/balances/{staffID}", h.Leave.StaffBalances)
					})
				})
			}

			if h.Salary != nil {
				pr.Route("/salary", func(sr chi.Router) {
					sr.With(staffSide).Get("/me", h.Salary.MyHistory)
					sr.Get("/staff/{staffID}", h.Salary.StaffHistory)
					sr.Group(func(ar chi.Router) {
						ar.Use(adminOnly)
						ar.Post("/pay", h.Salary.PaySalary)
						ar.Get("/payments", h.Salary.ListPayments)
						ar.Get("/payroll", h.Salary.PayrollStaff)
						ar.Get("/summary", h.Salary.MonthlySummaries)
						ar.Get("/recent", h.Salary.RecentPayments)
					})
				})
			}

			if h.Task != nil {
				pr.Group(func(str chi.Router) {
					str.Use(staffSide)
					str.Route("/tasks", func(sr chi.Router) {
						sr.Post("/", h.Task.CreateTask)
						sr.Get("/", h.Task.ListTasks)
						sr.Get("/assignable", h.Task.AssignableStaff)
						sr.Get("/{taskID}", h.Task.GetTask)
						sr.Patch("/{taskID}/status", h.Task.UpdateTaskStatus)
						sr.Delete("/{taskID}", h.Task.DeleteTask)
					})
				})
			}

			if h.Product != nil {
				pr.Route("/products", func(sr chi.Router) {
					sr.Get("/", h.Product.ListProducts)
					sr.Get("/{productID}", h.Product.GetProduct)
					sr.Group(func(ar chi.Router) {
						ar.Use(adminOnly)
						ar.Post("/", h.Product.CreateProduct)
						ar.Post("/import", h.Product.ImportProducts)
						ar.Get("/low-stock", h.Product.LowStockProducts)
						ar.Put("/{productID}", h.Product.UpdateProduct)
						ar.Delete("/{productID}", h.Product.DeleteProduct)
					})
				})
			}

			if h.Order != nil {
				pr.Group(func(spr chi.Router) {
					spr.Use(supplierSide)
					spr.Route("/orders", func(sr chi.Router) {
						sr.Post("/", h.Order.CreateOrder)
						sr.Get("/", h.Order.ListOrders)
						sr.Get("/{orderID}", h.Order.GetOrder)
						sr.Patch("/{orderID}/status", h.Order.UpdateOrderStatus)
						sr.Group(func(ar chi.Router) {
							ar.Use(adminOnly)
							ar.Patch("/{orderID}/review", h.Order.ReviewOrder)
							ar.Post("/{orderID}/confirm-delivery", h.Order.ConfirmDelivery)
						})
					})
				})
			}

			if h.Payment != nil {
				pr.Route("/payments", func(sr chi.Router) {
					sr.Post("/order", h.Payment.CreatePaymentOrder)
					sr.Post("/verify", h.Payment.VerifyPayment)
					sr.Get("/me", h.Payment.MyTransactions)
					sr.Group(func(ar chi.Router) {
						ar.Use(adminOnly)
						ar.Get("/", h.Payment.ListTransactions)
						ar.Post("/refund", h.Payment.RefundPayment)
					})
				})
			}

			if h.Purchase != nil {
				pr.Route("/purchases", func(sr chi.Router) {
					sr.Post("/", h.Purchase.CreatePurchase)
					sr.Get("/me", h.Purchase.MyPurchases)
					sr.With(adminOnly).Get("/", h.Purchase.ListPurchases)
				})
			}

			if h.Chat != nil {
				pr.Group(func(cr chi.Router) {
					cr.Use(chatRoles)
					cr.Route("/chat", func(sr chi.Router) {
						sr.Post("/conversations", h.Chat.OpenConversation)
						sr.Get("/conversations", h.Chat.MyConversations)
						sr.Get("/conversations/{conversationID}/messages", h.Chat.ListMessages)
						sr.Post("/conversations/{conversationID}/messages", h.Chat.SendMessage)
						sr.Post("/conversations/{conversationID}/read", h.Chat.MarkRead)
					})
				})
			}

			if h.Notification != nil {
				pr.Route("/notifications", func(sr chi.Router) {
					sr.Get("/", h.Notification.ListMyNotifications)
					sr.Patch("/{id}/read", h.Notification.MarkRead)
					sr.Patch("/read-all", h.Notification.MarkAllRead)
				})
			}

			if h.Prediction != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Post("/analytics/predictions/refresh", h.Prediction.RefreshPredictions)
					ar.Get("/analytics/predictions", h.Prediction.PredictionDashboard)
				})
			}
		})
	})
}
