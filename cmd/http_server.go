package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/attendance"
	attendancepg "github.com/freshnest/backoffice/internal/attendance/postgres"
	"github.com/freshnest/backoffice/internal/auth"
	authpg "github.com/freshnest/backoffice/internal/auth/postgres"
	"github.com/freshnest/backoffice/internal/chat"
	chatpg "github.com/freshnest/backoffice/internal/chat/postgres"
	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/leave"
	leavepg "github.com/freshnest/backoffice/internal/leave/postgres"
	"github.com/freshnest/backoffice/internal/mailer"
	"github.com/freshnest/backoffice/internal/notification"
	notificationpg "github.com/freshnest/backoffice/internal/notification/postgres"
	"github.com/freshnest/backoffice/internal/order"
	orderpg "github.com/freshnest/backoffice/internal/order/postgres"
	"github.com/freshnest/backoffice/internal/payment"
	paymentpg "github.com/freshnest/backoffice/internal/payment/postgres"
	"github.com/freshnest/backoffice/internal/paymentgateway"
	"github.com/freshnest/backoffice/internal/prediction"
	predictionpg "github.com/freshnest/backoffice/internal/prediction/postgres"
	"github.com/freshnest/backoffice/internal/product"
	productpg "github.com/freshnest/backoffice/internal/product/postgres"
	"github.com/freshnest/backoffice/internal/purchase"
	purchasepg "github.com/freshnest/backoffice/internal/purchase/postgres"
	"github.com/freshnest/backoffice/internal/salary"
	salarypg "github.com/freshnest/backoffice/internal/salary/postgres"
	"github.com/freshnest/backoffice/internal/staff"
	staffpg "github.com/freshnest/backoffice/internal/staff/postgres"
	"github.com/freshnest/backoffice/internal/task"
	taskpg "github.com/freshnest/backoffice/internal/task/postgres"
	"github.com/freshnest/backoffice/internal/transport/rest"
	"github.com/freshnest/backoffice/internal/user"
	userpg "github.com/freshnest/backoffice/internal/user/postgres"
	"github.com/freshnest/backoffice/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Bus      *events.EventBus
	Mailer   *mailer.Mailer
	Handlers rest.Handlers
	Logger   *slog.Logger

	userRepo     user.Repository
	staffRepo    staff.Repository
	notification *notification.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	registerEventSubscribers(deps)
	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Config, deps.Handlers, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	deps := &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
		Bus:    events.NewEventBus(log),
		Mailer: mailer.New(config.Mail, log),
	}

	buildHandlers(deps)

	return deps, nil
}

func buildHandlers(deps *Dependencies) {
	cfg := deps.Config
	gdb := deps.Gorm
	log := deps.Logger
	bus := deps.Bus

	userRepo := userpg.NewUserRepository(gdb)
	staffRepo := staffpg.NewStaffRepository(gdb)
	deps.userRepo = userRepo
	deps.staffRepo = staffRepo

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	limiter := auth.NewLoginRateLimiter(
		cfg.Security.LoginMaxAttempts,
		cfg.Security.LoginWindow,
		cfg.Security.LoginBlockPeriod,
	)
	authSvc := auth.NewService(authpg.NewAuthRepository(gdb), tokens, limiter, deps.Mailer, cfg.Security.BCryptCost, log)
	userSvc := user.NewService(userRepo, deps.Mailer, log)
	staffSvc := staff.NewService(staffRepo, deps.Mailer, bus, cfg.Security.BCryptCost, log)
	attendanceSvc := attendance.NewService(attendancepg.NewAttendanceRepository(gdb), staffRepo, log)
	leaveSvc := leave.NewService(leavepg.NewLeaveRepository(gdb), staffRepo, bus, log)
	salarySvc := salary.NewService(salarypg.NewSalaryRepository(gdb), staffRepo, bus, log)
	taskSvc := task.NewService(taskpg.NewTaskRepository(gdb), staffRepo, bus, log)
	productSvc := product.NewService(productpg.NewProductRepository(gdb), bus, cfg.Inventory.LowStockThreshold, log)
	orderSvc := order.NewService(orderpg.NewOrderRepository(gdb), userRepo, bus, log)
	gateway := paymentgateway.NewClient(cfg.Razorpay)
	paymentSvc := payment.NewService(paymentpg.NewPaymentRepository(gdb), gateway, userRepo, log)
	purchaseSvc := purchase.NewService(purchasepg.NewPurchaseRepository(gdb), userRepo, log)
	chatSvc := chat.NewService(chatpg.NewChatRepository(gdb), userRepo, log)
	notificationSvc := notification.NewService(notificationpg.NewNotificationRepository(gdb), log)
	deps.notification = notificationSvc

	runner := prediction.NewSubprocessRunner(cfg.Prediction)
	predictionSvc := prediction.NewService(predictionpg.NewPredictionRepository(gdb), runner, productSvc, purchaseSvc, log)

	deps.Handlers = rest.Handlers{
		Auth:         auth.NewHandler(authSvc),
		User:         user.NewHandler(userSvc),
		Staff:        staff.NewHandler(staffSvc),
		Attendance:   attendance.NewHandler(attendanceSvc),
		Leave:        leave.NewHandler(leaveSvc),
		Salary:       salary.NewHandler(salarySvc),
		Task:         task.NewHandler(taskSvc),
		Product:      product.NewHandler(productSvc),
		Order:        order.NewHandler(orderSvc),
		Payment:      payment.NewHandler(paymentSvc),
		Purchase:     purchase.NewHandler(purchaseSvc),
		Chat:         chat.NewHandler(chatSvc),
		Notification: notification.NewHandler(notificationSvc),
		Prediction:   prediction.NewHandler(predictionSvc),
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pgx connection pool so both
// share a single pool and connection limits apply once.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
