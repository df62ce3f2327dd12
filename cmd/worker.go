package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshnest/backoffice/internal/core/events"
	"github.com/freshnest/backoffice/internal/prediction"
	predictionpg "github.com/freshnest/backoffice/internal/prediction/postgres"
	"github.com/freshnest/backoffice/internal/product"
	productpg "github.com/freshnest/backoffice/internal/product/postgres"
	"github.com/freshnest/backoffice/internal/purchase"
	purchasepg "github.com/freshnest/backoffice/internal/purchase/postgres"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers such as the periodic demand prediction refresher.`,
}

var predictionWorkerCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Start the demand prediction refresher",
	Long:  `Periodically feeds catalog and sales history to the prediction script and stores the results.`,
	Run: func(cmd *cobra.Command, args []string) {
		startPredictionWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus and log every event it receives, for debugging subscriptions.`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var refreshInterval time.Duration

func startPredictionWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Environment)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gdb, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize orm: %v\n", err)
		os.Exit(1)
	}

	productSvc := product.NewService(productpg.NewProductRepository(gdb), events.NewEventBus(log), config.Inventory.LowStockThreshold, log)
	purchaseSvc := purchase.NewService(purchasepg.NewPurchaseRepository(gdb), nil, log)
	runner := prediction.NewSubprocessRunner(config.Prediction)
	predictionSvc := prediction.NewService(predictionpg.NewPredictionRepository(gdb), runner, productSvc, purchaseSvc, log)

	log.Info("prediction worker started",
		"interval", refreshInterval,
		"command", config.Prediction.Command,
		"script", config.Prediction.Script)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.Prediction.Timeout+30*time.Second)
		defer cancel()
		predictions, err := predictionSvc.Refresh(ctx)
		if err != nil {
			log.Error("prediction refresh failed", "error", err)
			return
		}
		log.Info("prediction refresh complete", "count", len(predictions))
	}

	refresh()

	for {
		select {
		case <-ticker.C:
			refresh()
		case sig := <-sigChan:
			log.Info("received signal, shutting down prediction worker", "signal", sig)
			return
		}
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)

	for _, eventType := range []string{
		events.EventTypeSalaryPaid,
		events.EventTypeLeaveReviewed,
		events.EventTypeOrderStatusMoved,
		events.EventTypeLowStock,
		events.EventTypeTaskAssigned,
		events.EventTypeStaffOnboarded,
	} {
		eventBus.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			log.Info("received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}

	log.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event bus", "signal", sig)
}

func init() {
	predictionWorkerCmd.Flags().DurationVar(&refreshInterval, "interval", 6*time.Hour, "how often to refresh demand predictions")

	workerCmd.AddCommand(predictionWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
