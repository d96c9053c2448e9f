package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/segyhp/pension-verification/internal/config"
	"github.com/segyhp/pension-verification/internal/mailer"
	"github.com/segyhp/pension-verification/internal/repository"
	"github.com/segyhp/pension-verification/internal/service"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/metrics"
)

// reminderRunBudget bounds one reminder batch
const reminderRunBudget = 30 * time.Minute

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "failed to load configuration", "error", err)
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		logger.Fatal(ctx, "failed to initialize logger", "error", err)
	}
	logger.Info(ctx, "starting reminder scheduler")

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		logger.Fatal(ctx, "failed to initialize database", "error", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	m := metrics.New()
	verificationService := service.NewVerificationService(
		repository.NewPensionerRepository(db),
		repository.NewReviewRepository(db),
		repository.NewVerificationLogRepository(db),
		mailer.New(cfg.MailerConfig()),
		m,
		time.Now,
	)

	// Expose reminder counters for scraping
	var metricsServer *http.Server
	if cfg.Scheduler.MetricsAddr != "" {
		metricsServer = newMetricsServer(cfg.Scheduler.MetricsAddr, m)
		go func() {
			logger.Info(ctx, "metrics server starting", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "metrics server failed", "error", err)
			}
		}()
	}

	// Initialize cron scheduler
	c := cron.New(
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if err := setupCronJobs(c, cfg, verificationService); err != nil {
		logger.Fatal(ctx, "failed to schedule jobs", "error", err)
	}

	c.Start()
	logger.Info(ctx, "scheduler started", "reminder_cron", cfg.Scheduler.ReminderCron, "timezone", cfg.Scheduler.Timezone)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down scheduler, waiting for running jobs")
	<-c.Stop().Done()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "metrics server forced to shutdown", "error", err)
		}
	}
	logger.Info(ctx, "scheduler stopped")
}

func newMetricsServer(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, verificationService *service.VerificationService) error {
	// Daily re-verification reminders
	_, err := c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		runReminders(verificationService)
	})
	return err
}

func runReminders(verificationService *service.VerificationService) {
	ctx, cancel := context.WithTimeout(context.Background(), reminderRunBudget)
	defer cancel()
	ctx = logger.WithAttrs(ctx, "job", "reverification_reminders")

	start := time.Now()
	sent, failed, err := verificationService.SendDueReminders(ctx)
	if err != nil {
		logger.Error(ctx, "reminder job failed", "sent", sent, "failed", failed, "error", err)
		return
	}
	logger.Info(ctx, "reminder job finished", "sent", sent, "failed", failed, "duration", time.Since(start))
}
