package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wellvitas/booking-platform/cmd/mainconfig"
	"github.com/wellvitas/booking-platform/internal/admin"
	"github.com/wellvitas/booking-platform/internal/api/router"
	"github.com/wellvitas/booking-platform/internal/booking"
	appconfig "github.com/wellvitas/booking-platform/internal/config"
	"github.com/wellvitas/booking-platform/internal/draft"
	"github.com/wellvitas/booking-platform/internal/http/handlers"
	"github.com/wellvitas/booking-platform/internal/notify"
	"github.com/wellvitas/booking-platform/internal/observability/metrics"
	"github.com/wellvitas/booking-platform/internal/submit"
	"github.com/wellvitas/booking-platform/internal/wizard"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

func main() {
	// Local development reads a .env file; deployed environments set real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Wizard draft persistence
	var draftStore wizard.DraftStore
	switch cfg.DraftBackend {
	case "redis":
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		draftStore = draft.NewRedisStore(redis.NewClient(opts), cfg.DraftTTL, nil)
	case "dynamodb":
		draftStore = draft.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DraftTable, cfg.DraftTTL, logger)
	default:
		draftStore = draft.NewMemoryStore(cfg.DraftTTL)
	}
	logger.Info("draft store configured", "backend", cfg.DraftBackend)

	// Booking storage
	var repo booking.Repository
	var adminHandler *admin.Handler
	if cfg.DatabaseURL != "" {
		pool, poolErr := pgxpool.New(ctx, cfg.DatabaseURL)
		if poolErr != nil {
			logger.Error("failed to connect postgres", "error", poolErr)
			os.Exit(1)
		}
		defer pool.Close()
		repo = booking.NewPostgresRepository(pool)

		sqlDB := stdlib.OpenDBFromPool(pool)
		adminHandler = admin.NewHandler(admin.NewStatsRepository(sqlDB), logger)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory booking store")
		repo = booking.NewInMemoryRepository()
	}

	// Audit archive
	var archiver *booking.Archiver
	if cfg.ArchiveBucket != "" {
		archiver = booking.NewArchiver(s3.NewFromConfig(awsCfg), cfg.ArchiveBucket, logger)
	}

	// Clinic notifications
	emailSender := notify.NewSender(notify.SenderConfig{
		Provider:       cfg.EmailProvider,
		SendGridAPIKey: cfg.SendGridAPIKey,
		FromEmail:      cfg.NotifyFromEmail,
		FromName:       cfg.NotifyFromName,
	}, sesv2.NewFromConfig(awsCfg), logger)

	var notifyService *notify.Service
	if cfg.UseMemoryQueue {
		notifyService = notify.NewService(notify.NewMemoryQueue(64), emailSender, cfg.NotifyRecipients, logger)
		go notifyService.RunWorkers(ctx, cfg.NotifyWorkerCount)
	} else {
		queue := notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotifyQueueURL)
		notifyService = notify.NewService(queue, emailSender, cfg.NotifyRecipients, logger)
		// Delivery happens in the notify-worker binary.
	}

	// Metrics
	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	notifyBooking := func(b *booking.Booking) {
		if err := notifyService.BookingReceived(context.Background(), b); err != nil {
			logger.Error("failed to enqueue booking notification", "booking_id", b.ID, "error", err)
		}
	}
	bookingHandler := booking.NewHandler(repo, archiver, notifyBooking, bookingMetrics, logger)

	// The wizard posts to its own /api/booking route unless an external
	// endpoint is configured.
	endpoint := cfg.SubmitEndpointURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("http://127.0.0.1:%s/api/booking", cfg.Port)
	}
	submitter := submit.NewClient(endpoint, logger)
	wizardHandler := handlers.NewWizardHandler(draftStore, submitter, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     bookingHandler,
		WizardHandler:      wizardHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		AdminHandler:       adminHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: float64(cfg.RateLimitPerSecond),
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
