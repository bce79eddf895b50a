package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/wellvitas/booking-platform/cmd/mainconfig"
	appconfig "github.com/wellvitas/booking-platform/internal/config"
	"github.com/wellvitas/booking-platform/internal/notify"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.UseMemoryQueue {
		logger.Error("notify worker cannot run when USE_MEMORY_QUEUE=true, the API delivers in-process")
		os.Exit(1)
	}
	if cfg.NotifyQueueURL == "" {
		logger.Error("notify worker requires NOTIFY_QUEUE_URL")
		os.Exit(1)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	emailSender := notify.NewSender(notify.SenderConfig{
		Provider:       cfg.EmailProvider,
		SendGridAPIKey: cfg.SendGridAPIKey,
		FromEmail:      cfg.NotifyFromEmail,
		FromName:       cfg.NotifyFromName,
	}, sesv2.NewFromConfig(awsCfg), logger)

	queue := notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotifyQueueURL)
	service := notify.NewService(queue, emailSender, cfg.NotifyRecipients, logger)

	go service.RunWorkers(ctx, cfg.NotifyWorkerCount)
	logger.Info("notify worker started", "workers", cfg.NotifyWorkerCount)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("notify worker shutting down")
	cancel()
	time.Sleep(2 * time.Second)
}
