package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/auth"
	"shop-fulfillment/internal/configs"
	"shop-fulfillment/internal/delivery/kafka"
	"shop-fulfillment/internal/mailer"
	"shop-fulfillment/internal/notify"
	"shop-fulfillment/internal/push"
)

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	if err := cfg.SetupLogger(); err != nil {
		logrus.Fatalf("logger setup: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer, err := mailer.NewRenderer(cfg.AssetBaseURL)
	if err != nil {
		logrus.Fatalf("email templates: %s", err)
	}
	opts := []notify.HandlerOption{
		notify.WithEmail(mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), renderer),
	}

	if cfg.FirebaseProjectID != "" {
		app, err := auth.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			logrus.Fatalf("firebase: %s", err)
		}
		sender, err := push.NewFCMSender(ctx, app)
		if err != nil {
			logrus.Fatalf("firebase messaging: %s", err)
		}
		opts = append(opts, notify.WithPush(sender))
		logrus.Print("push notifications enabled")
	} else {
		logrus.Warn("FIREBASE_PROJECT_ID empty, push notifications disabled")
	}

	consumer := kafka.NewConsumer(kafka.Config{
		Brokers:    cfg.KafkaBrokersSlice(),
		GroupID:    cfg.KafkaGroupID,
		Topic:      cfg.KafkaEventsTopic,
		DLQ:        cfg.KafkaDLQTopic,
		MaxRetries: 5,
	}, notify.NewHandler(opts...))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Subscribe(ctx); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
		}
		cancel()
	}()
	logrus.Printf("kafka subscription started on %s", cfg.KafkaEventsTopic)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}
	cancel()
	wg.Wait()

	if err := consumer.Close(); err != nil {
		logrus.Errorf("consumer close: %s", err)
	}
	logrus.Print("notifier stopped")
}
