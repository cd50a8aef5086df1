package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/auth"
	"shop-fulfillment/internal/configs"
	httpdelivery "shop-fulfillment/internal/delivery/http"
	"shop-fulfillment/internal/delivery/kafka"
	"shop-fulfillment/internal/notify"
	"shop-fulfillment/internal/payhere"
	"shop-fulfillment/internal/repository"
	"shop-fulfillment/internal/repository/memory"
	"shop-fulfillment/internal/repository/postgres"
	"shop-fulfillment/internal/service"
)

// @title shop fulfillment API
// @version 1.0
// @description Cart, checkout, order lifecycle and PayHere payment reconciliation for the clothing store.

// @host localhost:8081
// @basePath /

// @securityDefinitions.apikey CustomerBearer
// @in header
// @name Authorization

// @securityDefinitions.apikey AdminBearer
// @in header
// @name Authorization

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

	repo, closeRepo := openRepository(cfg)
	defer closeRepo()

	opts := []service.Option{
		service.WithPayHere(payhere.NewVerifier(cfg.PayHereMerchantID, cfg.PayHereMerchantSecret)),
	}

	var dispatcher *notify.Dispatcher
	if brokers := cfg.KafkaBrokersSlice(); len(brokers) > 0 {
		pub := kafka.NewPublisher(brokers, cfg.KafkaEventsTopic)
		defer func() {
			if cerr := pub.Close(); cerr != nil {
				logrus.Errorf("publisher close: %v", cerr)
			}
		}()
		dispatcher = notify.NewDispatcher(pub, cfg.NotifyQueueSize)
		dispatcher.Start()
		opts = append(opts, service.WithNotifier(dispatcher))
		logrus.Printf("order events go to kafka topic %s", cfg.KafkaEventsTopic)
	} else {
		logrus.Warn("KAFKA_BROKERS empty, lifecycle notifications disabled")
	}

	svc := service.NewServices(service.NewService(repo, opts...))

	var customers, admins auth.Verifier
	if cfg.FirebaseProjectID != "" {
		app, err := auth.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			logrus.Fatalf("firebase: %s", err)
		}
		fv, err := auth.NewFirebaseVerifier(ctx, app)
		if err != nil {
			logrus.Fatalf("firebase auth: %s", err)
		}
		customers = fv
	} else {
		logrus.Warn("FIREBASE_PROJECT_ID empty, customer routes will reject every request")
	}
	if cfg.AdminJWTSecret != "" {
		av, err := auth.NewAdminVerifier(cfg.AdminJWTSecret)
		if err != nil {
			logrus.Fatalf("admin auth: %s", err)
		}
		admins = av
	} else {
		logrus.Warn("ADMIN_JWT_SECRET empty, admin routes will reject every request")
	}

	h := httpdelivery.NewHandler(svc, customers, admins)
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logrus.Errorf("notification drain: %s", err)
		}
	}
	logrus.Print("service stopped")
}

func openRepository(cfg configs.Config) (*repository.Repository, func()) {
	if cfg.StorageDriver == "memory" {
		logrus.Warn("using in-memory storage, data is lost on restart")
		return memory.NewRepository(memory.NewStore()), func() {}
	}

	db, err := postgres.ConnectDB(postgres.Config{DSN: cfg.PgDSN()})
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	logrus.Print("connected to postgres")
	if cfg.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			logrus.Fatalf("postgres migrate: %s", err)
		}
		logrus.Print("schema migrated")
	}

	var repoOpts []repository.Option
	repoOpts = append(repoOpts, repository.WithCourierTTL(cfg.CourierCacheTTL))
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		repoOpts = append(repoOpts, repository.WithRedis(rdb))
		logrus.Printf("active courier cached in redis at %s", cfg.RedisAddr)
	}

	return repository.NewRepository(db, repoOpts...), func() {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				logrus.Errorf("redis close: %v", err)
			}
		}
		closeDB(db)
	}
}

func closeDB(db *gorm.DB) {
	if err := db.Close(); err != nil {
		logrus.Errorf("db close: %v", err)
	}
}
