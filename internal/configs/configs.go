package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8081"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	DatabaseURL     string `env:"DATABASE_URL" envDefault:""`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"shop"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	RedisAddr       string        `env:"REDIS_ADDR" envDefault:""`
	RedisPassword   string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	CourierCacheTTL time.Duration `env:"COURIER_CACHE_TTL" envDefault:"30s"`

	KafkaBrokers     string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEventsTopic string `env:"KAFKA_EVENTS_TOPIC" envDefault:"order-events"`
	KafkaGroupID     string `env:"KAFKA_GROUP_ID" envDefault:"order-notifier"`
	KafkaDLQTopic    string `env:"KAFKA_DLQ_TOPIC" envDefault:"order-events-dlq"`
	NotifyQueueSize  int    `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`

	PayHereMerchantID     string `env:"PAYHERE_MERCHANT_ID" envDefault:""`
	PayHereMerchantSecret string `env:"PAYHERE_MERCHANT_SECRET" envDefault:""`

	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID" envDefault:""`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE" envDefault:""`
	AdminJWTSecret          string `env:"ADMIN_JWT_SECRET" envDefault:""`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER" envDefault:""`
	SMTPPassword string `env:"SMTP_PASSWORD" envDefault:""`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"orders@localhost"`
	AssetBaseURL string `env:"ASSET_BASE_URL" envDefault:""`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	switch c.StorageDriver {
	case "postgres", "memory":
	default:
		return Config{}, fmt.Errorf("config parse: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return c, nil
}

func (c Config) KafkaBrokersSlice() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPass,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

// SetupLogger applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c Config) SetupLogger() error {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("config parse: %w", err)
	}
	logrus.SetLevel(lvl)
	switch c.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
