package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/configs"
	"shop-fulfillment/internal/repository/postgres"
)

// Applies the schema once, for deployments that run the API with AUTO_MIGRATE=false.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Printf("no .env loaded: %s", err)
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %s", err)
	}
	if err := cfg.SetupLogger(); err != nil {
		logrus.Fatalf("logger setup: %s", err)
	}

	db, err := postgres.ConnectDB(postgres.Config{DSN: cfg.PgDSN()})
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.Errorf("db close: %v", cerr)
		}
	}()
	logrus.Print("connected to postgres")

	if err := postgres.Migrate(db); err != nil {
		logrus.Fatalf("migrate: %s", err)
	}
	logrus.Print("schema is up to date")
}
