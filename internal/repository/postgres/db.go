package postgres

import (
	"fmt"

	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/pkg/errors"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	DbName   string
	SslMode  string
	DSN      string
}

func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.DbName, c.Password, c.SslMode)
}

func ConnectDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", cfg.dsn())
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := db.DB().Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

// Migrate creates or extends every table and adds the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Stock{},
		&models.Branch{},
		&models.Courier{},
		&models.Customer{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
		&models.PaymentLog{},
	).Error; err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	stmts := []string{
		`ALTER TABLE stocks DROP CONSTRAINT IF EXISTS chk_stocks_non_negative`,
		`ALTER TABLE stocks ADD CONSTRAINT chk_stocks_non_negative CHECK (
			xs_quantity >= 0 AND s_quantity >= 0 AND m_quantity >= 0 AND
			l_quantity >= 0 AND xl_quantity >= 0 AND xxl_quantity >= 0)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_cart_lines_active
			ON cart_lines (customer_id, stock_id, size)
			WHERE deleted_at IS NULL AND is_active`,
	}
	for _, q := range stmts {
		if err := db.Exec(q).Error; err != nil {
			return errors.Wrap(err, "migrate constraints")
		}
	}
	return nil
}
