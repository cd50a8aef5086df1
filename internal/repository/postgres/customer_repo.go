package postgres

import (
	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
)

type CustomerPostgresRepo struct {
	db *gorm.DB
}

func NewCustomerPostgres(db *gorm.DB) *CustomerPostgresRepo {
	return &CustomerPostgresRepo{db: db}
}

func (r *CustomerPostgresRepo) GetCustomer(id string) (models.Customer, error) {
	var c models.Customer
	err := r.db.Where("firebase_uid = ?", id).First(&c).Error
	return c, translate(err, "get customer")
}

// SaveDeviceToken upserts the customer row keyed by identity-provider uid.
func (r *CustomerPostgresRepo) SaveDeviceToken(id, email, token string) error {
	err := r.db.Exec(`INSERT INTO customers (firebase_uid, email, fcm_token, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON CONFLICT (firebase_uid) DO UPDATE
		SET fcm_token = EXCLUDED.fcm_token,
			email = COALESCE(NULLIF(EXCLUDED.email, ''), customers.email),
			updated_at = NOW()`, id, email, token).Error
	return translate(err, "save device token")
}

type PaymentLogPostgresRepo struct {
	db *gorm.DB
}

func NewPaymentLogPostgres(db *gorm.DB) *PaymentLogPostgresRepo {
	return &PaymentLogPostgresRepo{db: db}
}

func (r *PaymentLogPostgresRepo) CreatePaymentLog(l *models.PaymentLog) error {
	return translate(r.db.Create(l).Error, "create payment log")
}
