package repository

import (
	"context"
	"time"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/repository/cache"
	"shop-fulfillment/internal/repository/postgres"
	"shop-fulfillment/internal/repository/rediscache"

	"github.com/jinzhu/gorm"
	"github.com/redis/go-redis/v9"
)

type Stocks interface {
	GetStock(id uint) (models.Stock, error)
	Reserve(id uint, size models.Size, qty int) error
	Release(id uint, size models.Size, qty int) error
	SetQuantities(id uint, q map[models.Size]int) (models.Stock, error)
}

type Carts interface {
	ActiveLines(customerID string) ([]models.CartLine, error)
	FindActiveLine(customerID string, stockID uint, size models.Size) (models.CartLine, error)
	GetLine(id uint) (models.CartLine, error)
	CreateLine(line *models.CartLine) error
	UpdateLineQuantity(id uint, qty int) error
	DeleteLine(id uint) error
	ClearCustomerLines(customerID string) (int64, error)
}

type Orders interface {
	OrderNumberExists(number string) (bool, error)
	PickupIDExists(pickupID string) (bool, error)
	CreateOrder(o *models.Order) error
	GetOrder(id uint) (models.Order, error)
	GetOrderForUpdate(id uint) (models.Order, error)
	GetOrderByNumberForUpdate(number string) (models.Order, error)
	SaveOrder(o *models.Order) error
	DeleteOrder(id uint) error
	ListCustomerOrders(customerID string) ([]models.Order, error)
	ListOrders() ([]models.Order, error)
}

type Branches interface {
	FindBranchByName(name string) (models.Branch, error)
}

type Couriers interface {
	ActiveCourier() (*models.Courier, error)
	GetCourier(id uint) (models.Courier, error)
	ListCouriers() ([]models.Courier, error)
	CreateCourier(c *models.Courier) error
	SetCourierActive(id uint, active bool) (models.Courier, error)
	UpdateCourier(c *models.Courier) error
	DeleteCourier(id uint) error
}

type Customers interface {
	GetCustomer(id string) (models.Customer, error)
	SaveDeviceToken(id, email, token string) error
}

type PaymentLogs interface {
	CreatePaymentLog(l *models.PaymentLog) error
}

// Transactor runs fn against a repository bound to a single unit of work.
// Returning an error from fn rolls every write back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	Stocks
	Carts
	Orders
	Branches
	Couriers
	Customers
	PaymentLogs
	Transactor
}

const (
	branchCacheTTL  = 5 * time.Minute
	courierCacheTTL = 30 * time.Second
)

type options struct {
	redis      *redis.Client
	courierTTL time.Duration
}

type Option func(*options)

// WithRedis shares the active-courier lookup between instances through redis
// instead of the in-process cache.
func WithRedis(client *redis.Client) Option { return func(o *options) { o.redis = client } }

func WithCourierTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.courierTTL = ttl
		}
	}
}

func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	o := options{courierTTL: courierCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}

	r := newPostgresRepository(db)
	r.Branches = cache.NewBranchCache(r.Branches, cache.NewShardedCache[models.Branch](cache.WithShardTTL(branchCacheTTL)))
	if o.redis != nil {
		r.Couriers = rediscache.NewCourierCache(o.redis, r.Couriers, o.courierTTL)
	} else {
		r.Couriers = cache.NewCourierCache(r.Couriers, cache.NewCache[*models.Courier](cache.WithTTL(o.courierTTL)))
	}
	return r
}

func newPostgresRepository(db *gorm.DB) *Repository {
	return &Repository{
		Stocks:      postgres.NewStockPostgres(db),
		Carts:       postgres.NewCartPostgres(db),
		Orders:      postgres.NewOrderPostgres(db),
		Branches:    postgres.NewBranchPostgres(db),
		Couriers:    postgres.NewCourierPostgres(db),
		Customers:   postgres.NewCustomerPostgres(db),
		PaymentLogs: postgres.NewPaymentLogPostgres(db),
		Transactor:  txRunner{db: db},
	}
}

type txRunner struct {
	db *gorm.DB
}

func (t txRunner) WithinTransaction(_ context.Context, fn func(tx *Repository) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(newPostgresRepository(tx))
	})
}
