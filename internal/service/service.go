package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/payhere"
	"shop-fulfillment/internal/repository"
)

type Inventory interface {
	CheckAvailable(ctx context.Context, stockID uint, size models.Size, qty int) (bool, error)
	Reserve(ctx context.Context, stockID uint, size models.Size, qty int) error
	Release(ctx context.Context, stockID uint, size models.Size, qty int) error
	GetStock(ctx context.Context, stockID uint) (models.Stock, error)
	SetQuantities(ctx context.Context, stockID uint, q map[models.Size]int) (models.Stock, error)
}

type Cart interface {
	View(ctx context.Context, customerID string) (CartView, error)
	AddItem(ctx context.Context, customerID string, stockID uint, size models.Size, qty int) (models.CartLine, error)
	UpdateQuantity(ctx context.Context, customerID string, lineID uint, qty int) (LineChange, error)
	RemoveLine(ctx context.Context, customerID string, lineID uint) (Summary, error)
	Increment(ctx context.Context, customerID string, lineID uint) (LineChange, error)
	Decrement(ctx context.Context, customerID string, lineID uint) (LineChange, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResult, error)
	GetOrder(ctx context.Context, customerID string, orderID uint) (OrderResult, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]OrderResult, error)
	ListOrders(ctx context.Context) ([]OrderResult, error)
	UpdateStatus(ctx context.Context, orderID uint, status models.Status, actorID string) (models.Order, error)
	CancelOrder(ctx context.Context, orderID uint, actorID string) (models.Order, error)
	MarkShipped(ctx context.Context, orderID uint, trackingNumber string, courierID uint, actorID string) (models.Order, error)
	MarkReadyForPickup(ctx context.Context, orderID uint, actorID string) (models.Order, error)
	MarkPickedUp(ctx context.Context, orderID uint, actorID string) (models.Order, error)
	MarkDelivered(ctx context.Context, orderID uint, actorID string) (models.Order, error)
	DeleteOrder(ctx context.Context, orderID uint) error
}

type Payments interface {
	ReconcilePayment(ctx context.Context, cb payhere.Callback) (ReconcileResult, error)
}

type Couriers interface {
	ListCouriers(ctx context.Context) ([]models.Courier, error)
	CreateCourier(ctx context.Context, in CourierInput) (models.Courier, error)
	ToggleCourierActive(ctx context.Context, id uint) (models.Courier, error)
	UpdateCourier(ctx context.Context, id uint, in CourierPatch) (models.Courier, error)
	DeleteCourier(ctx context.Context, id uint) error
}

type Customers interface {
	RegisterDevice(ctx context.Context, customerID, email, token string) error
}

// Notifier receives lifecycle events after the owning transaction commits.
// Implementations must not block and must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, ev models.OrderEvent)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.OrderEvent) {}

type Service struct {
	repo     *repository.Repository
	notifier Notifier
	payhere  *payhere.Verifier
	v        *validator.Validate
	policy   *bluemonday.Policy
	now      func() time.Time
	token    func(n int) string
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithPayHere(v *payhere.Verifier) Option { return func(s *Service) { s.payhere = v } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithTokenSource replaces the random suffix generator used for order numbers and pickup ids.
func WithTokenSource(f func(n int) string) Option { return func(s *Service) { s.token = f } }

func NewService(repo *repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: nopNotifier{},
		payhere:  payhere.NewVerifier("", ""),
		v:        newValidator(),
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
		token:    randomToken,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Services is the set of capabilities exposed to the delivery layer.
type Services struct {
	Inventory
	Cart
	Orders
	Payments
	Couriers
	Customers
}

func NewServices(s *Service) *Services {
	return &Services{
		Inventory: s,
		Cart:      s,
		Orders:    s,
		Payments:  s,
		Couriers:  s,
		Customers: s,
	}
}
