package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/payhere"
	"shop-fulfillment/internal/repository"
	"shop-fulfillment/internal/repository/memory"
	svc "shop-fulfillment/internal/service"
)

const (
	merchantID     = "1211149"
	merchantSecret = "test-secret"
	customerID     = "cust-1"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev models.OrderEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) types() []models.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.EventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	repo     *repository.Repository
	svc      *svc.Service
	notes    *recordingNotifier
	verifier *payhere.Verifier
	ctx      context.Context
}

func newFixture(t *testing.T, opts ...svc.Option) *fixture {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewRepository(store)
	notes := &recordingNotifier{}
	verifier := payhere.NewVerifier(merchantID, merchantSecret)
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	base := []svc.Option{
		svc.WithNotifier(notes),
		svc.WithPayHere(verifier),
		svc.WithClock(func() time.Time { return clock }),
	}
	return &fixture{
		store:    store,
		repo:     repo,
		svc:      svc.NewService(repo, append(base, opts...)...),
		notes:    notes,
		verifier: verifier,
		ctx:      context.Background(),
	}
}

// seedStock creates a product priced in whole rupees and a stock row with the given buckets.
func (f *fixture) seedStock(t *testing.T, price int64, weight int, q map[models.Size]int) models.Stock {
	t.Helper()
	p := f.store.AddProduct(models.Product{
		Name:      gofakeit.ProductName(),
		MainImage: gofakeit.URL(),
		Price:     decimal.NewFromInt(price),
		CostPrice: decimal.NewFromInt(price / 2),
		Weight:    weight,
		Active:    true,
	})
	st := models.Stock{ProductID: p.ID, Active: true}
	for size, n := range q {
		b, ok := st.Bucket(size)
		require.True(t, ok)
		*b = n
	}
	return f.store.AddStock(st)
}

func (f *fixture) seedCourier(t *testing.T, base, extra int64) models.Courier {
	t.Helper()
	c := models.Courier{
		Name:        "Domex",
		Description: "https://domex.lk/track/",
		BaseCharge:  decimal.NewFromInt(base),
		ExtraPerKg:  decimal.NewFromInt(extra),
		Active:      true,
	}
	require.NoError(t, f.repo.CreateCourier(&c))
	return c
}

func (f *fixture) quantity(t *testing.T, stockID uint, size models.Size) int {
	t.Helper()
	st, ok := f.store.Stock(stockID)
	require.True(t, ok)
	return st.Quantity(size)
}

func deliveryInput(method models.PaymentMethod) svc.CreateOrderInput {
	return svc.CreateOrderInput{
		CustomerID:      customerID,
		Email:           "buyer@example.com",
		DeliveryType:    models.DeliveryTypeDelivery,
		DeliveryName:    "Nimal Perera",
		DeliveryPhone:   "+94 77 123 4567",
		DeliveryAddress: "12 Galle Road",
		DeliveryCity:    "Colombo",
		PaymentMethod:   method,
	}
}

func (f *fixture) checkout(t *testing.T, in svc.CreateOrderInput) models.Order {
	t.Helper()
	res, err := f.svc.CreateOrder(f.ctx, in)
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) callback(o models.Order, status int) payhere.Callback {
	cb := payhere.Callback{
		MerchantID: merchantID,
		OrderID:    o.OrderNumber,
		PaymentID:  "3200" + gofakeit.DigitN(8),
		Amount:     o.Total.StringFixed(2),
		Currency:   "LKR",
		StatusCode: status,
	}
	cb.Signature = f.verifier.Sign(cb.MerchantID, cb.OrderID, cb.Amount, cb.Currency, cb.StatusCode)
	return cb
}
