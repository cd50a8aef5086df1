package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	gorm "github.com/jinzhu/gorm"
	"github.com/ory/dockertest/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shop-fulfillment/internal/models"
	repo "shop-fulfillment/internal/repository"
	pg "shop-fulfillment/internal/repository/postgres"
	svc "shop-fulfillment/internal/service"
)

type pgEnv struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
	DB       *gorm.DB
	R        *repo.Repository
}

func upPostgres(t *testing.T) *pgEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in -short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_DB=shop",
		"POSTGRES_USER=app",
		"POSTGRES_PASSWORD=app",
	})
	require.NoError(t, err)

	env := &pgEnv{pool: pool, resource: resource}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	require.NoError(t, pool.Retry(func() error {
		hostPort := resource.GetPort("5432/tcp")
		db, err := pg.ConnectDB(pg.Config{
			Host:     "localhost",
			Port:     hostPort,
			Username: "app",
			Password: "app",
			DbName:   "shop",
			SslMode:  "disable",
		})
		if err != nil {
			return err
		}
		env.DB = db
		if err := pg.Migrate(db); err != nil {
			return err
		}
		env.R = repo.NewRepository(db)
		return nil
	}))
	t.Cleanup(func() { _ = env.DB.Close() })

	return env
}

func seedStock(t *testing.T, db *gorm.DB, m int) models.Stock {
	t.Helper()
	p := models.Product{Name: "Boxy Tee", Price: decimal.RequireFromString("2500.00"), Weight: 250}
	require.NoError(t, db.Create(&p).Error)
	st := models.Stock{ProductID: p.ID, M: m, S: 1}
	require.NoError(t, db.Create(&st).Error)
	return st
}

func newOrder(number, customer string, stockID uint) *models.Order {
	price := decimal.RequireFromString("2500.00")
	return &models.Order{
		OrderNumber:     number,
		CustomerID:      customer,
		DeliveryType:    models.DeliveryTypeDelivery,
		DeliveryName:    "Ruwan",
		DeliveryPhone:   "0771234567",
		DeliveryAddress: "1 Main St",
		DeliveryCity:    "Galle",
		PaymentMethod:   models.PaymentMethodCard,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.StatusPending,
		Subtotal:        price,
		ShippingFee:     decimal.RequireFromString("400.00"),
		Total:           decimal.RequireFromString("2900.00"),
		Lines: []models.OrderLine{{
			StockID:      stockID,
			ProductName:  "Boxy Tee",
			Size:         models.SizeM,
			Quantity:     1,
			SellingPrice: price,
			CostPrice:    decimal.RequireFromString("1200.00"),
			Total:        price,
		}},
	}
}

func Test_Postgres_ReserveRelease(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 3)

	err := env.R.Reserve(st.ID, models.SizeM, 4)
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	got, err := env.R.GetStock(st.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.M)

	require.NoError(t, env.R.Reserve(st.ID, models.SizeM, 3))
	got, err = env.R.GetStock(st.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.M)
	require.Equal(t, 1, got.S)

	require.NoError(t, env.R.Release(st.ID, models.SizeM, 3))
	got, err = env.R.GetStock(st.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.M)

	require.ErrorIs(t, env.R.Reserve(st.ID+1000, models.SizeM, 1), models.ErrNotFound)
}

func Test_Postgres_ConcurrentReserve_NoOversell(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 7)

	const buyers = 20
	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := env.R.WithinTransaction(context.Background(), func(tx *repo.Repository) error {
				return tx.Reserve(st.ID, models.SizeM, 1)
			})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, models.ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			default:
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(7), ok)
	require.Equal(t, int32(buyers-7), rejected)
	got, err := env.R.GetStock(st.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.M)
}

func Test_Postgres_NegativeCounterRejected(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 1)

	err := env.DB.Model(&models.Stock{}).Where("id = ?", st.ID).UpdateColumn("m_quantity", -1).Error
	require.Error(t, err)
}

func Test_Postgres_CartActiveLineIsUnique(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 5)

	first := &models.CartLine{CustomerID: "cust-1", StockID: st.ID, Size: models.SizeM, Quantity: 1, Active: true}
	require.NoError(t, env.R.CreateLine(first))

	dup := &models.CartLine{CustomerID: "cust-1", StockID: st.ID, Size: models.SizeM, Quantity: 2, Active: true}
	require.ErrorIs(t, env.R.CreateLine(dup), models.ErrDuplicate)

	other := &models.CartLine{CustomerID: "cust-1", StockID: st.ID, Size: models.SizeS, Quantity: 1, Active: true}
	require.NoError(t, env.R.CreateLine(other))

	lines, err := env.R.ActiveLines("cust-1")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	n, err := env.R.ClearCustomerLines("cust-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	again := &models.CartLine{CustomerID: "cust-1", StockID: st.ID, Size: models.SizeM, Quantity: 1, Active: true}
	require.NoError(t, env.R.CreateLine(again))
}

func Test_Postgres_ConcurrentAddItem_SumsQuantities(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 50)
	service := svc.NewService(env.R)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "uid-cart", st.ID, models.SizeM, 1)
	require.NoError(t, err)

	const adders = 10
	var wg sync.WaitGroup
	errs := make(chan error, adders)
	for i := 0; i < adders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.AddItem(ctx, "uid-cart", st.ID, models.SizeM, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	line, err := env.R.FindActiveLine("uid-cart", st.ID, models.SizeM)
	require.NoError(t, err)
	require.Equal(t, adders+1, line.Quantity)

	var increments sync.WaitGroup
	for i := 0; i < 5; i++ {
		increments.Add(1)
		go func() {
			defer increments.Done()
			if _, err := service.Increment(ctx, "uid-cart", line.ID); err != nil {
				t.Error(err)
			}
		}()
	}
	increments.Wait()

	line, err = env.R.FindActiveLine("uid-cart", st.ID, models.SizeM)
	require.NoError(t, err)
	require.Equal(t, adders+6, line.Quantity)
}

func Test_Postgres_OrderLifecycle(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 5)

	o := newOrder("ORD-PGTEST01", "cust-1", st.ID)
	require.NoError(t, env.R.CreateOrder(o))
	require.NotZero(t, o.ID)

	exists, err := env.R.OrderNumberExists("ORD-PGTEST01")
	require.NoError(t, err)
	require.True(t, exists)

	err = env.R.WithinTransaction(context.Background(), func(tx *repo.Repository) error {
		locked, err := tx.GetOrderByNumberForUpdate("ORD-PGTEST01")
		if err != nil {
			return err
		}
		locked.PaymentStatus = models.PaymentStatusPaid
		locked.Status = models.StatusConfirmed
		locked.TransactionID = "PAY-1"
		return tx.SaveOrder(&locked)
	})
	require.NoError(t, err)

	got, err := env.R.GetOrder(o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, got.Status)
	require.True(t, got.IsPaid())
	require.Len(t, got.Lines, 1)
	require.True(t, got.Total.Equal(decimal.RequireFromString("2900")))

	mine, err := env.R.ListCustomerOrders("cust-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, env.R.DeleteOrder(o.ID))
	_, err = env.R.GetOrder(o.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func Test_Postgres_TransactionRollsBack(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 2)

	boom := errors.New("boom")
	err := env.R.WithinTransaction(context.Background(), func(tx *repo.Repository) error {
		if err := tx.Reserve(st.ID, models.SizeM, 2); err != nil {
			return err
		}
		if err := tx.CreateOrder(newOrder("ORD-ROLLBACK", "cust-2", st.ID)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := env.R.GetStock(st.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.M)
	exists, err := env.R.OrderNumberExists("ORD-ROLLBACK")
	require.NoError(t, err)
	require.False(t, exists)
}

func Test_Postgres_DuplicateOrderNumber(t *testing.T) {
	env := upPostgres(t)
	st := seedStock(t, env.DB, 2)

	require.NoError(t, env.R.CreateOrder(newOrder("ORD-DUP00001", "c", st.ID)))
	err := env.R.WithinTransaction(context.Background(), func(tx *repo.Repository) error {
		return tx.CreateOrder(newOrder("ORD-DUP00001", "c", st.ID))
	})
	require.ErrorIs(t, err, models.ErrDuplicate)
}

func Test_Postgres_SingleActiveCourier(t *testing.T) {
	env := upPostgres(t)

	for i := 1; i <= 2; i++ {
		c := &models.Courier{
			Name:       fmt.Sprintf("Courier %d", i),
			BaseCharge: decimal.RequireFromString("350"),
			ExtraPerKg: decimal.RequireFromString("80"),
			Active:     true,
		}
		require.NoError(t, env.R.CreateCourier(c))
	}
	idle := &models.Courier{Name: "Idle", BaseCharge: decimal.Zero, ExtraPerKg: decimal.Zero}
	require.NoError(t, env.R.CreateCourier(idle))

	active, err := env.R.ActiveCourier()
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, "Courier 2", active.Name)

	list, err := env.R.ListCouriers()
	require.NoError(t, err)
	var n int
	for _, c := range list {
		if c.Active {
			n++
		}
	}
	require.Equal(t, 1, n)

	toggled, err := env.R.SetCourierActive(idle.ID, true)
	require.NoError(t, err)
	require.True(t, toggled.Active)

	active, err = env.R.ActiveCourier()
	require.NoError(t, err)
	require.Equal(t, idle.ID, active.ID)

	_, err = env.R.SetCourierActive(9999, true)
	require.ErrorIs(t, err, models.ErrNotFound)

	first := list[0]
	first.BaseCharge = decimal.RequireFromString("375.50")
	first.Active = true
	require.NoError(t, env.R.UpdateCourier(&first))
	require.True(t, first.BaseCharge.Equal(decimal.RequireFromString("375.50")))

	active, err = env.R.ActiveCourier()
	require.NoError(t, err)
	require.Equal(t, first.ID, active.ID, "activating through an edit moves the single active flag")
	require.True(t, active.BaseCharge.Equal(decimal.RequireFromString("375.50")))

	missing := models.Courier{ID: 9999, Name: "ghost"}
	require.ErrorIs(t, env.R.UpdateCourier(&missing), models.ErrNotFound)

	require.NoError(t, env.R.DeleteCourier(first.ID))
	require.ErrorIs(t, env.R.DeleteCourier(first.ID), models.ErrNotFound)
	active, err = env.R.ActiveCourier()
	require.NoError(t, err)
	require.Nil(t, active)
	_, err = env.R.GetCourier(first.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func Test_Postgres_BranchLookupAndDeviceToken(t *testing.T) {
	env := upPostgres(t)

	require.NoError(t, env.DB.Create(&models.Branch{Name: "Colombo 07", City: "Colombo"}).Error)
	b, err := env.R.FindBranchByName("Colombo 07")
	require.NoError(t, err)
	require.Equal(t, "Colombo", b.City)
	_, err = env.R.FindBranchByName("Jaffna")
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, env.R.SaveDeviceToken("uid-1", "a@example.com", "tok-1"))
	require.NoError(t, env.R.SaveDeviceToken("uid-1", "", "tok-2"))
	c, err := env.R.GetCustomer("uid-1")
	require.NoError(t, err)
	require.Equal(t, "tok-2", c.DeviceToken)
	require.Equal(t, "a@example.com", c.Email)
}
