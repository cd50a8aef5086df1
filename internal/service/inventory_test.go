package service_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"shop-fulfillment/internal/models"
	svc "shop-fulfillment/internal/service"
)

func TestInventory_ReserveExactBucket(t *testing.T) {
	f := newFixture(t)
	st := f.seedStock(t, 1000, 200, map[models.Size]int{models.SizeM: 3})

	err := f.svc.Reserve(f.ctx, st.ID, models.SizeM, 4)
	require.ErrorIs(t, err, svc.ErrInsufficientStock)
	require.Equal(t, 3, f.quantity(t, st.ID, models.SizeM), "failed reserve must not mutate")

	require.NoError(t, f.svc.Reserve(f.ctx, st.ID, models.SizeM, 3))
	require.Equal(t, 0, f.quantity(t, st.ID, models.SizeM))

	ok, err := f.svc.CheckAvailable(f.ctx, st.ID, models.SizeM, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInventory_ConcurrentReservationsNeverOversell(t *testing.T) {
	f := newFixture(t)
	const units, buyers = 7, 25
	st := f.seedStock(t, 1000, 200, map[models.Size]int{models.SizeL: units})

	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.svc.Reserve(f.ctx, st.ID, models.SizeL, 1)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case svc.KindOf(err) == svc.KindBusiness:
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, units, ok)
	require.EqualValues(t, buyers-units, rejected)
	require.Equal(t, 0, f.quantity(t, st.ID, models.SizeL))
}

func TestInventory_ReleaseAndValidation(t *testing.T) {
	f := newFixture(t)
	st := f.seedStock(t, 1000, 200, map[models.Size]int{models.SizeS: 1})

	require.ErrorIs(t, f.svc.Release(f.ctx, st.ID, models.SizeS, 0), svc.ErrInvalidQuantity)
	require.ErrorIs(t, f.svc.Release(f.ctx, st.ID, models.Size("XXXL"), 1), svc.ErrInvalidSize)
	require.ErrorIs(t, f.svc.Release(f.ctx, 9999, models.SizeS, 1), svc.ErrStockNotFound)

	require.NoError(t, f.svc.Release(f.ctx, st.ID, models.SizeS, 2))
	require.Equal(t, 3, f.quantity(t, st.ID, models.SizeS))

	_, err := f.svc.CheckAvailable(f.ctx, 9999, models.SizeS, 1)
	require.ErrorIs(t, err, svc.ErrStockNotFound)
}

func TestInventory_SetQuantities(t *testing.T) {
	f := newFixture(t)
	st := f.seedStock(t, 1000, 200, nil)

	_, err := f.svc.SetQuantities(f.ctx, st.ID, map[models.Size]int{models.SizeXL: -1})
	require.ErrorIs(t, err, svc.ErrInvalidQuantity)

	out, err := f.svc.SetQuantities(f.ctx, st.ID, map[models.Size]int{models.SizeXL: 4, models.SizeXXL: 2})
	require.NoError(t, err)
	require.Equal(t, 6, out.TotalQuantity())
	require.NotNil(t, out.Product)
}

func TestInventory_InactiveStockIsUnavailable(t *testing.T) {
	f := newFixture(t)
	st := f.store.AddStock(models.Stock{M: 5})

	ok, err := f.svc.CheckAvailable(f.ctx, st.ID, models.SizeM, 1)
	require.NoError(t, err)
	require.False(t, ok)
	require.ErrorIs(t, f.svc.Reserve(f.ctx, st.ID, models.SizeM, 1), svc.ErrInsufficientStock)
}
