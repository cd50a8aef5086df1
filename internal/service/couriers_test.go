package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	svc "shop-fulfillment/internal/service"
)

func TestCouriers_CreateAndToggleKeepSingleActive(t *testing.T) {
	f := newFixture(t)
	first := f.seedCourier(t, 350, 100)

	second, err := f.svc.CreateCourier(f.ctx, svc.CourierInput{
		Name:        "  <b>Pronto</b> ",
		Description: "https://pronto.lk/track/",
		BaseCharge:  decimal.NewFromInt(400),
		ExtraPerKg:  decimal.NewFromInt(150),
		Active:      true,
	})
	require.NoError(t, err)
	require.Equal(t, "Pronto", second.Name)

	active, err := f.repo.ActiveCourier()
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, second.ID, active.ID)

	toggled, err := f.svc.ToggleCourierActive(f.ctx, first.ID)
	require.NoError(t, err)
	require.True(t, toggled.Active)

	list, err := f.svc.ListCouriers(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	activeCount := 0
	for _, c := range list {
		if c.Active {
			activeCount++
			require.Equal(t, first.ID, c.ID)
		}
	}
	require.Equal(t, 1, activeCount)

	toggled, err = f.svc.ToggleCourierActive(f.ctx, first.ID)
	require.NoError(t, err)
	require.False(t, toggled.Active)

	active, err = f.repo.ActiveCourier()
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestCouriers_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCourier(f.ctx, svc.CourierInput{BaseCharge: decimal.NewFromInt(100)})
	require.ErrorIs(t, err, svc.ErrValidation)

	_, err = f.svc.CreateCourier(f.ctx, svc.CourierInput{Name: "Domex", BaseCharge: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, svc.ErrValidation)

	_, err = f.svc.ToggleCourierActive(f.ctx, 404)
	require.ErrorIs(t, err, svc.ErrCourierNotFound)
	require.Equal(t, svc.KindNotFound, svc.KindOf(err))
}

func TestRegisterDevice(t *testing.T) {
	f := newFixture(t)

	require.ErrorIs(t, f.svc.RegisterDevice(f.ctx, "", "a@example.com", "tok"), svc.ErrUnauthenticated)
	require.ErrorIs(t, f.svc.RegisterDevice(f.ctx, customerID, "a@example.com", ""), svc.ErrValidation)

	require.NoError(t, f.svc.RegisterDevice(f.ctx, customerID, "a@example.com", "tok-1"))
	require.NoError(t, f.svc.RegisterDevice(f.ctx, customerID, "", "tok-2"))

	c, err := f.repo.GetCustomer(customerID)
	require.NoError(t, err)
	require.Equal(t, "tok-2", c.DeviceToken)
	require.Equal(t, "a@example.com", c.Email)
}

func TestCouriers_UpdateKeepsSingleActive(t *testing.T) {
	f := newFixture(t)
	first := f.seedCourier(t, 350, 100)
	second, err := f.svc.CreateCourier(f.ctx, svc.CourierInput{
		Name:       "Pronto",
		BaseCharge: decimal.NewFromInt(400),
		ExtraPerKg: decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	require.False(t, second.Active)

	charge := decimal.NewFromInt(375)
	updated, err := f.svc.UpdateCourier(f.ctx, first.ID, svc.CourierPatch{BaseCharge: &charge})
	require.NoError(t, err)
	require.True(t, updated.BaseCharge.Equal(charge))
	require.True(t, updated.ExtraPerKg.Equal(decimal.NewFromInt(100)), "untouched fields keep their value")
	require.Equal(t, "Domex", updated.Name)

	active, err := f.repo.ActiveCourier()
	require.NoError(t, err)
	require.True(t, active.BaseCharge.Equal(charge))

	on := true
	updated, err = f.svc.UpdateCourier(f.ctx, second.ID, svc.CourierPatch{Active: &on})
	require.NoError(t, err)
	require.True(t, updated.Active)

	list, err := f.svc.ListCouriers(f.ctx)
	require.NoError(t, err)
	for _, c := range list {
		require.Equal(t, c.ID == second.ID, c.Active, "courier %d", c.ID)
	}
}

func TestCouriers_UpdateRejections(t *testing.T) {
	f := newFixture(t)
	c := f.seedCourier(t, 350, 100)

	negative := decimal.NewFromInt(-5)
	_, err := f.svc.UpdateCourier(f.ctx, c.ID, svc.CourierPatch{ExtraPerKg: &negative})
	require.ErrorIs(t, err, svc.ErrValidation)

	blank := "   "
	_, err = f.svc.UpdateCourier(f.ctx, c.ID, svc.CourierPatch{Name: &blank})
	require.ErrorIs(t, err, svc.ErrValidation)

	got, err := f.repo.GetCourier(c.ID)
	require.NoError(t, err)
	require.True(t, got.ExtraPerKg.Equal(decimal.NewFromInt(100)))
	require.Equal(t, "Domex", got.Name)

	_, err = f.svc.UpdateCourier(f.ctx, 404, svc.CourierPatch{})
	require.ErrorIs(t, err, svc.ErrCourierNotFound)
}

func TestCouriers_Delete(t *testing.T) {
	f := newFixture(t)
	c := f.seedCourier(t, 350, 100)

	require.NoError(t, f.svc.DeleteCourier(f.ctx, c.ID))

	active, err := f.repo.ActiveCourier()
	require.NoError(t, err)
	require.Nil(t, active)
	list, err := f.svc.ListCouriers(f.ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	require.ErrorIs(t, f.svc.DeleteCourier(f.ctx, c.ID), svc.ErrCourierNotFound)
	_, err = f.svc.ToggleCourierActive(f.ctx, c.ID)
	require.ErrorIs(t, err, svc.ErrCourierNotFound)
}
