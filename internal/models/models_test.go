package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	require.True(t, CanTransition(StatusPending, StatusConfirmed))
	require.True(t, CanTransition(StatusShipped, StatusDelivered))
	require.True(t, CanTransition(StatusReadyForPickup, StatusPickedUp))
	require.False(t, CanTransition(StatusPending, StatusDelivered))
	require.False(t, CanTransition(StatusDelivered, StatusCancelled))
	require.False(t, CanTransition(StatusCancelled, StatusPending))

	require.True(t, StatusShipped.Cancellable())
	require.False(t, StatusDelivered.Cancellable())
	require.False(t, StatusPickedUp.Cancellable())

	require.True(t, StatusCancelled.Terminal())
	require.True(t, StatusCompleted.Terminal())
	require.False(t, StatusPending.Terminal())

	_, ok := ParseStatus("on_hold")
	require.False(t, ok)
	s, ok := ParseStatus("ready_for_pickup")
	require.True(t, ok)
	require.Equal(t, StatusReadyForPickup, s)
}

func TestStockBuckets(t *testing.T) {
	st := Stock{XS: 1, S: 2, M: 3, L: 4, XL: 5, XXL: 6}
	require.Equal(t, 21, st.TotalQuantity())

	for _, size := range Sizes {
		p, ok := st.Bucket(size)
		require.True(t, ok)
		*p = 0
	}
	require.Zero(t, st.TotalQuantity())

	_, ok := st.Bucket("XXXL")
	require.False(t, ok)
	require.Zero(t, st.Quantity("XXXL"))

	size, ok := ParseSize(" xl ")
	require.True(t, ok)
	require.Equal(t, SizeXL, size)
	col, ok := size.Column()
	require.True(t, ok)
	require.Equal(t, "xl_quantity", col)
}

func TestNewOrderEvent(t *testing.T) {
	pickup := "PU-ABC123"
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	o := &Order{
		ID:           3,
		OrderNumber:  "ORD-00000001",
		CustomerID:   "c1",
		DeliveryType: DeliveryTypePickup,
		PickupID:     &pickup,
		Branch:       &Branch{Name: "Kandy"},
		Total:        decimal.RequireFromString("1200"),
		Lines: []OrderLine{{
			ProductName: "Tee", Size: SizeL, Quantity: 2,
			SellingPrice: decimal.RequireFromString("600"), Total: decimal.RequireFromString("1200"),
		}},
	}

	ev := NewOrderEvent(EventOrderReadyForPickup, o, now)
	require.Equal(t, "PU-ABC123", ev.PickupID)
	require.Equal(t, "Kandy", ev.BranchName)
	require.Equal(t, now, ev.OccurredAt)
	require.Len(t, ev.Items, 1)
	require.Equal(t, SizeL, ev.Items[0].Size)

	require.True(t, (&Order{PaymentMethod: PaymentMethodCard}).AwaitingPayment())
	require.False(t, (&Order{PaymentMethod: PaymentMethodCash}).AwaitingPayment())
}
