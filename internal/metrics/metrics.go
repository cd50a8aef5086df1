// Package metrics holds the process-wide Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_orders_created_total",
		Help: "Orders persisted, by delivery type and payment method.",
	}, []string{"delivery_type", "payment_method"})

	PaymentCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_payment_callbacks_total",
		Help: "Payment gateway callbacks by outcome.",
	}, []string{"outcome"})

	ReservationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_stock_reservation_failures_total",
		Help: "Checkouts aborted because a size bucket ran out.",
	})

	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_notifications_dropped_total",
		Help: "Lifecycle events dropped because the dispatch queue was full or publishing failed.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_notifications_sent_total",
		Help: "Notifications delivered by the notifier, by channel and result.",
	}, []string{"channel", "result"})
)
