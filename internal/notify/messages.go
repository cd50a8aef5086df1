package notify

import (
	"fmt"
	"strconv"

	"shop-fulfillment/internal/models"
)

type pushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

var pushStatus = map[models.EventType]string{
	models.EventOrderConfirmed:      "confirmed",
	models.EventOrderCancelled:      "cancelled",
	models.EventOrderShipped:        "shipped",
	models.EventOrderReadyForPickup: "ready_for_pickup",
	models.EventOrderPickedUp:       "picked_up",
	models.EventOrderDelivered:      "delivered",
}

func buildPush(ev models.OrderEvent) (pushMessage, bool) {
	status, ok := pushStatus[ev.Type]
	if !ok {
		return pushMessage{}, false
	}
	m := pushMessage{Data: map[string]string{
		"orderId":     strconv.FormatUint(uint64(ev.OrderID), 10),
		"orderNumber": ev.OrderNumber,
		"status":      status,
		"type":        "order_update",
	}}

	switch ev.Type {
	case models.EventOrderConfirmed:
		m.Title = "Order Confirmed"
		m.Body = fmt.Sprintf("Your order #%s has been confirmed.", ev.OrderNumber)
	case models.EventOrderCancelled:
		m.Title = "Order Cancelled"
		m.Body = fmt.Sprintf("Your order #%s has been cancelled.", ev.OrderNumber)
	case models.EventOrderShipped:
		m.Title = "Order Shipped"
		m.Body = fmt.Sprintf("Your order #%s has been shipped. Track your order with number: %s", ev.OrderNumber, ev.TrackingNumber)
		m.Data["tracking_number"] = ev.TrackingNumber
	case models.EventOrderReadyForPickup:
		m.Title = "Order Ready for Pickup"
		m.Body = fmt.Sprintf("Your order #%s is ready for pickup. Pickup ID: %s", ev.OrderNumber, ev.PickupID)
		m.Data["pickup_id"] = ev.PickupID
	case models.EventOrderPickedUp:
		m.Title = "Order Picked Up"
		m.Body = fmt.Sprintf("Your order #%s has been picked up.", ev.OrderNumber)
	case models.EventOrderDelivered:
		m.Title = "Order Delivered"
		m.Body = fmt.Sprintf("Your order #%s has been delivered successfully!", ev.OrderNumber)
	}
	return m, true
}
