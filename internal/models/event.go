package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderConfirmed      EventType = "order.confirmed"
	EventOrderCancelled      EventType = "order.cancelled"
	EventOrderShipped        EventType = "order.shipped"
	EventOrderReadyForPickup EventType = "order.ready_for_pickup"
	EventOrderPickedUp       EventType = "order.picked_up"
	EventOrderDelivered      EventType = "order.delivered"
)

// OrderEvent is the message published for every lifecycle transition that notifies the customer.
type OrderEvent struct {
	Type               EventType       `json:"type"`
	OrderID            uint            `json:"order_id"`
	OrderNumber        string          `json:"order_number"`
	CustomerID         string          `json:"customer_id"`
	Email              string          `json:"email,omitempty"`
	DeviceToken        string          `json:"device_token,omitempty"`
	Name               string          `json:"name"`
	DeliveryType       DeliveryType    `json:"delivery_type"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	Address            string          `json:"address,omitempty"`
	City               string          `json:"city,omitempty"`
	BranchName         string          `json:"branch_name,omitempty"`
	PickupID           string          `json:"pickup_id,omitempty"`
	TrackingNumber     string          `json:"tracking_number,omitempty"`
	CourierName        string          `json:"courier_name,omitempty"`
	CourierDescription string          `json:"courier_description,omitempty"`
	Items              []EventItem     `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	ShippingFee        decimal.Decimal `json:"shipping_fee"`
	Total              decimal.Decimal `json:"total"`
	OrderDate          time.Time       `json:"order_date"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

type EventItem struct {
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Size     Size            `json:"size"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// NewOrderEvent snapshots an order for notification fan-out.
func NewOrderEvent(t EventType, o *Order, now time.Time) OrderEvent {
	ev := OrderEvent{
		Type:           t,
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		Email:          o.Email,
		Name:           o.DeliveryName,
		DeliveryType:   o.DeliveryType,
		PaymentMethod:  o.PaymentMethod,
		Address:        o.DeliveryAddress,
		City:           o.DeliveryCity,
		TrackingNumber: o.TrackingNumber,
		Subtotal:       o.Subtotal,
		ShippingFee:    o.ShippingFee,
		Total:          o.Total,
		OrderDate:      o.CreatedAt,
		OccurredAt:     now,
	}
	if o.PickupID != nil {
		ev.PickupID = *o.PickupID
	}
	if o.Branch != nil {
		ev.BranchName = o.Branch.Name
	}
	if o.Courier != nil {
		ev.CourierName = o.Courier.Name
		ev.CourierDescription = o.Courier.Description
	}
	ev.Items = make([]EventItem, 0, len(o.Lines))
	for _, l := range o.Lines {
		ev.Items = append(ev.Items, EventItem{
			Name:     l.ProductName,
			Image:    l.ProductImage,
			Size:     l.Size,
			Quantity: l.Quantity,
			Price:    l.SellingPrice,
			Total:    l.Total,
		})
	}
	return ev
}
