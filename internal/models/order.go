package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Order struct {
	ID              uint            `json:"id" gorm:"primary_key"`
	OrderNumber     string          `json:"order_number" gorm:"type:varchar(20);unique_index;not null"`
	PickupID        *string         `json:"pickup_id" gorm:"type:varchar(20);unique_index"`
	CustomerID      string          `json:"customer_id" gorm:"index;not null"`
	Email           string          `json:"email"`
	DeliveryType    DeliveryType    `json:"delivery_type" gorm:"type:varchar(10);not null"`
	BranchID        *uint           `json:"branch_id"`
	Branch          *Branch         `json:"branch,omitempty" gorm:"foreignkey:BranchID"`
	DeliveryName    string          `json:"delivery_name"`
	DeliveryPhone   string          `json:"delivery_phone"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryCity    string          `json:"delivery_city"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(10)"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(10);not null;default:'pending'"`
	Status          Status          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	CourierID       *uint           `json:"courier_id"`
	Courier         *Courier        `json:"courier,omitempty" gorm:"foreignkey:CourierID"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	ProcessedBy     string          `json:"processed_by,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal `json:"shipping_fee" gorm:"type:numeric(12,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	TotalWeight     int             `json:"total_weight"`
	StockReleasedAt *time.Time      `json:"-"`
	PickedUpAt      *time.Time      `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Lines           []OrderLine     `json:"items" gorm:"foreignkey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"-" sql:"index"`
}

// OrderLine is a snapshot of the catalog at checkout time.
type OrderLine struct {
	ID           uint            `json:"id" gorm:"primary_key"`
	OrderID      uint            `json:"-" gorm:"index;not null"`
	StockID      uint            `json:"stock_id" gorm:"not null"`
	ProductName  string          `json:"product_name" gorm:"not null"`
	ProductImage string          `json:"product_image"`
	Size         Size            `json:"size" gorm:"type:varchar(3);not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	SellingPrice decimal.Decimal `json:"selling_price" gorm:"type:numeric(10,2);not null"`
	CostPrice    decimal.Decimal `json:"-" gorm:"type:numeric(10,2);not null"`
	UnitWeight   int             `json:"unit_weight"`
	Total        decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"-" sql:"index"`
}

func (o *Order) IsPaid() bool { return o.PaymentStatus == PaymentStatusPaid }

func (o *Order) IsPickup() bool { return o.DeliveryType == DeliveryTypePickup }

// AwaitingPayment reports whether a card order has not been paid yet.
func (o *Order) AwaitingPayment() bool {
	return o.PaymentMethod == PaymentMethodCard && !o.IsPaid()
}

// StockReserved reports whether the order still holds its inventory reservation.
func (o *Order) StockReserved() bool { return o.StockReleasedAt == nil }
