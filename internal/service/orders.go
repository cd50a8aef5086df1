package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/metrics"
	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/repository"
	"shop-fulfillment/internal/shipping"
)

type CreateOrderInput struct {
	CustomerID      string               `json:"-" validate:"required"`
	Email           string               `json:"email" validate:"omitempty,email"`
	DeliveryType    models.DeliveryType  `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	BranchName      string               `json:"branch_name" validate:"required_if=DeliveryType pickup,max=255"`
	DeliveryName    string               `json:"delivery_name" validate:"required,max=255"`
	DeliveryPhone   string               `json:"delivery_phone" validate:"required,phone"`
	DeliveryAddress string               `json:"delivery_address" validate:"required_if=DeliveryType delivery,max=500"`
	DeliveryCity    string               `json:"delivery_city" validate:"required_if=DeliveryType delivery,max=255"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card"`
}

type OrderSummary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
	TotalWeight int             `json:"total_weight"`
	ItemCount   int             `json:"item_count"`
}

type OrderResult struct {
	Order   models.Order `json:"order"`
	Summary OrderSummary `json:"summary"`
}

func newOrderResult(o models.Order) OrderResult {
	sum := OrderSummary{
		Subtotal:    o.Subtotal,
		ShippingFee: o.ShippingFee,
		Total:       o.Total,
		TotalWeight: o.TotalWeight,
	}
	for _, l := range o.Lines {
		sum.ItemCount += l.Quantity
	}
	return OrderResult{Order: o, Summary: sum}
}

const createOrderAttempts = 3

// CreateOrder converts the customer's active cart into an order. Every line is
// reserved in the same transaction that persists the order, so either all
// buckets are decremented and the order exists, or nothing changed. The cart
// itself is cleared only once payment is confirmed.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderResult, error) {
	in.Email = s.sanitize(in.Email)
	in.BranchName = s.sanitize(in.BranchName)
	in.DeliveryName = s.sanitize(in.DeliveryName)
	in.DeliveryPhone = s.sanitize(in.DeliveryPhone)
	in.DeliveryAddress = s.sanitize(in.DeliveryAddress)
	in.DeliveryCity = s.sanitize(in.DeliveryCity)
	if err := s.validate(in); err != nil {
		return OrderResult{}, err
	}

	lines, err := s.repo.ActiveLines(in.CustomerID)
	if err != nil {
		return OrderResult{}, err
	}
	if len(lines) == 0 {
		return OrderResult{}, ErrEmptyCart
	}

	var branch *models.Branch
	if in.DeliveryType == models.DeliveryTypePickup {
		b, err := s.repo.FindBranchByName(in.BranchName)
		if errors.Is(err, models.ErrNotFound) {
			return OrderResult{}, fmt.Errorf("%w: %s", ErrBranchNotFound, in.BranchName)
		}
		if err != nil {
			return OrderResult{}, err
		}
		branch = &b
	}

	courier, err := s.repo.ActiveCourier()
	if err != nil {
		return OrderResult{}, err
	}

	order, err := buildOrder(in, branch, lines, courier)
	if err != nil {
		return OrderResult{}, err
	}

	for attempt := 1; ; attempt++ {
		err = s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
			if err := s.assignIdentifiers(tx, &order); err != nil {
				return err
			}
			for _, l := range byStockRow(order.Lines) {
				if err := reserve(tx, l.StockID, l.Size, l.Quantity); err != nil {
					return err
				}
			}
			return tx.CreateOrder(&order)
		})
		if !errors.Is(err, models.ErrDuplicate) || attempt == createOrderAttempts {
			break
		}
		logrus.WithField("attempt", attempt).Warn("order identifier collided, retrying checkout")
		order.ID = 0
		for i := range order.Lines {
			order.Lines[i].ID, order.Lines[i].OrderID = 0, 0
		}
	}
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.ReservationFailures.Inc()
		}
		return OrderResult{}, err
	}

	order.Branch = branch
	metrics.OrdersCreated.WithLabelValues(string(order.DeliveryType), string(order.PaymentMethod)).Inc()
	logrus.WithFields(logrus.Fields{
		"order":    order.OrderNumber,
		"customer": order.CustomerID,
		"total":    order.Total.StringFixed(2),
	}).Info("order created")
	return newOrderResult(order), nil
}

func buildOrder(in CreateOrderInput, branch *models.Branch, lines []models.CartLine, courier *models.Courier) (models.Order, error) {
	o := models.Order{
		CustomerID:      in.CustomerID,
		Email:           in.Email,
		DeliveryType:    in.DeliveryType,
		DeliveryName:    in.DeliveryName,
		DeliveryPhone:   in.DeliveryPhone,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryCity:    in.DeliveryCity,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.StatusPending,
		Subtotal:        decimal.Zero,
		Lines:           make([]models.OrderLine, 0, len(lines)),
	}
	if branch != nil {
		o.BranchID = &branch.ID
	}
	for _, l := range lines {
		if l.Stock == nil || l.Stock.Product == nil {
			return models.Order{}, fmt.Errorf("%w: cart item %d", ErrStockNotFound, l.ID)
		}
		p := l.Stock.Product
		total := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		o.Lines = append(o.Lines, models.OrderLine{
			StockID:      l.StockID,
			ProductName:  p.Name,
			ProductImage: p.MainImage,
			Size:         l.Size,
			Quantity:     l.Quantity,
			SellingPrice: p.Price,
			CostPrice:    p.CostPrice,
			UnitWeight:   p.Weight,
			Total:        total,
		})
		o.Subtotal = o.Subtotal.Add(total)
	}
	o.TotalWeight = shipping.TotalWeight(lines)
	o.ShippingFee = shipping.ComputeFee(o.DeliveryType, o.TotalWeight, courier)
	o.Total = o.Subtotal.Add(o.ShippingFee)
	return o, nil
}

const identifierAttempts = 10

func (s *Service) assignIdentifiers(tx *repository.Repository, o *models.Order) error {
	number, err := s.uniqueToken(orderNumberPrefix, orderNumberLength, tx.OrderNumberExists)
	if err != nil {
		return err
	}
	o.OrderNumber = number
	o.PickupID = nil
	if o.DeliveryType == models.DeliveryTypePickup {
		pid, err := s.uniqueToken(pickupIDPrefix, pickupIDLength, tx.PickupIDExists)
		if err != nil {
			return err
		}
		o.PickupID = &pid
	}
	return nil
}

func (s *Service) uniqueToken(prefix string, n int, exists func(string) (bool, error)) (string, error) {
	for i := 0; i < identifierAttempts; i++ {
		candidate := prefix + s.token(n)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free %s identifier after %d attempts", prefix, identifierAttempts)
}

func (s *Service) GetOrder(_ context.Context, customerID string, orderID uint) (OrderResult, error) {
	o, err := s.repo.GetOrder(orderID)
	if errors.Is(err, models.ErrNotFound) {
		return OrderResult{}, ErrOrderNotFound
	}
	if err != nil {
		return OrderResult{}, err
	}
	if o.CustomerID != customerID {
		// do not reveal other customers' order ids
		return OrderResult{}, ErrOrderNotFound
	}
	return newOrderResult(o), nil
}

func (s *Service) ListCustomerOrders(_ context.Context, customerID string) ([]OrderResult, error) {
	orders, err := s.repo.ListCustomerOrders(customerID)
	if err != nil {
		return nil, err
	}
	return toResults(orders), nil
}

func (s *Service) ListOrders(_ context.Context) ([]OrderResult, error) {
	orders, err := s.repo.ListOrders()
	if err != nil {
		return nil, err
	}
	return toResults(orders), nil
}

func toResults(orders []models.Order) []OrderResult {
	out := make([]OrderResult, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResult(o))
	}
	return out
}
