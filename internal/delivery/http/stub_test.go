package http_test

import (
	"context"

	"shop-fulfillment/internal/auth"
	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/payhere"
	"shop-fulfillment/internal/service"
)

type svcStub struct {
	getStock      func(id uint) (models.Stock, error)
	setQuantities func(id uint, q map[models.Size]int) (models.Stock, error)

	view    func(customerID string) (service.CartView, error)
	addItem func(customerID string, stockID uint, size models.Size, qty int) (models.CartLine, error)
	update  func(customerID string, lineID uint, qty int) (service.LineChange, error)
	remove  func(customerID string, lineID uint) (service.Summary, error)
	inc     func(customerID string, lineID uint) (service.LineChange, error)
	dec     func(customerID string, lineID uint) (service.LineChange, error)

	createOrder  func(in service.CreateOrderInput) (service.OrderResult, error)
	getOrder     func(customerID string, id uint) (service.OrderResult, error)
	listMine     func(customerID string) ([]service.OrderResult, error)
	listOrders   func() ([]service.OrderResult, error)
	updateStatus func(id uint, status models.Status, actor string) (models.Order, error)
	cancel       func(id uint, actor string) (models.Order, error)
	ship         func(id uint, tracking string, courierID uint, actor string) (models.Order, error)
	ready        func(id uint, actor string) (models.Order, error)
	pickedUp     func(id uint, actor string) (models.Order, error)
	delivered    func(id uint, actor string) (models.Order, error)
	deleteOrder  func(id uint) error

	reconcile func(cb payhere.Callback) (service.ReconcileResult, error)

	listCouriers  func() ([]models.Courier, error)
	createCourier func(in service.CourierInput) (models.Courier, error)
	toggleCourier func(id uint) (models.Courier, error)
	updateCourier func(id uint, in service.CourierPatch) (models.Courier, error)
	deleteCourier func(id uint) error

	registerDevice func(customerID, email, token string) error
}

func (s *svcStub) services() *service.Services {
	return &service.Services{Inventory: s, Cart: s, Orders: s, Payments: s, Couriers: s, Customers: s}
}

func (s *svcStub) CheckAvailable(context.Context, uint, models.Size, int) (bool, error) {
	return true, nil
}
func (s *svcStub) Reserve(context.Context, uint, models.Size, int) error { return nil }
func (s *svcStub) Release(context.Context, uint, models.Size, int) error { return nil }

func (s *svcStub) GetStock(_ context.Context, id uint) (models.Stock, error) {
	if s.getStock != nil {
		return s.getStock(id)
	}
	return models.Stock{}, nil
}

func (s *svcStub) SetQuantities(_ context.Context, id uint, q map[models.Size]int) (models.Stock, error) {
	if s.setQuantities != nil {
		return s.setQuantities(id, q)
	}
	return models.Stock{}, nil
}

func (s *svcStub) View(_ context.Context, customerID string) (service.CartView, error) {
	if s.view != nil {
		return s.view(customerID)
	}
	return service.CartView{}, nil
}

func (s *svcStub) AddItem(_ context.Context, customerID string, stockID uint, size models.Size, qty int) (models.CartLine, error) {
	if s.addItem != nil {
		return s.addItem(customerID, stockID, size, qty)
	}
	return models.CartLine{}, nil
}

func (s *svcStub) UpdateQuantity(_ context.Context, customerID string, lineID uint, qty int) (service.LineChange, error) {
	if s.update != nil {
		return s.update(customerID, lineID, qty)
	}
	return service.LineChange{}, nil
}

func (s *svcStub) RemoveLine(_ context.Context, customerID string, lineID uint) (service.Summary, error) {
	if s.remove != nil {
		return s.remove(customerID, lineID)
	}
	return service.Summary{}, nil
}

func (s *svcStub) Increment(_ context.Context, customerID string, lineID uint) (service.LineChange, error) {
	if s.inc != nil {
		return s.inc(customerID, lineID)
	}
	return service.LineChange{}, nil
}

func (s *svcStub) Decrement(_ context.Context, customerID string, lineID uint) (service.LineChange, error) {
	if s.dec != nil {
		return s.dec(customerID, lineID)
	}
	return service.LineChange{}, nil
}

func (s *svcStub) CreateOrder(_ context.Context, in service.CreateOrderInput) (service.OrderResult, error) {
	if s.createOrder != nil {
		return s.createOrder(in)
	}
	return service.OrderResult{}, nil
}

func (s *svcStub) GetOrder(_ context.Context, customerID string, id uint) (service.OrderResult, error) {
	if s.getOrder != nil {
		return s.getOrder(customerID, id)
	}
	return service.OrderResult{}, nil
}

func (s *svcStub) ListCustomerOrders(_ context.Context, customerID string) ([]service.OrderResult, error) {
	if s.listMine != nil {
		return s.listMine(customerID)
	}
	return nil, nil
}

func (s *svcStub) ListOrders(context.Context) ([]service.OrderResult, error) {
	if s.listOrders != nil {
		return s.listOrders()
	}
	return nil, nil
}

func (s *svcStub) UpdateStatus(_ context.Context, id uint, status models.Status, actor string) (models.Order, error) {
	if s.updateStatus != nil {
		return s.updateStatus(id, status, actor)
	}
	return models.Order{}, nil
}

func (s *svcStub) CancelOrder(_ context.Context, id uint, actor string) (models.Order, error) {
	if s.cancel != nil {
		return s.cancel(id, actor)
	}
	return models.Order{}, nil
}

func (s *svcStub) MarkShipped(_ context.Context, id uint, tracking string, courierID uint, actor string) (models.Order, error) {
	if s.ship != nil {
		return s.ship(id, tracking, courierID, actor)
	}
	return models.Order{}, nil
}

func (s *svcStub) MarkReadyForPickup(_ context.Context, id uint, actor string) (models.Order, error) {
	if s.ready != nil {
		return s.ready(id, actor)
	}
	return models.Order{}, nil
}

func (s *svcStub) MarkPickedUp(_ context.Context, id uint, actor string) (models.Order, error) {
	if s.pickedUp != nil {
		return s.pickedUp(id, actor)
	}
	return models.Order{}, nil
}

func (s *svcStub) MarkDelivered(_ context.Context, id uint, actor string) (models.Order, error) {
	if s.delivered != nil {
		return s.delivered(id, actor)
	}
	return models.Order{}, nil
}

func (s *svcStub) DeleteOrder(_ context.Context, id uint) error {
	if s.deleteOrder != nil {
		return s.deleteOrder(id)
	}
	return nil
}

func (s *svcStub) ReconcilePayment(_ context.Context, cb payhere.Callback) (service.ReconcileResult, error) {
	if s.reconcile != nil {
		return s.reconcile(cb)
	}
	return service.ReconcileResult{}, nil
}

func (s *svcStub) ListCouriers(context.Context) ([]models.Courier, error) {
	if s.listCouriers != nil {
		return s.listCouriers()
	}
	return nil, nil
}

func (s *svcStub) CreateCourier(_ context.Context, in service.CourierInput) (models.Courier, error) {
	if s.createCourier != nil {
		return s.createCourier(in)
	}
	return models.Courier{}, nil
}

func (s *svcStub) ToggleCourierActive(_ context.Context, id uint) (models.Courier, error) {
	if s.toggleCourier != nil {
		return s.toggleCourier(id)
	}
	return models.Courier{}, nil
}

func (s *svcStub) UpdateCourier(_ context.Context, id uint, in service.CourierPatch) (models.Courier, error) {
	if s.updateCourier != nil {
		return s.updateCourier(id, in)
	}
	return models.Courier{}, nil
}

func (s *svcStub) DeleteCourier(_ context.Context, id uint) error {
	if s.deleteCourier != nil {
		return s.deleteCourier(id)
	}
	return nil
}

func (s *svcStub) RegisterDevice(_ context.Context, customerID, email, token string) error {
	if s.registerDevice != nil {
		return s.registerDevice(customerID, email, token)
	}
	return nil
}

var (
	_ service.Inventory = (*svcStub)(nil)
	_ service.Cart      = (*svcStub)(nil)
	_ service.Orders    = (*svcStub)(nil)
	_ service.Payments  = (*svcStub)(nil)
	_ service.Couriers  = (*svcStub)(nil)
	_ service.Customers = (*svcStub)(nil)
)

// verifierStub accepts exactly one token.
type verifierStub struct {
	token string
	id    auth.Identity
	err   error
}

func (v verifierStub) Verify(_ context.Context, token string) (auth.Identity, error) {
	if v.err != nil {
		return auth.Identity{}, v.err
	}
	if token != v.token {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return v.id, nil
}
