package memory

import (
	"sort"

	"shop-fulfillment/internal/models"
)

func (r *repo) OrderNumberExists(number string) (bool, error) {
	st, done := r.begin()
	defer done()
	for _, o := range st.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *repo) PickupIDExists(pickupID string) (bool, error) {
	st, done := r.begin()
	defer done()
	for _, o := range st.orders {
		if o.PickupID != nil && *o.PickupID == pickupID {
			return true, nil
		}
	}
	return false, nil
}

func (r *repo) CreateOrder(o *models.Order) error {
	st, done := r.begin()
	defer done()
	for _, existing := range st.orders {
		if existing.OrderNumber == o.OrderNumber {
			return models.ErrDuplicate
		}
		if o.PickupID != nil && existing.PickupID != nil && *existing.PickupID == *o.PickupID {
			return models.ErrDuplicate
		}
	}
	now := r.store.now()
	o.ID = st.nextID()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Lines {
		o.Lines[i].ID = st.nextID()
		o.Lines[i].OrderID = o.ID
		o.Lines[i].CreatedAt, o.Lines[i].UpdatedAt = now, now
	}
	stored := *o
	stored.Branch, stored.Courier = nil, nil
	stored.Lines = append([]models.OrderLine(nil), o.Lines...)
	st.orders[o.ID] = stored
	return nil
}

func (s *state) hydrateOrder(o *models.Order) {
	o.Lines = append([]models.OrderLine(nil), o.Lines...)
	o.Branch, o.Courier = nil, nil
	if o.BranchID != nil {
		if b, ok := s.branches[*o.BranchID]; ok {
			o.Branch = &b
		}
	}
	if o.CourierID != nil {
		if c, ok := s.couriers[*o.CourierID]; ok {
			o.Courier = &c
		}
	}
}

func (r *repo) GetOrder(id uint) (models.Order, error) {
	st, done := r.begin()
	defer done()
	o, ok := st.orders[id]
	if !ok || o.DeletedAt != nil {
		return models.Order{}, models.ErrNotFound
	}
	st.hydrateOrder(&o)
	return o, nil
}

// GetOrderForUpdate needs no row lock: the store is already serialized.
func (r *repo) GetOrderForUpdate(id uint) (models.Order, error) {
	return r.GetOrder(id)
}

func (r *repo) GetOrderByNumberForUpdate(number string) (models.Order, error) {
	st, done := r.begin()
	defer done()
	for _, o := range st.orders {
		if o.OrderNumber == number && o.DeletedAt == nil {
			st.hydrateOrder(&o)
			return o, nil
		}
	}
	return models.Order{}, models.ErrNotFound
}

func (r *repo) SaveOrder(o *models.Order) error {
	st, done := r.begin()
	defer done()
	cur, ok := st.orders[o.ID]
	if !ok || cur.DeletedAt != nil {
		return models.ErrNotFound
	}
	cur.Status = o.Status
	cur.PaymentStatus = o.PaymentStatus
	cur.TransactionID = o.TransactionID
	cur.CourierID = o.CourierID
	cur.TrackingNumber = o.TrackingNumber
	cur.ProcessedBy = o.ProcessedBy
	cur.StockReleasedAt = o.StockReleasedAt
	cur.PickedUpAt = o.PickedUpAt
	cur.DeliveredAt = o.DeliveredAt
	cur.UpdatedAt = r.store.now()
	st.orders[o.ID] = cur
	o.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *repo) DeleteOrder(id uint) error {
	st, done := r.begin()
	defer done()
	o, ok := st.orders[id]
	if !ok || o.DeletedAt != nil {
		return models.ErrNotFound
	}
	now := r.store.now()
	o.DeletedAt = &now
	o.Lines = append([]models.OrderLine(nil), o.Lines...)
	for i := range o.Lines {
		o.Lines[i].DeletedAt = &now
	}
	st.orders[id] = o
	return nil
}

func (r *repo) listOrders(keep func(models.Order) bool) []models.Order {
	st, done := r.begin()
	defer done()
	var out []models.Order
	for _, o := range st.orders {
		if o.DeletedAt == nil && keep(o) {
			st.hydrateOrder(&o)
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *repo) ListCustomerOrders(customerID string) ([]models.Order, error) {
	return r.listOrders(func(o models.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *repo) ListOrders() ([]models.Order, error) {
	return r.listOrders(func(models.Order) bool { return true }), nil
}
