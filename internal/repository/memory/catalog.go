package memory

import (
	"sort"

	"shop-fulfillment/internal/models"
)

func (r *repo) FindBranchByName(name string) (models.Branch, error) {
	st, done := r.begin()
	defer done()
	for _, b := range st.branches {
		if b.Name == name && b.Active && b.DeletedAt == nil {
			return b, nil
		}
	}
	return models.Branch{}, models.ErrNotFound
}

func (r *repo) ActiveCourier() (*models.Courier, error) {
	st, done := r.begin()
	defer done()
	var best *models.Courier
	for _, c := range st.couriers {
		if c.Active && c.DeletedAt == nil && (best == nil || c.ID < best.ID) {
			c := c
			best = &c
		}
	}
	return best, nil
}

func (r *repo) GetCourier(id uint) (models.Courier, error) {
	st, done := r.begin()
	defer done()
	c, ok := st.couriers[id]
	if !ok || c.DeletedAt != nil {
		return models.Courier{}, models.ErrNotFound
	}
	return c, nil
}

func (r *repo) ListCouriers() ([]models.Courier, error) {
	st, done := r.begin()
	defer done()
	out := make([]models.Courier, 0, len(st.couriers))
	for _, c := range st.couriers {
		if c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *repo) CreateCourier(c *models.Courier) error {
	st, done := r.begin()
	defer done()
	if c.Active {
		st.deactivateCouriers(0)
	}
	c.ID = st.nextID()
	c.CreatedAt, c.UpdatedAt = r.store.now(), r.store.now()
	st.couriers[c.ID] = *c
	return nil
}

func (r *repo) SetCourierActive(id uint, active bool) (models.Courier, error) {
	st, done := r.begin()
	defer done()
	c, ok := st.couriers[id]
	if !ok || c.DeletedAt != nil {
		return models.Courier{}, models.ErrNotFound
	}
	if active {
		st.deactivateCouriers(id)
	}
	c.Active = active
	c.UpdatedAt = r.store.now()
	st.couriers[id] = c
	return c, nil
}

func (r *repo) UpdateCourier(c *models.Courier) error {
	st, done := r.begin()
	defer done()
	cur, ok := st.couriers[c.ID]
	if !ok || cur.DeletedAt != nil {
		return models.ErrNotFound
	}
	if c.Active {
		st.deactivateCouriers(c.ID)
	}
	cur.Name = c.Name
	cur.Description = c.Description
	cur.BaseCharge = c.BaseCharge
	cur.ExtraPerKg = c.ExtraPerKg
	cur.Active = c.Active
	cur.UpdatedAt = r.store.now()
	st.couriers[c.ID] = cur
	*c = cur
	return nil
}

func (r *repo) DeleteCourier(id uint) error {
	st, done := r.begin()
	defer done()
	c, ok := st.couriers[id]
	if !ok || c.DeletedAt != nil {
		return models.ErrNotFound
	}
	now := r.store.now()
	c.DeletedAt = &now
	c.Active = false
	st.couriers[id] = c
	return nil
}

func (s *state) deactivateCouriers(except uint) {
	for id, c := range s.couriers {
		if id != except && c.Active {
			c.Active = false
			s.couriers[id] = c
		}
	}
}

func (r *repo) GetCustomer(id string) (models.Customer, error) {
	st, done := r.begin()
	defer done()
	c, ok := st.customers[id]
	if !ok {
		return models.Customer{}, models.ErrNotFound
	}
	return c, nil
}

func (r *repo) SaveDeviceToken(id, email, token string) error {
	st, done := r.begin()
	defer done()
	now := r.store.now()
	c, ok := st.customers[id]
	if !ok {
		c = models.Customer{ID: id, CreatedAt: now}
	}
	if email != "" {
		c.Email = email
	}
	c.DeviceToken = token
	c.UpdatedAt = now
	st.customers[id] = c
	return nil
}

func (r *repo) CreatePaymentLog(l *models.PaymentLog) error {
	st, done := r.begin()
	defer done()
	l.ID = st.nextID()
	l.CreatedAt = r.store.now()
	st.paymentLogs = append(st.paymentLogs, *l)
	return nil
}
