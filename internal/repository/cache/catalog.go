package cache

import "shop-fulfillment/internal/models"

type branchSource interface {
	FindBranchByName(name string) (models.Branch, error)
}

// BranchCache memoizes branch lookups by name. Misses are not cached.
type BranchCache struct {
	next branchSource
	kv   KV[models.Branch]
}

func NewBranchCache(next branchSource, kv KV[models.Branch]) *BranchCache {
	return &BranchCache{next: next, kv: kv}
}

func (c *BranchCache) FindBranchByName(name string) (models.Branch, error) {
	if b, ok := c.kv.Get(name); ok {
		return b, nil
	}
	b, err := c.next.FindBranchByName(name)
	if err != nil {
		return b, err
	}
	c.kv.Put(name, b)
	return b, nil
}

type courierSource interface {
	ActiveCourier() (*models.Courier, error)
	GetCourier(id uint) (models.Courier, error)
	ListCouriers() ([]models.Courier, error)
	CreateCourier(c *models.Courier) error
	SetCourierActive(id uint, active bool) (models.Courier, error)
	UpdateCourier(c *models.Courier) error
	DeleteCourier(id uint) error
}

const activeCourierKey = "courier:active"

// CourierCache keeps the active courier in process memory. A nil entry
// records that no courier is active. Every write drops the entry.
type CourierCache struct {
	courierSource
	kv KV[*models.Courier]
}

func NewCourierCache(next courierSource, kv KV[*models.Courier]) *CourierCache {
	return &CourierCache{courierSource: next, kv: kv}
}

func (c *CourierCache) ActiveCourier() (*models.Courier, error) {
	if v, ok := c.kv.Get(activeCourierKey); ok {
		return clone(v), nil
	}
	v, err := c.courierSource.ActiveCourier()
	if err != nil {
		return nil, err
	}
	c.kv.Put(activeCourierKey, clone(v))
	return v, nil
}

func (c *CourierCache) CreateCourier(in *models.Courier) error {
	defer c.kv.Delete(activeCourierKey)
	return c.courierSource.CreateCourier(in)
}

func (c *CourierCache) SetCourierActive(id uint, active bool) (models.Courier, error) {
	defer c.kv.Delete(activeCourierKey)
	return c.courierSource.SetCourierActive(id, active)
}

func (c *CourierCache) UpdateCourier(in *models.Courier) error {
	defer c.kv.Delete(activeCourierKey)
	return c.courierSource.UpdateCourier(in)
}

func (c *CourierCache) DeleteCourier(id uint) error {
	defer c.kv.Delete(activeCourierKey)
	return c.courierSource.DeleteCourier(id)
}

func clone(c *models.Courier) *models.Courier {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
