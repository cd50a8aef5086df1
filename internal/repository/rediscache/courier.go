// Package rediscache shares catalog lookups between API instances.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/models"
)

const (
	activeCourierKey = "shop:courier:active"
	noCourier        = "none"
	opTimeout        = 200 * time.Millisecond
)

type courierSource interface {
	ActiveCourier() (*models.Courier, error)
	GetCourier(id uint) (models.Courier, error)
	ListCouriers() ([]models.Courier, error)
	CreateCourier(c *models.Courier) error
	SetCourierActive(id uint, active bool) (models.Courier, error)
	UpdateCourier(c *models.Courier) error
	DeleteCourier(id uint) error
}

// CourierCache is a cache-aside decorator for the active courier. Redis
// failures degrade to the wrapped source instead of failing the lookup.
type CourierCache struct {
	courierSource
	client *redis.Client
	ttl    time.Duration
}

func NewCourierCache(client *redis.Client, next courierSource, ttl time.Duration) *CourierCache {
	return &CourierCache{courierSource: next, client: client, ttl: ttl}
}

func (c *CourierCache) ActiveCourier() (*models.Courier, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, activeCourierKey).Result()
	switch {
	case err == nil:
		if raw == noCourier {
			return nil, nil
		}
		var out models.Courier
		if jerr := json.Unmarshal([]byte(raw), &out); jerr == nil {
			return &out, nil
		}
		logrus.WithField("key", activeCourierKey).Warn("discarding undecodable courier cache entry")
	case !errors.Is(err, redis.Nil):
		logrus.WithError(err).Warn("redis get active courier")
	}

	v, err := c.courierSource.ActiveCourier()
	if err != nil {
		return nil, err
	}
	c.store(ctx, v)
	return v, nil
}

func (c *CourierCache) store(ctx context.Context, v *models.Courier) {
	payload := noCourier
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return
		}
		payload = string(b)
	}
	if err := c.client.Set(ctx, activeCourierKey, payload, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("redis set active courier")
	}
}

func (c *CourierCache) invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.client.Del(ctx, activeCourierKey).Err(); err != nil {
		logrus.WithError(err).Warn("redis invalidate active courier")
	}
}

func (c *CourierCache) CreateCourier(in *models.Courier) error {
	defer c.invalidate()
	return c.courierSource.CreateCourier(in)
}

func (c *CourierCache) SetCourierActive(id uint, active bool) (models.Courier, error) {
	defer c.invalidate()
	return c.courierSource.SetCourierActive(id, active)
}

func (c *CourierCache) UpdateCourier(in *models.Courier) error {
	defer c.invalidate()
	return c.courierSource.UpdateCourier(in)
}

func (c *CourierCache) DeleteCourier(id uint) error {
	defer c.invalidate()
	return c.courierSource.DeleteCourier(id)
}
