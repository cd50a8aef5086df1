package rediscache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shop-fulfillment/internal/models"
)

type sourceStub struct {
	calls  int
	active *models.Courier
	err    error
}

func (s *sourceStub) ActiveCourier() (*models.Courier, error) {
	s.calls++
	return s.active, s.err
}
func (s *sourceStub) GetCourier(id uint) (models.Courier, error) { return models.Courier{ID: id}, nil }
func (s *sourceStub) ListCouriers() ([]models.Courier, error)     { return nil, nil }
func (s *sourceStub) CreateCourier(c *models.Courier) error {
	s.active = c
	return nil
}
func (s *sourceStub) SetCourierActive(id uint, active bool) (models.Courier, error) {
	s.active = nil
	return models.Courier{ID: id, Active: active}, nil
}
func (s *sourceStub) UpdateCourier(c *models.Courier) error {
	s.active = c
	return nil
}
func (s *sourceStub) DeleteCourier(uint) error {
	s.active = nil
	return nil
}

func newCache(t *testing.T, src *sourceStub) (*CourierCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCourierCache(client, src, time.Minute), mr
}

func TestCourierCache_ReadThroughAndHit(t *testing.T) {
	src := &sourceStub{active: &models.Courier{ID: 1, Name: "Domex", BaseCharge: decimal.NewFromInt(400), ExtraPerKg: decimal.NewFromInt(100), Active: true}}
	cc, mr := newCache(t, src)

	c, err := cc.ActiveCourier()
	require.NoError(t, err)
	require.Equal(t, "Domex", c.Name)
	require.True(t, mr.Exists(activeCourierKey))

	c, err = cc.ActiveCourier()
	require.NoError(t, err)
	require.True(t, c.BaseCharge.Equal(decimal.NewFromInt(400)))
	require.Equal(t, 1, src.calls)
	require.Equal(t, time.Minute, mr.TTL(activeCourierKey))
}

func TestCourierCache_CachesAbsence(t *testing.T) {
	src := &sourceStub{}
	cc, mr := newCache(t, src)

	c, err := cc.ActiveCourier()
	require.NoError(t, err)
	require.Nil(t, c)
	got, err := mr.Get(activeCourierKey)
	require.NoError(t, err)
	require.Equal(t, noCourier, got)

	_, _ = cc.ActiveCourier()
	require.Equal(t, 1, src.calls)
}

func TestCourierCache_WriteInvalidates(t *testing.T) {
	src := &sourceStub{}
	cc, mr := newCache(t, src)

	_, _ = cc.ActiveCourier()
	require.NoError(t, cc.CreateCourier(&models.Courier{ID: 2, Name: "Pronto", Active: true}))
	require.False(t, mr.Exists(activeCourierKey))

	c, err := cc.ActiveCourier()
	require.NoError(t, err)
	require.Equal(t, "Pronto", c.Name)
}

func TestCourierCache_UpdateAndDeleteInvalidate(t *testing.T) {
	src := &sourceStub{active: &models.Courier{ID: 1, Name: "Domex", BaseCharge: decimal.NewFromInt(400), Active: true}}
	cc, mr := newCache(t, src)

	_, _ = cc.ActiveCourier()
	require.True(t, mr.Exists(activeCourierKey))

	require.NoError(t, cc.UpdateCourier(&models.Courier{ID: 1, Name: "Domex", BaseCharge: decimal.NewFromInt(450), Active: true}))
	require.False(t, mr.Exists(activeCourierKey))
	c, err := cc.ActiveCourier()
	require.NoError(t, err)
	require.True(t, c.BaseCharge.Equal(decimal.NewFromInt(450)))

	require.NoError(t, cc.DeleteCourier(1))
	require.False(t, mr.Exists(activeCourierKey))
	c, err = cc.ActiveCourier()
	require.NoError(t, err)
	require.Nil(t, c)
	require.Equal(t, 3, src.calls)
}

func TestCourierCache_RedisDown_FallsBackToSource(t *testing.T) {
	src := &sourceStub{active: &models.Courier{ID: 1, Name: "Domex"}}
	cc, mr := newCache(t, src)
	mr.Close()

	c, err := cc.ActiveCourier()
	require.NoError(t, err)
	require.Equal(t, "Domex", c.Name)
}
