package cache

import (
	"sync"
	"time"
)

// KV is a string-keyed store with optional per-entry expiry.
type KV[V any] interface {
	Put(key string, v V)
	Get(key string) (V, bool)
	Delete(key string)
	Snapshot() map[string]V
}

type entry[V any] struct {
	v   V
	exp time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// Cache is a single-lock KV. With a TTL it runs a janitor that purges at half the TTL.
type Cache[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]

	ttl    time.Duration
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
	now    func() time.Time
}

type Option func(*config)

type config struct {
	ttl       time.Duration
	noJanitor bool
	shards    int
}

func WithTTL(ttl time.Duration) Option { return func(c *config) { c.ttl = ttl } }
func WithNoJanitor() Option            { return func(c *config) { c.noJanitor = true } }

func NewCache[V any](opts ...Option) *Cache[V] {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	c := &Cache[V]{
		data: make(map[string]entry[V]),
		ttl:  cfg.ttl,
		stop: make(chan struct{}),
		now:  time.Now,
	}
	if c.ttl > 0 && !cfg.noJanitor {
		c.ticker = time.NewTicker(c.ttl / 2)
		go janitor(c.ticker, c.stop, c.purgeExpired)
	}
	return c
}

func janitor(t *time.Ticker, stop <-chan struct{}, purge func()) {
	for {
		select {
		case <-t.C:
			purge()
		case <-stop:
			return
		}
	}
}

func (c *Cache[V]) Close() {
	c.once.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.stop)
	})
}

func (c *Cache[V]) Put(key string, v V) {
	e := entry[V]{v: v}
	if c.ttl > 0 {
		e.exp = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		if cur, ok := c.data[key]; ok && cur.exp.Equal(e.exp) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.v, true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

func (c *Cache[V]) purgeExpired() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache[V]) Snapshot() map[string]V {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]V, len(c.data))
	for k, e := range c.data {
		if !e.expired(now) {
			out[k] = e.v
		}
	}
	return out
}
