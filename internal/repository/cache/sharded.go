package cache

import (
	"hash/fnv"
	"sync"
	"time"
)

const defaultShards = 16

type shard[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
}

// ShardedCache spreads keys over power-of-two shards by FNV-1a hash so
// lookups for different keys rarely contend on the same lock.
type ShardedCache[V any] struct {
	shards []shard[V]
	ttl    time.Duration
	now    func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// WithShards sets the shard count, rounded up to a power of two.
func WithShards(n int) Option { return func(c *config) { c.shards = n } }

// WithShardTTL is kept as an alias of WithTTL for sharded call sites.
func WithShardTTL(ttl time.Duration) Option { return WithTTL(ttl) }

func NewShardedCache[V any](opts ...Option) *ShardedCache[V] {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	n := defaultShards
	if cfg.shards > 0 {
		n = 1
		for n < cfg.shards {
			n <<= 1
		}
	}
	c := &ShardedCache[V]{
		shards: make([]shard[V], n),
		ttl:    cfg.ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	for i := range c.shards {
		c.shards[i].data = make(map[string]entry[V])
	}
	if c.ttl > 0 && !cfg.noJanitor {
		c.ticker = time.NewTicker(c.ttl / 2)
		go janitor(c.ticker, c.stop, c.purge)
	}
	return c
}

func (c *ShardedCache[V]) Close() {
	c.once.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.stop)
	})
}

func (c *ShardedCache[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &c.shards[int(h.Sum32())&(len(c.shards)-1)]
}

func (c *ShardedCache[V]) Put(key string, v V) {
	e := entry[V]{v: v}
	if c.ttl > 0 {
		e.exp = c.now().Add(c.ttl)
	}
	s := c.shardFor(key)
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
}

func (c *ShardedCache[V]) Get(key string) (V, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if e.expired(c.now()) {
		s.mu.Lock()
		if cur, ok := s.data[key]; ok && cur.exp.Equal(e.exp) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.v, true
}

func (c *ShardedCache[V]) Delete(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

func (c *ShardedCache[V]) Snapshot() map[string]V {
	out := make(map[string]V)
	now := c.now()
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		for k, e := range s.data {
			if !e.expired(now) {
				out[k] = e.v
			}
		}
		s.mu.RUnlock()
	}
	return out
}

func (c *ShardedCache[V]) purge() {
	now := c.now()
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for k, e := range s.data {
			if e.expired(now) {
				delete(s.data, k)
			}
		}
		s.mu.Unlock()
	}
}
