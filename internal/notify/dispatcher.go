// Package notify moves order lifecycle events from the request path to the
// customer's inbox and device.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/metrics"
	"shop-fulfillment/internal/models"
)

// Sink is where the dispatcher hands events off, normally the Kafka publisher.
type Sink interface {
	Publish(ctx context.Context, ev models.OrderEvent) error
}

const (
	defaultQueueSize = 256
	publishTimeout   = 5 * time.Second
)

// Dispatcher buffers events in memory and publishes them from a single worker.
// Notify never blocks: a full queue drops the event.
type Dispatcher struct {
	sink  Sink
	queue chan models.OrderEvent
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
	start  sync.Once
}

func NewDispatcher(sink Sink, size int) *Dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Dispatcher{
		sink:  sink,
		queue: make(chan models.OrderEvent, size),
		done:  make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.start.Do(func() { go d.run() })
}

func (d *Dispatcher) Notify(_ context.Context, ev models.OrderEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	log := logrus.WithFields(logrus.Fields{"event": ev.Type, "order": ev.OrderNumber})
	if d.closed {
		metrics.NotificationsDropped.Inc()
		log.Error("notification dropped: dispatcher closed")
		return
	}
	select {
	case d.queue <- ev:
	default:
		metrics.NotificationsDropped.Inc()
		log.Error("notification dropped: queue full")
	}
}

// Close stops accepting events and waits for the queued ones to be published
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.Start()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := d.sink.Publish(ctx, ev)
		cancel()
		if err != nil {
			metrics.NotificationsDropped.Inc()
			logrus.WithError(err).WithFields(logrus.Fields{
				"event": ev.Type,
				"order": ev.OrderNumber,
			}).Error("publish order event")
		}
	}
}
