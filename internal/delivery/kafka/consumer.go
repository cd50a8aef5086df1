package kafka

import (
	"context"
	"errors"
	"strconv"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/notify"
)

type Config struct {
	Brokers     []string
	GroupID     string
	Topic       string
	DLQ         string
	MaxRetries  int
	BaseBackoff time.Duration
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, payload []byte) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const maxBackoff = 5 * time.Second

type Consumer struct {
	reader  messageReader
	dlq     messageWriter
	handler MessageHandler
	cfg     Config
}

func NewConsumer(cfg Config, handler MessageHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        100 * time.Millisecond,
		CommitInterval: 0,
	})

	var w messageWriter
	if cfg.DLQ != "" {
		w = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.DLQ,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		}
	}
	return newConsumer(cfg, r, w, handler)
}

func newConsumer(cfg Config, r messageReader, dlq messageWriter, handler MessageHandler) *Consumer {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}
	return &Consumer{reader: r, dlq: dlq, handler: handler, cfg: cfg}
}

// Subscribe blocks until ctx is cancelled. Each message is committed after it
// was handled or parked on the DLQ.
func (c *Consumer) Subscribe(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.WithError(err).Error("kafka fetch")
			if !sleep(ctx, 300*time.Millisecond) {
				return nil
			}
			continue
		}

		log := logrus.WithFields(logrus.Fields{
			"topic":     m.Topic,
			"partition": m.Partition,
			"offset":    m.Offset,
			"key":       string(m.Key),
		})
		log.Debug("fetched order event")

		attempts, last := c.handle(ctx, m)
		if last != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !c.park(ctx, m, attempts, last, log) {
				continue
			}
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.WithError(err).Error("commit failed")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafka.Message) (int, error) {
	var last error
	attempt := 0
	for ; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 && !sleep(ctx, backoff(attempt, c.cfg.BaseBackoff)) {
			return attempt, ctx.Err()
		}
		last = c.handler.HandleMessage(ctx, m.Value)
		if last == nil {
			return attempt + 1, nil
		}
		if isNonRetryable(last) {
			return attempt + 1, last
		}
	}
	return attempt, last
}

// park writes m to the DLQ. It reports false when the message should be
// fetched again instead of committed.
func (c *Consumer) park(ctx context.Context, m kafka.Message, attempts int, cause error, log *logrus.Entry) bool {
	if c.dlq == nil {
		log.WithError(cause).Error("DLQ disabled, dropping message")
		return true
	}

	headers := make([]kafka.Header, 0, len(m.Headers)+5)
	headers = append(headers, m.Headers...)
	headers = append(headers,
		kafka.Header{Key: "x-dlq-reason", Value: []byte(trimErr(cause))},
		kafka.Header{Key: "x-dlq-attempts", Value: []byte(strconv.Itoa(attempts))},
		kafka.Header{Key: "x-dlq-ts", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		kafka.Header{Key: "x-dlq-source-topic", Value: []byte(c.cfg.Topic)},
		kafka.Header{Key: "x-dlq-group", Value: []byte(c.cfg.GroupID)},
	)
	err := c.dlq.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value, Headers: headers})
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Error("write to DLQ failed")
			sleep(ctx, 500*time.Millisecond)
		}
		return false
	}
	log.WithError(cause).Warn("order event moved to DLQ")
	return true
}

func (c *Consumer) Close() error {
	var first error
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			first = err
		}
	}
	if c.dlq != nil {
		if err := c.dlq.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func backoff(n int, base time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	d := base * (1 << (n - 1))
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func trimErr(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > 1000 {
		return s[:1000]
	}
	return s
}

func isNonRetryable(err error) bool {
	return errors.Is(err, notify.ErrDecode)
}
