package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/mailer"
	"shop-fulfillment/internal/metrics"
	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/push"
)

// ErrDecode marks payloads that will never parse; consumers should not retry them.
var ErrDecode = errors.New("decode order event")

// ErrDelivery is returned when every channel that was attempted failed.
var ErrDelivery = errors.New("notification delivery failed")

type Renderer interface {
	Render(ev models.OrderEvent) (subject, body string, err error)
}

type Handler struct {
	mail     mailer.Sender
	renderer Renderer
	push     push.Sender
}

type HandlerOption func(*Handler)

func WithEmail(sender mailer.Sender, r Renderer) HandlerOption {
	return func(h *Handler) {
		h.mail = sender
		h.renderer = r
	}
}

func WithPush(sender push.Sender) HandlerOption {
	return func(h *Handler) { h.push = sender }
}

func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMessage decodes one queued event and fans it out to email and push.
// A channel with no address for the customer is skipped. Partial success is
// success so a redelivery does not repeat the channel that already went out.
func (h *Handler) HandleMessage(ctx context.Context, payload []byte) error {
	var ev models.OrderEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if ev.OrderNumber == "" || ev.Type == "" {
		return fmt.Errorf("%w: missing order number or type", ErrDecode)
	}

	log := logrus.WithFields(logrus.Fields{"event": ev.Type, "order": ev.OrderNumber})
	var attempted int
	var errs []error

	if ok, err := h.sendEmail(ctx, ev); ok {
		attempted++
		if err != nil {
			log.WithError(err).Error("send order email")
			errs = append(errs, err)
		}
	}
	if ok, err := h.sendPush(ctx, ev); ok {
		attempted++
		if err != nil {
			log.WithError(err).Error("send order push")
			errs = append(errs, err)
		}
	}

	if attempted > 0 && len(errs) == attempted {
		return fmt.Errorf("%w: %w", ErrDelivery, errors.Join(errs...))
	}
	return nil
}

func (h *Handler) sendEmail(ctx context.Context, ev models.OrderEvent) (bool, error) {
	if h.mail == nil || h.renderer == nil || ev.Email == "" {
		metrics.NotificationsSent.WithLabelValues("email", "skipped").Inc()
		return false, nil
	}
	subject, body, err := h.renderer.Render(ev)
	if errors.Is(err, mailer.ErrNoTemplate) {
		metrics.NotificationsSent.WithLabelValues("email", "skipped").Inc()
		return false, nil
	}
	if err == nil {
		err = h.mail.Send(ctx, ev.Email, subject, body)
	}
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "error").Inc()
		return true, err
	}
	metrics.NotificationsSent.WithLabelValues("email", "ok").Inc()
	return true, nil
}

func (h *Handler) sendPush(ctx context.Context, ev models.OrderEvent) (bool, error) {
	msg, ok := buildPush(ev)
	if h.push == nil || ev.DeviceToken == "" || !ok {
		metrics.NotificationsSent.WithLabelValues("push", "skipped").Inc()
		return false, nil
	}
	err := h.push.Send(ctx, ev.DeviceToken, msg.Title, msg.Body, msg.Data)
	switch {
	case err == nil:
		metrics.NotificationsSent.WithLabelValues("push", "ok").Inc()
		return true, nil
	case push.IsUnregistered(err):
		// retrying cannot help a token the device no longer owns
		metrics.NotificationsSent.WithLabelValues("push", "unregistered").Inc()
		logrus.WithField("order", ev.OrderNumber).Warn("device token unregistered")
		return true, nil
	default:
		metrics.NotificationsSent.WithLabelValues("push", "error").Inc()
		return true, err
	}
}
