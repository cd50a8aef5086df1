package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/repository"
)

// WithoutTracking marks an order shipped without courier assignment or notifications.
const WithoutTracking = "withoutTracking"

// mutation edits a row-locked order in place and names the event to publish
// after commit, if any.
type mutation func(tx *repository.Repository, o *models.Order) (models.EventType, error)

func (s *Service) mutateOrder(ctx context.Context, orderID uint, fn mutation) (models.Order, error) {
	var (
		order models.Order
		event models.EventType
	)
	err := s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
		o, err := tx.GetOrderForUpdate(orderID)
		if errors.Is(err, models.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		ev, err := fn(tx, &o)
		if err != nil {
			return err
		}
		if err := tx.SaveOrder(&o); err != nil {
			return err
		}
		order, event = o, ev
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	if event != "" {
		s.publish(ctx, event, &order)
	}
	return order, nil
}

// requirePaidIfCard keeps unpaid card orders from moving past confirmed.
func requirePaidIfCard(o *models.Order, to models.Status) error {
	switch to {
	case models.StatusPending, models.StatusConfirmed, models.StatusCancelled:
		return nil
	}
	if o.AwaitingPayment() {
		return fmt.Errorf("%w: card order %s is not paid", ErrInvalidStatusTransition, o.OrderNumber)
	}
	return nil
}

func invalidTransition(o *models.Order, to models.Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, to)
}

// UpdateStatus is the permissive admin setter. Moves outside the lifecycle
// graph are allowed but logged; cancellation always goes through CancelOrder.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status models.Status, actorID string) (models.Order, error) {
	if _, ok := models.ParseStatus(string(status)); !ok {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == models.StatusCancelled {
		return s.CancelOrder(ctx, orderID, actorID)
	}
	return s.mutateOrder(ctx, orderID, func(_ *repository.Repository, o *models.Order) (models.EventType, error) {
		if o.Status == status {
			return "", nil
		}
		if o.Status == models.StatusCancelled {
			return "", invalidTransition(o, status)
		}
		if err := requirePaidIfCard(o, status); err != nil {
			return "", err
		}
		if !models.CanTransition(o.Status, status) {
			logrus.WithFields(logrus.Fields{
				"order": o.OrderNumber, "from": o.Status, "to": status, "actor": actorID,
			}).Warn("status change outside lifecycle graph")
		}
		now := s.now()
		switch status {
		case models.StatusDelivered:
			o.DeliveredAt = &now
		case models.StatusPickedUp:
			o.PickedUpAt = &now
		}
		o.Status = status
		o.ProcessedBy = actorID
		return "", nil
	})
}

func (s *Service) CancelOrder(ctx context.Context, orderID uint, actorID string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(tx *repository.Repository, o *models.Order) (models.EventType, error) {
		if !o.Status.Cancellable() {
			return "", invalidTransition(o, models.StatusCancelled)
		}
		if err := s.releaseLines(tx, o); err != nil {
			return "", err
		}
		o.Status = models.StatusCancelled
		o.ProcessedBy = actorID
		logrus.WithFields(logrus.Fields{"order": o.OrderNumber, "actor": actorID}).Info("order cancelled")
		return models.EventOrderCancelled, nil
	})
}

func (s *Service) MarkShipped(ctx context.Context, orderID uint, trackingNumber string, courierID uint, actorID string) (models.Order, error) {
	withoutTracking := trackingNumber == WithoutTracking
	if !withoutTracking && trackingNumber == "" {
		return models.Order{}, fmt.Errorf("%w: tracking number is required", ErrValidation)
	}
	return s.mutateOrder(ctx, orderID, func(tx *repository.Repository, o *models.Order) (models.EventType, error) {
		if o.IsPickup() || !models.CanTransition(o.Status, models.StatusShipped) {
			return "", invalidTransition(o, models.StatusShipped)
		}
		if err := requirePaidIfCard(o, models.StatusShipped); err != nil {
			return "", err
		}
		o.Status = models.StatusShipped
		o.ProcessedBy = actorID
		if withoutTracking {
			o.TrackingNumber = ""
			o.CourierID, o.Courier = nil, nil
			return "", nil
		}
		c, err := tx.GetCourier(courierID)
		if errors.Is(err, models.ErrNotFound) {
			return "", ErrCourierNotFound
		}
		if err != nil {
			return "", err
		}
		o.CourierID = &c.ID
		o.Courier = &c
		o.TrackingNumber = s.sanitize(trackingNumber)
		return models.EventOrderShipped, nil
	})
}

func (s *Service) MarkReadyForPickup(ctx context.Context, orderID uint, actorID string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(_ *repository.Repository, o *models.Order) (models.EventType, error) {
		if !o.IsPickup() || !models.CanTransition(o.Status, models.StatusReadyForPickup) {
			return "", invalidTransition(o, models.StatusReadyForPickup)
		}
		if err := requirePaidIfCard(o, models.StatusReadyForPickup); err != nil {
			return "", err
		}
		o.Status = models.StatusReadyForPickup
		o.ProcessedBy = actorID
		return models.EventOrderReadyForPickup, nil
	})
}

func (s *Service) MarkPickedUp(ctx context.Context, orderID uint, actorID string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(_ *repository.Repository, o *models.Order) (models.EventType, error) {
		if !o.IsPickup() || o.Status != models.StatusReadyForPickup {
			return "", invalidTransition(o, models.StatusPickedUp)
		}
		now := s.now()
		o.Status = models.StatusPickedUp
		o.PickedUpAt = &now
		o.ProcessedBy = actorID
		return models.EventOrderPickedUp, nil
	})
}

func (s *Service) MarkDelivered(ctx context.Context, orderID uint, actorID string) (models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(_ *repository.Repository, o *models.Order) (models.EventType, error) {
		if o.IsPickup() || o.Status != models.StatusShipped {
			return "", invalidTransition(o, models.StatusDelivered)
		}
		now := s.now()
		o.Status = models.StatusDelivered
		o.DeliveredAt = &now
		o.ProcessedBy = actorID
		return models.EventOrderDelivered, nil
	})
}

// DeleteOrder tombstones an unpaid order, returning its stock if still held.
func (s *Service) DeleteOrder(ctx context.Context, orderID uint) error {
	return s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
		o, err := tx.GetOrderForUpdate(orderID)
		if errors.Is(err, models.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if o.IsPaid() {
			return ErrCannotDeletePaidOrder
		}
		if o.StockReserved() {
			if err := s.releaseLines(tx, &o); err != nil {
				return err
			}
			if err := tx.SaveOrder(&o); err != nil {
				return err
			}
		}
		return tx.DeleteOrder(o.ID)
	})
}

func (s *Service) publish(ctx context.Context, t models.EventType, o *models.Order) {
	ev := models.NewOrderEvent(t, o, s.now())
	c, err := s.repo.GetCustomer(o.CustomerID)
	switch {
	case err == nil:
		ev.DeviceToken = c.DeviceToken
		if ev.Email == "" {
			ev.Email = c.Email
		}
	case !errors.Is(err, models.ErrNotFound):
		logrus.WithError(err).WithField("order", o.OrderNumber).Warn("load customer for notification")
	}
	s.notifier.Notify(ctx, ev)
}
