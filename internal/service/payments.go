package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/metrics"
	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/payhere"
	"shop-fulfillment/internal/repository"
)

type Outcome string

const (
	OutcomePaid          Outcome = "paid"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeIgnored       Outcome = "ignored"
	OutcomeReleased      Outcome = "released"
	OutcomePending       Outcome = "pending"
	OutcomeOrderNotFound Outcome = "order_not_found"
	OutcomeRejected      Outcome = "rejected"
)

type ReconcileResult struct {
	Outcome     Outcome `json:"outcome"`
	OrderNumber string  `json:"order_number"`
}

// ReconcilePayment applies a gateway notification. Callbacks may arrive late,
// twice or out of order; replaying any of them leaves the order unchanged.
func (s *Service) ReconcilePayment(ctx context.Context, cb payhere.Callback) (ReconcileResult, error) {
	res, err := s.reconcile(ctx, cb)
	if err != nil && res.Outcome == "" {
		res.Outcome = OutcomeRejected
	}
	res.OrderNumber = cb.OrderID
	metrics.PaymentCallbacks.WithLabelValues(string(res.Outcome)).Inc()
	s.logCallback(cb, res, err)
	return res, err
}

func (s *Service) reconcile(ctx context.Context, cb payhere.Callback) (ReconcileResult, error) {
	if err := s.payhere.Verify(cb); err != nil {
		logrus.WithFields(logrus.Fields{
			"security":    "payment_signature",
			"order":       cb.OrderID,
			"merchant_id": cb.MerchantID,
		}).WithError(err).Warn("rejected payment callback")
		return ReconcileResult{}, fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	}
	if cb.Pending() {
		logrus.WithField("order", cb.OrderID).Info("payment pending")
		return ReconcileResult{Outcome: OutcomePending}, nil
	}

	var (
		outcome Outcome
		paid    *models.Order
	)
	err := s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
		o, err := tx.GetOrderByNumberForUpdate(cb.OrderID)
		if errors.Is(err, models.ErrNotFound) {
			outcome = OutcomeOrderNotFound
			if cb.Succeeded() {
				return ErrOrderNotFound
			}
			return nil
		}
		if err != nil {
			return err
		}
		if cb.Succeeded() {
			outcome, err = s.applySuccess(tx, &o, cb)
			if outcome == OutcomePaid {
				paid = &o
			}
			return err
		}
		outcome, err = s.applyFailure(tx, &o, cb)
		return err
	})
	if err != nil {
		return ReconcileResult{Outcome: outcome}, err
	}
	if paid != nil {
		s.publish(ctx, models.EventOrderConfirmed, paid)
	}
	return ReconcileResult{Outcome: outcome}, nil
}

func (s *Service) applySuccess(tx *repository.Repository, o *models.Order, cb payhere.Callback) (Outcome, error) {
	if o.IsPaid() {
		return OutcomeDuplicate, nil
	}
	if o.Status == models.StatusCancelled {
		logrus.WithField("order", o.OrderNumber).Warn("payment received for cancelled order")
		return OutcomeIgnored, nil
	}
	amount, err := decimal.NewFromString(cb.Amount)
	if err != nil {
		return OutcomeRejected, fmt.Errorf("%w: amount %q", ErrValidation, cb.Amount)
	}
	if !amount.Equal(o.Total) {
		return OutcomeRejected, fmt.Errorf("%w: got %s want %s", ErrAmountMismatch, amount, o.Total.StringFixed(2))
	}

	o.PaymentStatus = models.PaymentStatusPaid
	o.TransactionID = cb.PaymentID
	if o.Status == models.StatusPending {
		o.Status = models.StatusConfirmed
	}
	if err := tx.SaveOrder(o); err != nil {
		return "", err
	}
	if _, err := tx.ClearCustomerLines(o.CustomerID); err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"order": o.OrderNumber, "payment_id": cb.PaymentID}).Info("payment confirmed")
	return OutcomePaid, nil
}

// applyFailure gives the reservation back and tombstones the order. Paid or
// cancelled orders are left alone: a late failure cannot undo a payment.
func (s *Service) applyFailure(tx *repository.Repository, o *models.Order, cb payhere.Callback) (Outcome, error) {
	if o.IsPaid() || o.Status == models.StatusCancelled {
		logrus.WithFields(logrus.Fields{
			"order": o.OrderNumber, "status_code": cb.StatusCode, "status": o.Status,
		}).Warn("ignoring payment failure for settled order")
		return OutcomeIgnored, nil
	}
	if err := s.releaseLines(tx, o); err != nil {
		return "", err
	}
	if err := tx.SaveOrder(o); err != nil {
		return "", err
	}
	if err := tx.DeleteOrder(o.ID); err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"order": o.OrderNumber, "status_code": cb.StatusCode}).Info("payment failed, order removed")
	return OutcomeReleased, nil
}

func (s *Service) logCallback(cb payhere.Callback, res ReconcileResult, err error) {
	entry := models.PaymentLog{
		OrderNumber:   cb.OrderID,
		MerchantID:    cb.MerchantID,
		Amount:        cb.Amount,
		Currency:      cb.Currency,
		StatusCode:    cb.StatusCode,
		Signature:     cb.Signature,
		PaymentID:     cb.PaymentID,
		StatusMessage: cb.StatusMessage,
		Outcome:       string(res.Outcome),
		Success:       err == nil && cb.Succeeded(),
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	if lerr := s.repo.CreatePaymentLog(&entry); lerr != nil {
		logrus.WithError(lerr).WithField("order", cb.OrderID).Error("write payment log")
	}
}
