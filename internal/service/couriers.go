package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/models"
)

type CourierInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=1000"`
	BaseCharge  decimal.Decimal `json:"charge"`
	ExtraPerKg  decimal.Decimal `json:"extra_per_kg"`
	Active      bool            `json:"is_active"`
}

func (s *Service) ListCouriers(_ context.Context) ([]models.Courier, error) {
	return s.repo.ListCouriers()
}

func (s *Service) CreateCourier(_ context.Context, in CourierInput) (models.Courier, error) {
	in.Name = s.sanitize(in.Name)
	in.Description = s.sanitize(in.Description)
	if err := s.validate(in); err != nil {
		return models.Courier{}, err
	}
	if in.BaseCharge.IsNegative() || in.ExtraPerKg.IsNegative() {
		return models.Courier{}, fmt.Errorf("%w: charges must not be negative", ErrValidation)
	}
	c := models.Courier{
		Name:        in.Name,
		Description: in.Description,
		BaseCharge:  in.BaseCharge,
		ExtraPerKg:  in.ExtraPerKg,
		Active:      in.Active,
	}
	if err := s.repo.CreateCourier(&c); err != nil {
		return models.Courier{}, err
	}
	logrus.WithFields(logrus.Fields{"courier": c.Name, "active": c.Active}).Info("courier created")
	return c, nil
}

// ToggleCourierActive flips the flag; activating one courier deactivates the rest.
func (s *Service) ToggleCourierActive(_ context.Context, id uint) (models.Courier, error) {
	c, err := s.repo.GetCourier(id)
	if errors.Is(err, models.ErrNotFound) {
		return models.Courier{}, ErrCourierNotFound
	}
	if err != nil {
		return models.Courier{}, err
	}
	out, err := s.repo.SetCourierActive(id, !c.Active)
	if errors.Is(err, models.ErrNotFound) {
		return models.Courier{}, ErrCourierNotFound
	}
	return out, err
}

// CourierPatch carries a partial courier edit. Nil fields keep their value.
type CourierPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	BaseCharge  *decimal.Decimal `json:"charge"`
	ExtraPerKg  *decimal.Decimal `json:"extra_per_kg"`
	Active      *bool            `json:"is_active"`
}

// UpdateCourier applies a partial edit. Orders keep the fee they were created
// with; only later checkouts see new charges.
func (s *Service) UpdateCourier(_ context.Context, id uint, in CourierPatch) (models.Courier, error) {
	c, err := s.repo.GetCourier(id)
	if errors.Is(err, models.ErrNotFound) {
		return models.Courier{}, ErrCourierNotFound
	}
	if err != nil {
		return models.Courier{}, err
	}

	edit := CourierInput{
		Name:        c.Name,
		Description: c.Description,
		BaseCharge:  c.BaseCharge,
		ExtraPerKg:  c.ExtraPerKg,
		Active:      c.Active,
	}
	if in.Name != nil {
		edit.Name = s.sanitize(*in.Name)
	}
	if in.Description != nil {
		edit.Description = s.sanitize(*in.Description)
	}
	if in.BaseCharge != nil {
		edit.BaseCharge = *in.BaseCharge
	}
	if in.ExtraPerKg != nil {
		edit.ExtraPerKg = *in.ExtraPerKg
	}
	if in.Active != nil {
		edit.Active = *in.Active
	}
	if err := s.validate(edit); err != nil {
		return models.Courier{}, err
	}
	if edit.BaseCharge.IsNegative() || edit.ExtraPerKg.IsNegative() {
		return models.Courier{}, fmt.Errorf("%w: charges must not be negative", ErrValidation)
	}

	c.Name = edit.Name
	c.Description = edit.Description
	c.BaseCharge = edit.BaseCharge
	c.ExtraPerKg = edit.ExtraPerKg
	c.Active = edit.Active
	if err := s.repo.UpdateCourier(&c); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Courier{}, ErrCourierNotFound
		}
		return models.Courier{}, err
	}
	logrus.WithFields(logrus.Fields{
		"courier": c.ID,
		"charge":  c.BaseCharge.StringFixed(2),
		"extra":   c.ExtraPerKg.StringFixed(2),
		"active":  c.Active,
	}).Info("courier updated")
	return c, nil
}

func (s *Service) DeleteCourier(_ context.Context, id uint) error {
	err := s.repo.DeleteCourier(id)
	if errors.Is(err, models.ErrNotFound) {
		return ErrCourierNotFound
	}
	if err != nil {
		return err
	}
	logrus.WithField("courier", id).Info("courier deleted")
	return nil
}

func (s *Service) RegisterDevice(_ context.Context, customerID, email, token string) error {
	if customerID == "" {
		return ErrUnauthenticated
	}
	if token == "" {
		return fmt.Errorf("%w: fcm token is required", ErrValidation)
	}
	return s.repo.SaveDeviceToken(customerID, email, token)
}
