package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/repository"
)

func (s *Service) GetStock(_ context.Context, stockID uint) (models.Stock, error) {
	st, err := s.repo.GetStock(stockID)
	if err != nil {
		return models.Stock{}, mapStockErr(err)
	}
	return st, nil
}

func (s *Service) CheckAvailable(_ context.Context, stockID uint, size models.Size, qty int) (bool, error) {
	if !size.Valid() {
		return false, ErrInvalidSize
	}
	if qty < 1 {
		return false, ErrInvalidQuantity
	}
	st, err := s.repo.GetStock(stockID)
	if err != nil {
		return false, mapStockErr(err)
	}
	return available(&st, size, qty), nil
}

func available(st *models.Stock, size models.Size, qty int) bool {
	return st.Active && st.Quantity(size) >= qty
}

func (s *Service) Reserve(_ context.Context, stockID uint, size models.Size, qty int) error {
	return reserve(s.repo, stockID, size, qty)
}

func (s *Service) Release(_ context.Context, stockID uint, size models.Size, qty int) error {
	return release(s.repo, stockID, size, qty)
}

func reserve(r *repository.Repository, stockID uint, size models.Size, qty int) error {
	if !size.Valid() {
		return ErrInvalidSize
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if err := r.Reserve(stockID, size, qty); err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			return fmt.Errorf("%w: stock %d size %s", ErrInsufficientStock, stockID, size)
		}
		return mapStockErr(err)
	}
	return nil
}

func release(r *repository.Repository, stockID uint, size models.Size, qty int) error {
	if !size.Valid() {
		return ErrInvalidSize
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return mapStockErr(r.Release(stockID, size, qty))
}

// releaseLines returns every line of o to its bucket and stamps the order so
// a second compensation path cannot add the same units back.
func (s *Service) releaseLines(tx *repository.Repository, o *models.Order) error {
	if !o.StockReserved() {
		return nil
	}
	for _, l := range byStockRow(o.Lines) {
		err := release(tx, l.StockID, l.Size, l.Quantity)
		if errors.Is(err, ErrStockNotFound) {
			logrus.WithFields(logrus.Fields{
				"order": o.OrderNumber, "stock_id": l.StockID, "size": l.Size,
			}).Warn("stock row gone, skipping release")
			continue
		}
		if err != nil {
			return err
		}
	}
	now := s.now()
	o.StockReleasedAt = &now
	return nil
}

// byStockRow returns a copy of lines ordered by stock id and size. Every path
// that touches several stock rows in one transaction walks them in this order
// so two transactions never wait on each other's rows.
func byStockRow(lines []models.OrderLine) []models.OrderLine {
	out := append([]models.OrderLine(nil), lines...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StockID != out[j].StockID {
			return out[i].StockID < out[j].StockID
		}
		return out[i].Size < out[j].Size
	})
	return out
}

func (s *Service) SetQuantities(_ context.Context, stockID uint, q map[models.Size]int) (models.Stock, error) {
	if len(q) == 0 {
		return models.Stock{}, fmt.Errorf("%w: no sizes given", ErrValidation)
	}
	for size, n := range q {
		if !size.Valid() {
			return models.Stock{}, ErrInvalidSize
		}
		if n < 0 {
			return models.Stock{}, ErrInvalidQuantity
		}
	}
	st, err := s.repo.SetQuantities(stockID, q)
	if err != nil {
		return models.Stock{}, mapStockErr(err)
	}
	logrus.WithField("stock_id", stockID).Info("stock quantities set")
	return st, nil
}

func mapStockErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return ErrStockNotFound
	}
	return err
}
