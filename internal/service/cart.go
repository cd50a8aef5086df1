package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/repository"
	"shop-fulfillment/internal/shipping"
)

// Summary is derived from the active lines on every read and never stored.
type Summary struct {
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalWeight int             `json:"total_weight"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

type CartItem struct {
	ID         uint            `json:"id"`
	StockID    uint            `json:"stock_id"`
	ProductID  uint            `json:"product_id"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Size       models.Size     `json:"size"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	UnitWeight int             `json:"unit_weight"`
	LineTotal  decimal.Decimal `json:"line_total"`
	Available  int             `json:"available"`
}

type CartView struct {
	Items   []CartItem `json:"items"`
	Summary Summary    `json:"summary"`
}

type LineChange struct {
	Item    CartItem `json:"item"`
	Summary Summary  `json:"summary"`
}

func toCartItem(l models.CartLine) CartItem {
	it := CartItem{ID: l.ID, StockID: l.StockID, Size: l.Size, Quantity: l.Quantity}
	if l.Stock != nil {
		it.Available = l.Stock.Quantity(l.Size)
		if p := l.Stock.Product; p != nil {
			it.ProductID = p.ID
			it.Name = p.Name
			it.Image = p.MainImage
			it.UnitPrice = p.Price
			it.UnitWeight = p.Weight
			it.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
	}
	return it
}

func (s *Service) summarize(lines []models.CartLine) (Summary, error) {
	sum := Summary{Subtotal: decimal.Zero}
	for _, l := range lines {
		sum.ItemCount += l.Quantity
		sum.Subtotal = sum.Subtotal.Add(toCartItem(l).LineTotal)
	}
	sum.TotalWeight = shipping.TotalWeight(lines)
	courier, err := s.repo.ActiveCourier()
	if err != nil {
		return Summary{}, err
	}
	sum.ShippingFee = shipping.ComputeFee(models.DeliveryTypeDelivery, sum.TotalWeight, courier)
	sum.Total = sum.Subtotal.Add(sum.ShippingFee)
	return sum, nil
}

func (s *Service) cartSummary(customerID string) (Summary, error) {
	lines, err := s.repo.ActiveLines(customerID)
	if err != nil {
		return Summary{}, err
	}
	return s.summarize(lines)
}

func (s *Service) View(_ context.Context, customerID string) (CartView, error) {
	lines, err := s.repo.ActiveLines(customerID)
	if err != nil {
		return CartView{}, err
	}
	sum, err := s.summarize(lines)
	if err != nil {
		return CartView{}, err
	}
	view := CartView{Items: make([]CartItem, 0, len(lines)), Summary: sum}
	for _, l := range lines {
		view.Items = append(view.Items, toCartItem(l))
	}
	return view, nil
}

const addItemAttempts = 2

// AddItem merges into an existing active line for the same stock and size,
// checking availability against the combined quantity.
func (s *Service) AddItem(ctx context.Context, customerID string, stockID uint, size models.Size, qty int) (models.CartLine, error) {
	if qty < 1 {
		return models.CartLine{}, ErrInvalidQuantity
	}
	if !size.Valid() {
		return models.CartLine{}, ErrInvalidSize
	}

	var line models.CartLine
	var err error
	for attempt := 0; attempt < addItemAttempts; attempt++ {
		err = s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
			st, err := tx.GetStock(stockID)
			if err != nil {
				return mapStockErr(err)
			}
			existing, err := tx.FindActiveLine(customerID, stockID, size)
			found := err == nil
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}

			total := qty
			if found {
				total += existing.Quantity
			}
			if !available(&st, size, total) {
				return fmt.Errorf("%w: only %d left in size %s", ErrInsufficientStock, st.Quantity(size), size)
			}

			if found {
				if err := tx.UpdateLineQuantity(existing.ID, total); err != nil {
					return err
				}
				line = existing
				line.Quantity = total
			} else {
				line = models.CartLine{CustomerID: customerID, StockID: stockID, Size: size, Quantity: total, Active: true}
				if err := tx.CreateLine(&line); err != nil {
					return err
				}
			}
			line.Stock = &st
			return nil
		})
		// a concurrent add created the line first; the retry merges into it
		if !errors.Is(err, models.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return models.CartLine{}, err
	}
	return line, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, customerID string, lineID uint, qty int) (LineChange, error) {
	if qty < 1 {
		return LineChange{}, ErrInvalidQuantity
	}
	return s.changeLine(ctx, customerID, lineID, true, func(int) int { return qty })
}

func (s *Service) Increment(ctx context.Context, customerID string, lineID uint) (LineChange, error) {
	return s.changeLine(ctx, customerID, lineID, true, func(cur int) int { return cur + 1 })
}

func (s *Service) Decrement(ctx context.Context, customerID string, lineID uint) (LineChange, error) {
	return s.changeLine(ctx, customerID, lineID, false, func(cur int) int { return cur - 1 })
}

// changeLine applies next to the line quantity. With check set the new
// quantity must fit into the current bucket.
func (s *Service) changeLine(ctx context.Context, customerID string, lineID uint, check bool, next func(cur int) int) (LineChange, error) {
	var line models.CartLine
	err := s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
		l, err := ownedLine(tx, customerID, lineID)
		if err != nil {
			return err
		}
		qty := next(l.Quantity)
		if qty < 1 {
			return fmt.Errorf("%w: quantity cannot go below 1", ErrInvalidQuantity)
		}
		if check {
			if l.Stock == nil {
				return ErrStockNotFound
			}
			if !available(l.Stock, l.Size, qty) {
				return fmt.Errorf("%w: only %d left in size %s", ErrInsufficientStock, l.Stock.Quantity(l.Size), l.Size)
			}
		}
		if err := tx.UpdateLineQuantity(l.ID, qty); err != nil {
			return err
		}
		l.Quantity = qty
		line = l
		return nil
	})
	if err != nil {
		return LineChange{}, err
	}
	sum, err := s.cartSummary(customerID)
	if err != nil {
		return LineChange{}, err
	}
	return LineChange{Item: toCartItem(line), Summary: sum}, nil
}

func (s *Service) RemoveLine(ctx context.Context, customerID string, lineID uint) (Summary, error) {
	err := s.repo.WithinTransaction(ctx, func(tx *repository.Repository) error {
		l, err := ownedLine(tx, customerID, lineID)
		if err != nil {
			return err
		}
		return tx.DeleteLine(l.ID)
	})
	if err != nil {
		return Summary{}, err
	}
	return s.cartSummary(customerID)
}

func ownedLine(r *repository.Repository, customerID string, lineID uint) (models.CartLine, error) {
	l, err := r.GetLine(lineID)
	if errors.Is(err, models.ErrNotFound) {
		return models.CartLine{}, ErrCartLineNotFound
	}
	if err != nil {
		return models.CartLine{}, err
	}
	if l.CustomerID != customerID {
		return models.CartLine{}, ErrUnauthorized
	}
	return l, nil
}
