package memory

import (
	"github.com/pkg/errors"

	"shop-fulfillment/internal/models"
)

func (r *repo) GetStock(id uint) (models.Stock, error) {
	st, done := r.begin()
	defer done()
	s, ok := st.stocks[id]
	if !ok || s.DeletedAt != nil {
		return models.Stock{}, models.ErrNotFound
	}
	st.hydrateStock(&s)
	return s, nil
}

func (s *state) hydrateStock(st *models.Stock) {
	if p, ok := s.products[st.ProductID]; ok && p.DeletedAt == nil {
		st.Product = &p
	}
}

func (r *repo) Reserve(id uint, size models.Size, qty int) error {
	st, done := r.begin()
	defer done()
	s, ok := st.stocks[id]
	if !ok || s.DeletedAt != nil {
		return models.ErrNotFound
	}
	b, ok := s.Bucket(size)
	if !ok {
		return errors.Errorf("unknown size %q", size)
	}
	if !s.Active || *b < qty {
		return models.ErrInsufficientStock
	}
	*b -= qty
	s.UpdatedAt = r.store.now()
	st.stocks[id] = s
	return nil
}

func (r *repo) Release(id uint, size models.Size, qty int) error {
	st, done := r.begin()
	defer done()
	s, ok := st.stocks[id]
	if !ok || s.DeletedAt != nil {
		return models.ErrNotFound
	}
	b, ok := s.Bucket(size)
	if !ok {
		return errors.Errorf("unknown size %q", size)
	}
	*b += qty
	s.UpdatedAt = r.store.now()
	st.stocks[id] = s
	return nil
}

func (r *repo) SetQuantities(id uint, q map[models.Size]int) (models.Stock, error) {
	st, done := r.begin()
	defer done()
	s, ok := st.stocks[id]
	if !ok || s.DeletedAt != nil {
		return models.Stock{}, models.ErrNotFound
	}
	for size, n := range q {
		b, ok := s.Bucket(size)
		if !ok {
			return models.Stock{}, errors.Errorf("unknown size %q", size)
		}
		*b = n
	}
	s.UpdatedAt = r.store.now()
	st.stocks[id] = s
	st.hydrateStock(&s)
	return s, nil
}
