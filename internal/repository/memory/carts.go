package memory

import (
	"sort"

	"shop-fulfillment/internal/models"
)

func (s *state) hydrateLine(l *models.CartLine) {
	if stock, ok := s.stocks[l.StockID]; ok && stock.DeletedAt == nil {
		s.hydrateStock(&stock)
		l.Stock = &stock
	}
}

func (r *repo) ActiveLines(customerID string) ([]models.CartLine, error) {
	st, done := r.begin()
	defer done()
	var out []models.CartLine
	for _, l := range st.cartLines {
		if l.CustomerID == customerID && l.Active && l.DeletedAt == nil {
			st.hydrateLine(&l)
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *repo) FindActiveLine(customerID string, stockID uint, size models.Size) (models.CartLine, error) {
	st, done := r.begin()
	defer done()
	for _, l := range st.cartLines {
		if l.CustomerID == customerID && l.StockID == stockID && l.Size == size && l.Active && l.DeletedAt == nil {
			return l, nil
		}
	}
	return models.CartLine{}, models.ErrNotFound
}

func (r *repo) GetLine(id uint) (models.CartLine, error) {
	st, done := r.begin()
	defer done()
	l, ok := st.cartLines[id]
	if !ok || !l.Active || l.DeletedAt != nil {
		return models.CartLine{}, models.ErrNotFound
	}
	st.hydrateLine(&l)
	return l, nil
}

func (r *repo) CreateLine(line *models.CartLine) error {
	st, done := r.begin()
	defer done()
	for _, l := range st.cartLines {
		if l.CustomerID == line.CustomerID && l.StockID == line.StockID && l.Size == line.Size &&
			l.Active && l.DeletedAt == nil {
			return models.ErrDuplicate
		}
	}
	line.ID = st.nextID()
	line.CreatedAt, line.UpdatedAt = r.store.now(), r.store.now()
	stored := *line
	stored.Stock = nil
	st.cartLines[line.ID] = stored
	return nil
}

func (r *repo) UpdateLineQuantity(id uint, qty int) error {
	st, done := r.begin()
	defer done()
	l, ok := st.cartLines[id]
	if !ok || l.DeletedAt != nil {
		return models.ErrNotFound
	}
	l.Quantity = qty
	l.UpdatedAt = r.store.now()
	st.cartLines[id] = l
	return nil
}

func (r *repo) DeleteLine(id uint) error {
	st, done := r.begin()
	defer done()
	l, ok := st.cartLines[id]
	if !ok || l.DeletedAt != nil {
		return models.ErrNotFound
	}
	now := r.store.now()
	l.DeletedAt = &now
	st.cartLines[id] = l
	return nil
}

func (r *repo) ClearCustomerLines(customerID string) (int64, error) {
	st, done := r.begin()
	defer done()
	var n int64
	now := r.store.now()
	for id, l := range st.cartLines {
		if l.CustomerID == customerID && l.Active && l.DeletedAt == nil {
			l.DeletedAt = &now
			st.cartLines[id] = l
			n++
		}
	}
	return n, nil
}
