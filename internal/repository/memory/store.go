// Package memory is a process-local repository used by tests and by
// STORAGE_DRIVER=memory. Every call is serialized on one mutex, and a
// transaction works on a copy of the state that replaces the original only
// when the callback succeeds.
package memory

import (
	"context"
	"sync"
	"time"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/repository"
)

type state struct {
	seq         uint
	products    map[uint]models.Product
	stocks      map[uint]models.Stock
	branches    map[uint]models.Branch
	couriers    map[uint]models.Courier
	customers   map[string]models.Customer
	cartLines   map[uint]models.CartLine
	orders      map[uint]models.Order
	paymentLogs []models.PaymentLog
}

func newState() *state {
	return &state{
		products:  make(map[uint]models.Product),
		stocks:    make(map[uint]models.Stock),
		branches:  make(map[uint]models.Branch),
		couriers:  make(map[uint]models.Courier),
		customers: make(map[string]models.Customer),
		cartLines: make(map[uint]models.CartLine),
		orders:    make(map[uint]models.Order),
	}
}

func (s *state) nextID() uint {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		products:    make(map[uint]models.Product, len(s.products)),
		stocks:      make(map[uint]models.Stock, len(s.stocks)),
		branches:    make(map[uint]models.Branch, len(s.branches)),
		couriers:    make(map[uint]models.Courier, len(s.couriers)),
		customers:   make(map[string]models.Customer, len(s.customers)),
		cartLines:   make(map[uint]models.CartLine, len(s.cartLines)),
		orders:      make(map[uint]models.Order, len(s.orders)),
		paymentLogs: append([]models.PaymentLog(nil), s.paymentLogs...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.couriers {
		c.couriers[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.cartLines {
		c.cartLines[k] = v
	}
	for k, v := range s.orders {
		v.Lines = append([]models.OrderLine(nil), v.Lines...)
		c.orders[k] = v
	}
	return c
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// repo is bound either to the live store (locking per call) or to a
// transaction snapshot (already holding the lock).
type repo struct {
	store *Store
	tx    *state
}

func (r *repo) begin() (*state, func()) {
	if r.tx != nil {
		return r.tx, func() {}
	}
	r.store.mu.Lock()
	return r.store.st, r.store.mu.Unlock
}

func NewRepository(store *Store) *repository.Repository {
	return bind(&repo{store: store})
}

func bind(r *repo) *repository.Repository {
	return &repository.Repository{
		Stocks:      r,
		Carts:       r,
		Orders:      r,
		Branches:    r,
		Couriers:    r,
		Customers:   r,
		PaymentLogs: r,
		Transactor:  r,
	}
}

func (r *repo) WithinTransaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	if r.tx != nil {
		return fn(bind(r))
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := r.store.st.clone()
	if err := fn(bind(&repo{store: r.store, tx: snapshot})); err != nil {
		return err
	}
	r.store.st = snapshot
	return nil
}

// Seeding helpers for tests and local runs. They assign IDs and timestamps.

func (s *Store) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.st.nextID()
	p.CreatedAt, p.UpdatedAt = s.now(), s.now()
	s.st.products[p.ID] = p
	return p
}

func (s *Store) AddStock(st models.Stock) models.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.st.nextID()
	st.Product = nil
	st.CreatedAt, st.UpdatedAt = s.now(), s.now()
	s.st.stocks[st.ID] = st
	return st
}

func (s *Store) AddBranch(b models.Branch) models.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.st.nextID()
	b.CreatedAt, b.UpdatedAt = s.now(), s.now()
	s.st.branches[b.ID] = b
	return b
}

func (s *Store) AddCustomer(c models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.CreatedAt, c.UpdatedAt = s.now(), s.now()
	s.st.customers[c.ID] = c
}

// PaymentLogs returns a copy of every recorded callback.
func (s *Store) PaymentLogs() []models.PaymentLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PaymentLog(nil), s.st.paymentLogs...)
}

// Stock reads a stock row without its product, tombstoned or not.
func (s *Store) Stock(id uint) (models.Stock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.st.stocks[id]
	return st, ok
}
