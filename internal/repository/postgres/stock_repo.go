package postgres

import (
	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type StockPostgresRepo struct {
	db *gorm.DB
}

func NewStockPostgres(db *gorm.DB) *StockPostgresRepo {
	return &StockPostgresRepo{db: db}
}

func (r *StockPostgresRepo) GetStock(id uint) (models.Stock, error) {
	var s models.Stock
	err := r.db.Preload("Product").Where("id = ?", id).First(&s).Error
	return s, translate(err, "get stock")
}

// Reserve decrements one bucket in a single conditional statement, so two
// concurrent reservations can never take the counter below zero.
func (r *StockPostgresRepo) Reserve(id uint, size models.Size, qty int) error {
	col, ok := size.Column()
	if !ok {
		return errors.Errorf("unknown size %q", size)
	}
	q := r.db.Model(&models.Stock{}).
		Where("id = ? AND is_active = ? AND "+col+" >= ?", id, true, qty).
		UpdateColumn(col, gorm.Expr(col+" - ?", qty))
	if q.Error != nil {
		return translate(q.Error, "reserve stock")
	}
	if q.RowsAffected == 1 {
		return nil
	}

	var n int
	if err := r.db.Model(&models.Stock{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, "reserve stock")
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return models.ErrInsufficientStock
}

func (r *StockPostgresRepo) Release(id uint, size models.Size, qty int) error {
	col, ok := size.Column()
	if !ok {
		return errors.Errorf("unknown size %q", size)
	}
	q := r.db.Model(&models.Stock{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", qty))
	if q.Error != nil {
		return translate(q.Error, "release stock")
	}
	if q.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *StockPostgresRepo) SetQuantities(id uint, q map[models.Size]int) (models.Stock, error) {
	fields := make(map[string]interface{}, len(q))
	for size, n := range q {
		col, ok := size.Column()
		if !ok {
			return models.Stock{}, errors.Errorf("unknown size %q", size)
		}
		fields[col] = n
	}
	res := r.db.Model(&models.Stock{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return models.Stock{}, translate(res.Error, "set stock quantities")
	}
	if res.RowsAffected == 0 {
		return models.Stock{}, models.ErrNotFound
	}
	return r.GetStock(id)
}
