package postgres

import (
	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
)

type CartPostgresRepo struct {
	db *gorm.DB
}

func NewCartPostgres(db *gorm.DB) *CartPostgresRepo {
	return &CartPostgresRepo{db: db}
}

func (r *CartPostgresRepo) ActiveLines(customerID string) ([]models.CartLine, error) {
	var out []models.CartLine
	err := r.db.Preload("Stock").
		Preload("Stock.Product").
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Order("id").
		Find(&out).Error
	return out, translate(err, "list cart lines")
}

// FindActiveLine and GetLine lock the row so a read-modify-write of the
// quantity inside a transaction cannot lose a concurrent update.
func (r *CartPostgresRepo) FindActiveLine(customerID string, stockID uint, size models.Size) (models.CartLine, error) {
	var l models.CartLine
	err := r.db.Set("gorm:query_option", "FOR UPDATE").
		Where("customer_id = ? AND stock_id = ? AND size = ? AND is_active = ?",
			customerID, stockID, size, true).
		First(&l).Error
	return l, translate(err, "find cart line")
}

func (r *CartPostgresRepo) GetLine(id uint) (models.CartLine, error) {
	var l models.CartLine
	if err := r.db.Set("gorm:query_option", "FOR UPDATE").
		Where("id = ? AND is_active = ?", id, true).
		First(&l).Error; err != nil {
		return l, translate(err, "get cart line")
	}
	var st models.Stock
	err := r.db.Preload("Product").Where("id = ?", l.StockID).First(&st).Error
	switch {
	case err == nil:
		l.Stock = &st
	case !gorm.IsRecordNotFoundError(err):
		return l, translate(err, "get cart line stock")
	}
	return l, nil
}

func (r *CartPostgresRepo) CreateLine(line *models.CartLine) error {
	return translate(r.db.Set("gorm:association_autocreate", false).
		Set("gorm:association_autoupdate", false).
		Create(line).Error, "create cart line")
}

func (r *CartPostgresRepo) UpdateLineQuantity(id uint, qty int) error {
	q := r.db.Model(&models.CartLine{}).Where("id = ?", id).Update("quantity", qty)
	if q.Error != nil {
		return translate(q.Error, "update cart line")
	}
	if q.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CartPostgresRepo) DeleteLine(id uint) error {
	q := r.db.Where("id = ?", id).Delete(&models.CartLine{})
	if q.Error != nil {
		return translate(q.Error, "delete cart line")
	}
	if q.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CartPostgresRepo) ClearCustomerLines(customerID string) (int64, error) {
	q := r.db.Where("customer_id = ? AND is_active = ?", customerID, true).Delete(&models.CartLine{})
	return q.RowsAffected, translate(q.Error, "clear cart")
}
