package postgres

import (
	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
)

type OrderPostgresRepo struct {
	db *gorm.DB
}

func NewOrderPostgres(db *gorm.DB) *OrderPostgresRepo {
	return &OrderPostgresRepo{db: db}
}

func (r *OrderPostgresRepo) OrderNumberExists(number string) (bool, error) {
	var count int
	err := r.db.Unscoped().Model(&models.Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, translate(err, "check order number")
}

func (r *OrderPostgresRepo) PickupIDExists(pickupID string) (bool, error) {
	var count int
	err := r.db.Unscoped().Model(&models.Order{}).Where("pickup_id = ?", pickupID).Count(&count).Error
	return count > 0, translate(err, "check pickup id")
}

// CreateOrder inserts the header and every line. Callers run it inside a transaction.
func (r *OrderPostgresRepo) CreateOrder(o *models.Order) error {
	tx := r.db.
		Set("gorm:association_autocreate", false).
		Set("gorm:association_autoupdate", false)

	lines := o.Lines
	o.Lines = nil
	if err := tx.Create(o).Error; err != nil {
		o.Lines = lines
		return translate(err, "create order")
	}
	for i := range lines {
		lines[i].OrderID = o.ID
		if err := tx.Create(&lines[i]).Error; err != nil {
			o.Lines = lines
			return translate(err, "create order line")
		}
	}
	o.Lines = lines
	return nil
}

func (r *OrderPostgresRepo) preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
		Preload("Branch").
		Preload("Courier")
}

func (r *OrderPostgresRepo) GetOrder(id uint) (models.Order, error) {
	var o models.Order
	err := r.preloaded(r.db).Where("id = ?", id).First(&o).Error
	return o, translate(err, "get order")
}

// GetOrderForUpdate locks the order row until the surrounding transaction ends.
func (r *OrderPostgresRepo) GetOrderForUpdate(id uint) (models.Order, error) {
	return r.lockOrder("id = ?", id)
}

func (r *OrderPostgresRepo) GetOrderByNumberForUpdate(number string) (models.Order, error) {
	return r.lockOrder("order_number = ?", number)
}

func (r *OrderPostgresRepo) lockOrder(where string, arg interface{}) (models.Order, error) {
	var o models.Order
	if err := r.db.Set("gorm:query_option", "FOR UPDATE").
		Where(where, arg).
		First(&o).Error; err != nil {
		return o, translate(err, "lock order")
	}
	if err := r.loadRelations(&o); err != nil {
		return o, err
	}
	return o, nil
}

func (r *OrderPostgresRepo) loadRelations(o *models.Order) error {
	if err := r.db.Where("order_id = ?", o.ID).Order("id").Find(&o.Lines).Error; err != nil {
		return translate(err, "load order lines")
	}
	if o.BranchID != nil {
		var b models.Branch
		if err := r.db.Where("id = ?", *o.BranchID).First(&b).Error; err == nil {
			o.Branch = &b
		} else if !gorm.IsRecordNotFoundError(err) {
			return translate(err, "load branch")
		}
	}
	if o.CourierID != nil {
		var c models.Courier
		if err := r.db.Where("id = ?", *o.CourierID).First(&c).Error; err == nil {
			o.Courier = &c
		} else if !gorm.IsRecordNotFoundError(err) {
			return translate(err, "load courier")
		}
	}
	return nil
}

// SaveOrder writes the header columns only; lines are immutable after checkout.
func (r *OrderPostgresRepo) SaveOrder(o *models.Order) error {
	q := r.db.Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":            o.Status,
		"payment_status":    o.PaymentStatus,
		"transaction_id":    o.TransactionID,
		"courier_id":        o.CourierID,
		"tracking_number":   o.TrackingNumber,
		"processed_by":      o.ProcessedBy,
		"stock_released_at": o.StockReleasedAt,
		"picked_up_at":      o.PickedUpAt,
		"delivered_at":      o.DeliveredAt,
	})
	if q.Error != nil {
		return translate(q.Error, "save order")
	}
	if q.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteOrder tombstones the order together with its lines.
func (r *OrderPostgresRepo) DeleteOrder(id uint) error {
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
		return translate(err, "delete order lines")
	}
	q := r.db.Where("id = ?", id).Delete(&models.Order{})
	if q.Error != nil {
		return translate(q.Error, "delete order")
	}
	if q.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *OrderPostgresRepo) ListCustomerOrders(customerID string) ([]models.Order, error) {
	var out []models.Order
	err := r.preloaded(r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, translate(err, "list customer orders")
}

func (r *OrderPostgresRepo) ListOrders() ([]models.Order, error) {
	var out []models.Order
	err := r.preloaded(r.db).Order("created_at DESC").Find(&out).Error
	return out, translate(err, "list orders")
}
