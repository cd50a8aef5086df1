package postgres

import (
	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
)

type BranchPostgresRepo struct {
	db *gorm.DB
}

func NewBranchPostgres(db *gorm.DB) *BranchPostgresRepo {
	return &BranchPostgresRepo{db: db}
}

func (r *BranchPostgresRepo) FindBranchByName(name string) (models.Branch, error) {
	var b models.Branch
	err := r.db.Where("name = ? AND is_active = ?", name, true).First(&b).Error
	return b, translate(err, "find branch")
}

type CourierPostgresRepo struct {
	db *gorm.DB
}

func NewCourierPostgres(db *gorm.DB) *CourierPostgresRepo {
	return &CourierPostgresRepo{db: db}
}

// ActiveCourier returns nil without an error when no courier is active.
func (r *CourierPostgresRepo) ActiveCourier() (*models.Courier, error) {
	var c models.Courier
	err := r.db.Where("is_active = ?", true).Order("id").First(&c).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "active courier")
	}
	return &c, nil
}

func (r *CourierPostgresRepo) GetCourier(id uint) (models.Courier, error) {
	var c models.Courier
	err := r.db.Where("id = ?", id).First(&c).Error
	return c, translate(err, "get courier")
}

func (r *CourierPostgresRepo) ListCouriers() ([]models.Courier, error) {
	var out []models.Courier
	err := r.db.Order("id").Find(&out).Error
	return out, translate(err, "list couriers")
}

// CreateCourier inserts c; an active courier deactivates every other one.
func (r *CourierPostgresRepo) CreateCourier(c *models.Courier) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if c.Active {
			if err := deactivateCouriers(tx, 0); err != nil {
				return err
			}
		}
		// gorm skips zero-value bools on insert and would apply the column default.
		if err := tx.Create(c).Error; err != nil {
			return translate(err, "create courier")
		}
		if !c.Active {
			if err := tx.Model(c).UpdateColumn("is_active", false).Error; err != nil {
				return translate(err, "create courier")
			}
		}
		return nil
	})
}

func (r *CourierPostgresRepo) SetCourierActive(id uint, active bool) (models.Courier, error) {
	var out models.Courier
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if active {
			if err := deactivateCouriers(tx, id); err != nil {
				return err
			}
		}
		q := tx.Model(&models.Courier{}).Where("id = ?", id).Update("is_active", active)
		if q.Error != nil {
			return translate(q.Error, "toggle courier")
		}
		if q.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return translate(tx.Where("id = ?", id).First(&out).Error, "toggle courier")
	})
	return out, err
}

// UpdateCourier overwrites the editable fields of c and reloads it. Saving an
// active courier deactivates every other one.
func (r *CourierPostgresRepo) UpdateCourier(c *models.Courier) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if c.Active {
			if err := deactivateCouriers(tx, c.ID); err != nil {
				return err
			}
		}
		q := tx.Model(&models.Courier{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
			"name":         c.Name,
			"description":  c.Description,
			"charge":       c.BaseCharge,
			"extra_per_kg": c.ExtraPerKg,
			"is_active":    c.Active,
		})
		if q.Error != nil {
			return translate(q.Error, "update courier")
		}
		if q.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return translate(tx.Where("id = ?", c.ID).First(c).Error, "update courier")
	})
}

func (r *CourierPostgresRepo) DeleteCourier(id uint) error {
	q := r.db.Where("id = ?", id).Delete(&models.Courier{})
	if q.Error != nil {
		return translate(q.Error, "delete courier")
	}
	if q.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func deactivateCouriers(tx *gorm.DB, except uint) error {
	err := tx.Model(&models.Courier{}).
		Where("is_active = ? AND id <> ?", true, except).
		Update("is_active", false).Error
	return translate(err, "deactivate couriers")
}
