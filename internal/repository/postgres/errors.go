package postgres

import (
	"shop-fulfillment/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// translate maps driver errors onto the storage sentinels and wraps the rest.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if gorm.IsRecordNotFoundError(err) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrapf(models.ErrDuplicate, "%s: %s", op, pqErr.Constraint)
	}
	return errors.Wrap(err, op)
}
