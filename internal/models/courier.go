package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Courier struct {
	ID          uint            `json:"id" gorm:"primary_key"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	BaseCharge  decimal.Decimal `json:"charge" gorm:"column:charge;type:numeric(10,2);not null"`
	ExtraPerKg  decimal.Decimal `json:"extra_per_kg" gorm:"type:numeric(10,2);not null"`
	Active      bool            `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"-" sql:"index"`
}
