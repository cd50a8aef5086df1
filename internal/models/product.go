package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint            `json:"id" gorm:"primary_key"`
	Name      string          `json:"name" gorm:"not null"`
	MainImage string          `json:"main_image"`
	Color     string          `json:"color,omitempty"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	CostPrice decimal.Decimal `json:"-" gorm:"type:numeric(10,2);not null;default:0"`
	Weight    int             `json:"weight" gorm:"not null;default:0"` // grams
	Active    bool            `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"-" sql:"index"`
}
