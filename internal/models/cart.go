package models

import "time"

type CartLine struct {
	ID         uint       `json:"id" gorm:"primary_key"`
	CustomerID string     `json:"customer_id" gorm:"index;not null"`
	StockID    uint       `json:"stock_id" gorm:"not null"`
	Stock      *Stock     `json:"stock,omitempty" gorm:"foreignkey:StockID"`
	Size       Size       `json:"size" gorm:"type:varchar(3);not null"`
	Quantity   int        `json:"quantity" gorm:"not null;default:1"`
	Active     bool       `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"-" sql:"index"`
}

// WeightGrams is quantity times the product weight; zero when the product is not loaded.
func (l CartLine) WeightGrams() int {
	if l.Stock == nil || l.Stock.Product == nil {
		return 0
	}
	return l.Quantity * l.Stock.Product.Weight
}
