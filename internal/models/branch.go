package models

import "time"

type Branch struct {
	ID        uint       `json:"id" gorm:"primary_key"`
	Name      string     `json:"name" gorm:"unique_index;not null"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Phone     string     `json:"phone"`
	Active    bool       `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-" sql:"index"`
}
