package models

import "time"

// Customer is the local projection of an identity-provider user.
type Customer struct {
	ID          string    `json:"id" gorm:"primary_key;column:firebase_uid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	DeviceToken string    `json:"-" gorm:"column:fcm_token"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
