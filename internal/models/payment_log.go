package models

import "time"

type PaymentLog struct {
	ID            uint      `json:"id" gorm:"primary_key"`
	OrderNumber   string    `json:"order_number" gorm:"index"`
	MerchantID    string    `json:"merchant_id"`
	Amount        string    `json:"payhere_amount"`
	Currency      string    `json:"payhere_currency"`
	StatusCode    int       `json:"status_code"`
	Signature     string    `json:"md5sig"`
	PaymentID     string    `json:"payment_id"`
	StatusMessage string    `json:"status_message"`
	Outcome       string    `json:"outcome"`
	ErrorMessage  string    `json:"error_message" gorm:"type:text"`
	Success       bool      `json:"is_success"`
	CreatedAt     time.Time `json:"created_at"`
}
