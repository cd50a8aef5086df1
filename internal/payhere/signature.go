// Package payhere authenticates PayHere payment notifications.
package payhere

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// Gateway status codes carried in status_code.
const (
	StatusSuccess     = 2
	StatusPending     = 0
	StatusCancelled   = -1
	StatusFailed      = -2
	StatusChargedback = -3
)

var (
	ErrSignatureMismatch = errors.New("payhere: signature mismatch")
	ErrMerchantMismatch  = errors.New("payhere: unexpected merchant id")
)

// Callback is the notify_url payload, accepted as form or JSON.
type Callback struct {
	MerchantID    string `form:"merchant_id" json:"merchant_id" binding:"required"`
	OrderID       string `form:"order_id" json:"order_id" binding:"required"`
	PaymentID     string `form:"payment_id" json:"payment_id"`
	Amount        string `form:"payhere_amount" json:"payhere_amount" binding:"required"`
	Currency      string `form:"payhere_currency" json:"payhere_currency" binding:"required"`
	StatusCode    int    `form:"status_code" json:"status_code" binding:"gte=-3,lte=2"`
	Signature     string `form:"md5sig" json:"md5sig" binding:"required"`
	StatusMessage string `form:"status_message" json:"status_message"`
}

func (c Callback) Succeeded() bool { return c.StatusCode == StatusSuccess }

func (c Callback) Pending() bool { return c.StatusCode == StatusPending }

type Verifier struct {
	merchantID   string
	hashedSecret string
}

func NewVerifier(merchantID, secret string) *Verifier {
	return &Verifier{merchantID: merchantID, hashedSecret: upperMD5(secret)}
}

// Sign computes UPPER(MD5(merchant + order + amount + currency + status + UPPER(MD5(secret)))).
func (v *Verifier) Sign(merchantID, orderID, amount, currency string, statusCode int) string {
	return upperMD5(merchantID + orderID + amount + currency + strconv.Itoa(statusCode) + v.hashedSecret)
}

func (v *Verifier) Verify(c Callback) error {
	want := v.Sign(c.MerchantID, c.OrderID, c.Amount, c.Currency, c.StatusCode)
	got := strings.ToUpper(strings.TrimSpace(c.Signature))
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrSignatureMismatch
	}
	if v.merchantID != "" && c.MerchantID != v.merchantID {
		return ErrMerchantMismatch
	}
	return nil
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
