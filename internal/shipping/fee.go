// Package shipping computes delivery charges from aggregate parcel weight.
package shipping

import (
	"github.com/shopspring/decimal"

	"shop-fulfillment/internal/models"
)

// BaseWeightGrams is covered by the courier's base charge.
const BaseWeightGrams = 1000

// ComputeFee prices a parcel. Pickup orders and the absence of an active
// courier are free; every started kilogram past the first adds ExtraPerKg.
func ComputeFee(deliveryType models.DeliveryType, totalWeightGrams int, courier *models.Courier) decimal.Decimal {
	if deliveryType == models.DeliveryTypePickup || courier == nil {
		return decimal.Zero
	}
	fee := courier.BaseCharge
	if totalWeightGrams > BaseWeightGrams {
		extraKg := (totalWeightGrams - BaseWeightGrams + 999) / 1000
		fee = fee.Add(courier.ExtraPerKg.Mul(decimal.NewFromInt(int64(extraKg))))
	}
	return fee
}

// TotalWeight sums quantity times product weight over the lines.
func TotalWeight(lines []models.CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.WeightGrams()
	}
	return total
}
