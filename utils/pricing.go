package utils

import (
	"math"
	"time"

	"backend/models"
)

// BookingAmount prices a booking. Combo bookings always cost the combo's
// fixed price; hourly bookings cost ceil(hours × rate).
func BookingAmount(start, end time.Time, hourlyRate float64, combo *models.InventoryItem) float64 {
	if combo != nil {
		return combo.Price
	}
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 0
	}
	return math.Ceil(hours * hourlyRate)
}

// Invoice is the billing breakdown for a booking and its orders.
type Invoice struct {
	DeskCost    float64 `json:"desk_cost"`
	OrdersTotal float64 `json:"orders_total"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	FinalTotal  float64 `json:"final_total"`
}

// ComputeInvoice aggregates the desk-or-combo cost with all non-cancelled
// order totals and applies the discount. A flat discount wins over a
// percentage when both are given; the payable amount never goes below zero.
func ComputeInvoice(deskCost float64, orders []models.Order, flat, percent float64) Invoice {
	ordersTotal := 0.0
	for _, o := range orders {
		if o.Status == models.OrderCancelled {
			continue
		}
		ordersTotal += o.Total
	}

	subtotal := deskCost + ordersTotal

	discount := 0.0
	if flat > 0 {
		discount = flat
	} else if percent > 0 {
		discount = subtotal * percent / 100
	}

	final := subtotal - discount
	if final < 0 {
		final = 0
	}

	return Invoice{
		DeskCost:    deskCost,
		OrdersTotal: ordersTotal,
		Subtotal:    subtotal,
		Discount:    discount,
		FinalTotal:  final,
	}
}
