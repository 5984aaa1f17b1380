package utils

import (
	"testing"
	"time"

	"backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBookingAmount_Hourly(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	assert.Equal(t, 20.0, BookingAmount(start, end, 10, nil))
}

func TestBookingAmount_PartialHourRoundsUp(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	// 1.5h × 10/h = 15, ceil leaves it; 1.5h × 7/h = 10.5 rounds up to 11.
	assert.Equal(t, 15.0, BookingAmount(start, end, 10, nil))
	assert.Equal(t, 11.0, BookingAmount(start, end, 7, nil))
}

func TestBookingAmount_ComboIgnoresDuration(t *testing.T) {
	combo := &models.InventoryItem{
		Type:     models.ItemTypeCombo,
		Price:    50,
		Duration: 4,
	}

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Interval is 6h, nothing like the combo's 4h. The price stays fixed.
	end := start.Add(6 * time.Hour)

	assert.Equal(t, 50.0, BookingAmount(start, end, 10, combo))
}

func TestComputeInvoice_PercentDiscount(t *testing.T) {
	orders := []models.Order{
		{Total: 10, Status: models.OrderPending},
	}

	inv := ComputeInvoice(20, orders, 0, 10)

	assert.Equal(t, 20.0, inv.DeskCost)
	assert.Equal(t, 10.0, inv.OrdersTotal)
	assert.Equal(t, 30.0, inv.Subtotal)
	assert.Equal(t, 3.0, inv.Discount)
	assert.Equal(t, 27.0, inv.FinalTotal)
}

func TestComputeInvoice_FlatWinsOverPercent(t *testing.T) {
	inv := ComputeInvoice(100, nil, 15, 50)

	assert.Equal(t, 15.0, inv.Discount)
	assert.Equal(t, 85.0, inv.FinalTotal)
}

func TestComputeInvoice_SkipsCancelledOrders(t *testing.T) {
	orders := []models.Order{
		{Total: 10, Status: models.OrderDelivered},
		{Total: 25, Status: models.OrderCancelled},
	}

	inv := ComputeInvoice(20, orders, 0, 0)

	assert.Equal(t, 10.0, inv.OrdersTotal)
	assert.Equal(t, 30.0, inv.FinalTotal)
}

func TestComputeInvoice_NeverNegative(t *testing.T) {
	inv := ComputeInvoice(10, nil, 25, 0)

	assert.Equal(t, 0.0, inv.FinalTotal)
}

func TestComputeInvoice_NoDiscount(t *testing.T) {
	inv := ComputeInvoice(40, nil, 0, 0)

	assert.Equal(t, 0.0, inv.Discount)
	assert.Equal(t, 40.0, inv.FinalTotal)
}
