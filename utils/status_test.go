package utils

import (
	"testing"
	"time"

	"backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransition_ForwardOnly(t *testing.T) {
	assert.NoError(t, ValidateBookingTransition(models.BookingPending, models.BookingConfirmed))
	assert.NoError(t, ValidateBookingTransition(models.BookingConfirmed, models.BookingCheckedIn))
	assert.NoError(t, ValidateBookingTransition(models.BookingCheckedIn, models.BookingCompleted))
	assert.NoError(t, ValidateBookingTransition(models.BookingPending, models.BookingCompleted))

	assert.Error(t, ValidateBookingTransition(models.BookingCheckedIn, models.BookingConfirmed))
	assert.Error(t, ValidateBookingTransition(models.BookingConfirmed, models.BookingConfirmed))
	assert.Error(t, ValidateBookingTransition(models.BookingConfirmed, models.BookingPending))
}

func TestBookingTransition_TerminalStates(t *testing.T) {
	err := ValidateBookingTransition(models.BookingCompleted, models.BookingCheckedIn)
	assert.ErrorIs(t, err, ErrTerminalState)

	err = ValidateBookingTransition(models.BookingCancelled, models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrTerminalState)

	// Even cancelling again is rejected once terminal.
	err = ValidateBookingTransition(models.BookingCancelled, models.BookingCancelled)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestBookingTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for _, status := range []string{models.BookingPending, models.BookingConfirmed, models.BookingCheckedIn} {
		assert.NoError(t, ValidateBookingTransition(status, models.BookingCancelled), status)
	}
}

func TestBookingTransition_RejectsUnknownStatus(t *testing.T) {
	assert.Error(t, ValidateBookingTransition(models.BookingPending, "archived"))
}

func TestOrderTransition(t *testing.T) {
	assert.NoError(t, ValidateOrderTransition(models.OrderPending, models.OrderConfirmed))
	assert.NoError(t, ValidateOrderTransition(models.OrderConfirmed, models.OrderPreparing))
	assert.NoError(t, ValidateOrderTransition(models.OrderPreparing, models.OrderReady))
	assert.NoError(t, ValidateOrderTransition(models.OrderReady, models.OrderDelivered))
	assert.NoError(t, ValidateOrderTransition(models.OrderPreparing, models.OrderCancelled))

	assert.Error(t, ValidateOrderTransition(models.OrderReady, models.OrderPreparing))
	assert.ErrorIs(t, ValidateOrderTransition(models.OrderDelivered, models.OrderCancelled), ErrTerminalState)
	assert.ErrorIs(t, ValidateOrderTransition(models.OrderCancelled, models.OrderPending), ErrTerminalState)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	// 09:00–11:00 vs 10:00–12:00 collide.
	assert.True(t, Overlaps(at(0), at(2), at(1), at(3)))
	// Contained interval collides.
	assert.True(t, Overlaps(at(0), at(4), at(1), at(2)))
	// Touching endpoints do not: intervals are half-open.
	assert.False(t, Overlaps(at(0), at(2), at(2), at(4)))
	assert.False(t, Overlaps(at(2), at(4), at(0), at(2)))
	// Disjoint.
	assert.False(t, Overlaps(at(0), at(1), at(3), at(4)))
}

func TestIsBookingActive(t *testing.T) {
	assert.True(t, IsBookingActive(models.BookingPending))
	assert.True(t, IsBookingActive(models.BookingConfirmed))
	assert.True(t, IsBookingActive(models.BookingCheckedIn))
	assert.False(t, IsBookingActive(models.BookingCompleted))
	assert.False(t, IsBookingActive(models.BookingCancelled))
}
