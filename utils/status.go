package utils

import (
	"errors"
	"fmt"
	"time"

	"backend/models"
)

var ErrTerminalState = errors.New("terminal state")

// Booking statuses move forward only: pending → confirmed → checked-in →
// completed. Cancellation is reachable from any non-terminal state.
var bookingRank = map[string]int{
	models.BookingPending:   0,
	models.BookingConfirmed: 1,
	models.BookingCheckedIn: 2,
	models.BookingCompleted: 3,
}

func ValidateBookingTransition(current, next string) error {
	if current == models.BookingCompleted || current == models.BookingCancelled {
		return fmt.Errorf("%w: booking is %s", ErrTerminalState, current)
	}
	if next == models.BookingCancelled {
		return nil
	}
	curRank, ok := bookingRank[current]
	if !ok {
		return fmt.Errorf("unknown booking status %q", current)
	}
	nextRank, ok := bookingRank[next]
	if !ok {
		return fmt.Errorf("invalid booking status %q", next)
	}
	if nextRank <= curRank {
		return fmt.Errorf("cannot move booking from %s to %s", current, next)
	}
	return nil
}

var orderRank = map[string]int{
	models.OrderPending:   0,
	models.OrderConfirmed: 1,
	models.OrderPreparing: 2,
	models.OrderReady:     3,
	models.OrderDelivered: 4,
}

func ValidateOrderTransition(current, next string) error {
	if current == models.OrderDelivered || current == models.OrderCancelled {
		return fmt.Errorf("%w: order is %s", ErrTerminalState, current)
	}
	if next == models.OrderCancelled {
		return nil
	}
	curRank, ok := orderRank[current]
	if !ok {
		return fmt.Errorf("unknown order status %q", current)
	}
	nextRank, ok := orderRank[next]
	if !ok {
		return fmt.Errorf("invalid order status %q", next)
	}
	if nextRank <= curRank {
		return fmt.Errorf("cannot move order from %s to %s", current, next)
	}
	return nil
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IsBookingActive reports whether the booking still occupies its desk
// interval, i.e. it is neither cancelled nor completed.
func IsBookingActive(status string) bool {
	return status != models.BookingCancelled && status != models.BookingCompleted
}
