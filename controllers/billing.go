package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// bookingBaseCost recomputes the desk-or-combo cost from current catalog
// data rather than trusting booking.total_amount, which markPaid overwrites
// with the discounted final total.
func bookingBaseCost(ctx context.Context, booking *models.Booking) (float64, error) {
	var combo *models.InventoryItem
	if booking.ComboID != "" {
		loaded, _, msg := loadCombo(ctx, booking.ComboID)
		if loaded == nil {
			return 0, fmt.Errorf("combo lookup failed: %s", msg)
		}
		combo = loaded
	}

	var rate float64
	if combo == nil {
		deskObjID, err := primitive.ObjectIDFromHex(booking.DeskID)
		if err != nil {
			return 0, fmt.Errorf("invalid desk id on booking")
		}
		var desk models.Desk
		if err := config.DeskCollection.FindOne(ctx, bson.M{"_id": deskObjID}).Decode(&desk); err != nil {
			if err == mongo.ErrNoDocuments {
				return 0, fmt.Errorf("desk not found")
			}
			return 0, err
		}
		rate = desk.HourlyRate
	}

	return utils.BookingAmount(booking.StartTime, booking.EndTime, rate, combo), nil
}

// BookingInvoice aggregates the booking's base cost with its non-cancelled
// orders and applies the discount.
func BookingInvoice(ctx context.Context, booking *models.Booking, flat, percent float64) (utils.Invoice, error) {
	baseCost, err := bookingBaseCost(ctx, booking)
	if err != nil {
		return utils.Invoice{}, err
	}

	cursor, err := config.OrderCollection.Find(ctx, bson.M{"booking_id": booking.ID.Hex()})
	if err != nil {
		return utils.Invoice{}, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return utils.Invoice{}, err
	}

	return utils.ComputeInvoice(baseCost, orders, flat, percent), nil
}

func GetInvoice(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	var discount models.DiscountInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&discount); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	invoice, err := BookingInvoice(ctx, booking, discount.FlatDiscount, discount.PercentDiscount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id":     booking.ID.Hex(),
		"payment_status": booking.PaymentStatus,
		"invoice":        invoice,
	})
}

// MarkPaid settles a booking: the discounted final total is persisted as the
// booking amount, reconciling any drift from orders added after creation.
func MarkPaid(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if booking.PaymentStatus != models.PaymentPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is already " + booking.PaymentStatus})
		return
	}

	var discount models.DiscountInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&discount); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	invoice, err := BookingInvoice(ctx, booking, discount.FlatDiscount, discount.PercentDiscount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute invoice"})
		return
	}

	_, err = config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{
		"$set": bson.M{
			"payment_status": models.PaymentPaid,
			"total_amount":   invoice.FinalTotal,
			"updated_at":     utils.Now(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark booking paid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_status": models.PaymentPaid,
		"invoice":        invoice,
	})
}

func RefundBooking(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if booking.PaymentStatus != models.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only paid bookings can be refunded"})
		return
	}

	_, err = config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{
		"$set": bson.M{
			"payment_status": models.PaymentRefunded,
			"updated_at":     utils.Now(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refund booking"})
		return
	}

	err = appendTransaction(ctx, models.TxnExpense, booking.TotalAmount, models.TxnSourceBooking, booking.ID.Hex(), "Booking", c.GetString("userID"))
	if err != nil {
		log.Printf("booking %s: failed to record refund transaction: %v", booking.ID.Hex(), err)
	}

	c.JSON(http.StatusOK, gin.H{"payment_status": models.PaymentRefunded})
}

// Checkout closes out a booking: settles the bill if still pending, then
// completes the booking and frees the desk.
func Checkout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	booking, err := FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if booking.Status != models.BookingConfirmed && booking.Status != models.BookingCheckedIn {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only confirmed or checked-in bookings can be checked out"})
		return
	}

	var discount models.DiscountInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&discount); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	invoice, err := BookingInvoice(ctx, booking, discount.FlatDiscount, discount.PercentDiscount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute invoice"})
		return
	}

	now := utils.Now()
	paymentStatus := booking.PaymentStatus
	set := bson.M{
		"status":       models.BookingCompleted,
		"completed_at": now,
		"updated_at":   now,
	}
	if booking.PaymentStatus == models.PaymentPending {
		paymentStatus = models.PaymentPaid
		set["payment_status"] = models.PaymentPaid
		set["total_amount"] = invoice.FinalTotal
	}

	_, err = config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete checkout"})
		return
	}

	if err := setDeskStatusByHex(ctx, booking.DeskID, models.DeskAvailable); err != nil {
		log.Printf("booking %s: failed to release desk: %v", booking.ID.Hex(), err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         models.BookingCompleted,
		"payment_status": paymentStatus,
		"invoice":        invoice,
	})
}
