package handlers

import (
	"context"
	"net/http"
	"time"

	"backend/config"
	"backend/controllers"
	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The public flow lets a customer use the signed link from their booking
// confirmation (or its QR code) without an account. Every endpoint takes the
// booking id in the path and the token in the query string; the token must
// be valid, unexpired and issued for that exact booking.

func requireBookingToken(c *gin.Context) bool {
	if err := utils.ValidateBookingToken(c.Param("id"), c.Query("token")); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	return true
}

func GetBookingByToken(c *gin.Context) {
	if !requireBookingToken(c) {
		return
	}

	utils.SweepExpiredBookings()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := controllers.FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == controllers.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	deskLabel := ""
	if deskObjID, err := primitive.ObjectIDFromHex(booking.DeskID); err == nil {
		var desk models.Desk
		if err := config.DeskCollection.FindOne(ctx, bson.M{"_id": deskObjID}).Decode(&desk); err == nil {
			deskLabel = desk.Label
		}
	}

	cursor, err := config.OrderCollection.Find(ctx, bson.M{"booking_id": booking.ID.Hex()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":    booking,
		"desk_label": deskLabel,
		"orders":     orders,
	})
}

func PublicCheckIn(c *gin.Context) {
	if !requireBookingToken(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := controllers.FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == controllers.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if err := utils.ValidateBookingTransition(booking.Status, models.BookingCheckedIn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := controllers.ApplyBookingStatus(ctx, booking, models.BookingCheckedIn, "public"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.BookingCheckedIn})
}

// PublicPlaceOrder takes a food/item order from the customer. Unlike the
// staff flow, the booking must already be checked in.
func PublicPlaceOrder(c *gin.Context) {
	if !requireBookingToken(c) {
		return
	}

	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	booking, err := controllers.FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == controllers.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	order, code, msg := controllers.PlaceOrderForBooking(ctx, booking, input, true, "public")
	if order == nil {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func PublicInvoice(c *gin.Context) {
	if !requireBookingToken(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := controllers.FindBookingByHex(ctx, c.Param("id"))
	if err != nil {
		if err == controllers.ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	// Customers see the undiscounted bill; discounts are applied by staff at
	// checkout.
	invoice, err := controllers.BookingInvoice(ctx, booking, 0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_status": booking.PaymentStatus,
		"invoice":        invoice,
	})
}

// PublicMenu lists the active, in-stock catalog so the customer can order.
func PublicMenu(c *gin.Context) {
	if !requireBookingToken(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"type":      models.ItemTypeSingle,
		"is_active": true,
		"quantity":  bson.M{"$gt": 0},
	}

	cursor, err := config.InventoryCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve menu"})
		return
	}
	defer cursor.Close(ctx)

	type menuItem struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Category        string  `json:"category"`
		Price           float64 `json:"price"`
		Unit            string  `json:"unit,omitempty"`
		PhotoPreviewURL string  `json:"photo_preview_url,omitempty"`
	}

	var menu []menuItem
	for cursor.Next(ctx) {
		var item models.InventoryItem
		if err := cursor.Decode(&item); err != nil {
			continue
		}
		menu = append(menu, menuItem{
			ID:              item.ID.Hex(),
			Name:            item.Name,
			Category:        item.Category,
			Price:           item.Price,
			Unit:            item.Unit,
			PhotoPreviewURL: item.PhotoPreviewURL,
		})
	}
	if err := cursor.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing menu"})
		return
	}

	c.JSON(http.StatusOK, menu)
}
