package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateKioskKey(c *gin.Context) {
	var input struct {
		Label     string `json:"label" binding:"required"`
		ExpiresIn int    `json:"expires_in_days"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ExpiresIn <= 0 {
		input.ExpiresIn = 365
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate key"})
		return
	}

	now := utils.Now()
	key := models.KioskAPIKey{
		Key:       hex.EncodeToString(raw),
		Label:     input.Label,
		IsActive:  true,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, input.ExpiresIn),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.KioskKeyCollection.InsertOne(ctx, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store key"})
		return
	}
	key.ID = result.InsertedID.(primitive.ObjectID)

	// The raw key is returned once, at creation.
	c.JSON(http.StatusCreated, key)
}

func ListKioskKeys(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.KioskKeyCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve keys"})
		return
	}
	defer cursor.Close(ctx)

	var keys []models.KioskAPIKey
	if err = cursor.All(ctx, &keys); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode keys"})
		return
	}
	for i := range keys {
		keys[i].Key = ""
	}

	c.JSON(http.StatusOK, keys)
}

func RevokeKioskKey(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.KioskKeyCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"is_active": false},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke key"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// KioskCheckIn lets a door kiosk check a customer in by scanning the QR code
// from their booking link. The kiosk authenticates with its API key; the
// scanned token authenticates the customer.
func KioskCheckIn(c *gin.Context) {
	var input struct {
		BookingID string `json:"booking_id" binding:"required"`
		Token     string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateBookingToken(input.BookingID, input.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := FindBookingByHex(ctx, input.BookingID)
	if err != nil {
		if err == ErrBookingNotFound {
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

	if err := ApplyBookingStatus(ctx, booking, models.BookingCheckedIn, "kiosk:"+c.GetString("kioskLabel")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.BookingCheckedIn, "customer": booking.Customer.Name})
}
