package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// findOverlappingBooking returns the first non-cancelled, non-completed
// booking on the desk whose interval intersects [start,end), excluding
// excludeID when set.
func findOverlappingBooking(ctx context.Context, deskID string, start, end time.Time, excludeID *primitive.ObjectID) (*models.Booking, error) {
	filter := bson.M{
		"desk_id":    deskID,
		"status":     bson.M{"$nin": []string{models.BookingCancelled, models.BookingCompleted}},
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}

	var existing models.Booking
	err := config.BookingCollection.FindOne(ctx, filter).Decode(&existing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// loadCombo fetches and validates the combo referenced by a booking. Combo
// linkage has one authoritative write path: it is validated here at booking
// time and never patched afterwards.
func loadCombo(ctx context.Context, comboID string) (*models.InventoryItem, int, string) {
	objID, err := primitive.ObjectIDFromHex(comboID)
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid combo ID"
	}
	var combo models.InventoryItem
	err = config.InventoryCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&combo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, http.StatusNotFound, "Combo not found"
		}
		return nil, http.StatusInternalServerError, "Failed to retrieve combo"
	}
	if combo.Type != models.ItemTypeCombo {
		return nil, http.StatusBadRequest, "Referenced item is not a combo"
	}
	if !combo.IsActive {
		return nil, http.StatusBadRequest, "Combo is not active"
	}
	return &combo, 0, ""
}

func CreateBooking(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !input.EndTime.After(input.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}
	if input.Customer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}

	status := input.Status
	if status == "" {
		status = models.BookingConfirmed
	}
	if status != models.BookingPending && status != models.BookingConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New bookings must be pending or confirmed"})
		return
	}

	deskObjID, err := primitive.ObjectIDFromHex(input.DeskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var desk models.Desk
	err = config.DeskCollection.FindOne(ctx, bson.M{"_id": deskObjID}).Decode(&desk)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Desk not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve desk"})
		}
		return
	}
	if desk.Status == models.DeskMaintenance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Desk is under maintenance"})
		return
	}

	var combo *models.InventoryItem
	durationWarning := ""
	if input.ComboID != "" {
		var code int
		var msg string
		combo, code, msg = loadCombo(ctx, input.ComboID)
		if combo == nil {
			c.JSON(code, gin.H{"error": msg})
			return
		}
		if input.EndTime.Sub(input.StartTime) != time.Duration(combo.Duration)*time.Hour {
			durationWarning = "booking interval does not match combo duration"
		}
	}

	existing, err := findOverlappingBooking(ctx, input.DeskID, input.StartTime, input.EndTime, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check desk availability"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Desk already booked for this interval"})
		return
	}

	now := utils.Now()
	booking := models.Booking{
		DeskID:        input.DeskID,
		Customer:      input.Customer,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Status:        status,
		TotalAmount:   utils.BookingAmount(input.StartTime, input.EndTime, desk.HourlyRate, combo),
		PaymentStatus: models.PaymentPending,
		ComboID:       input.ComboID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := config.BookingCollection.InsertOne(ctx, booking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)

	// The overlap check and the insert are two steps, so two concurrent
	// requests can both pass the check. Re-check after insert and let the
	// booking with the larger _id (the later insert) back off.
	conflict, err := findOverlappingBooking(ctx, input.DeskID, input.StartTime, input.EndTime, &booking.ID)
	if err == nil && conflict != nil && conflict.ID.Hex() < booking.ID.Hex() {
		_, _ = config.BookingCollection.DeleteOne(ctx, bson.M{"_id": booking.ID})
		c.JSON(http.StatusConflict, gin.H{"error": "Desk already booked for this interval"})
		return
	}

	token, _, err := utils.IssueBookingToken(booking.ID.Hex(), booking.EndTime)
	if err != nil {
		log.Printf("booking %s: failed to issue public token: %v", booking.ID.Hex(), err)
	} else {
		booking.PublicToken = token
		booking.PublicURL = publicBookingURL(booking.ID.Hex(), token)
		_, err = config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{
			"$set": bson.M{"public_token": token, "public_url": booking.PublicURL},
		})
		if err != nil {
			log.Printf("booking %s: failed to store public token: %v", booking.ID.Hex(), err)
		}
	}

	err = appendTransaction(ctx, models.TxnIncome, booking.TotalAmount, models.TxnSourceBooking, booking.ID.Hex(), "Booking", c.GetString("userID"))
	if err != nil {
		log.Printf("booking %s: failed to record income transaction: %v", booking.ID.Hex(), err)
	}

	if err := setDeskStatusByHex(ctx, booking.DeskID, models.DeskReserved); err != nil {
		log.Printf("booking %s: failed to reserve desk: %v", booking.ID.Hex(), err)
	}

	if booking.Customer.Email != "" {
		go func(b models.Booking, label string) {
			if err := utils.SendBookingConfirmation(b, label); err != nil {
				log.Printf("booking %s: failed to send confirmation email: %v", b.ID.Hex(), err)
			}
		}(booking, desk.Label)
	}

	response := gin.H{
		"booking":    booking,
		"public_url": booking.PublicURL,
	}
	if durationWarning != "" {
		response["duration_warning"] = durationWarning
	}

	c.JSON(http.StatusCreated, response)
}

func publicBookingURL(bookingID, token string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:1414"
	}
	return base + "/public/bookings/" + bookingID + "?token=" + token
}

func ListBookings(c *gin.Context) {
	utils.SweepExpiredBookings()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if deskID := c.Query("desk_id"); deskID != "" {
		filter["desk_id"] = deskID
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter["start_time"] = bson.M{"$gte": t}
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter["end_time"] = bson.M{"$lte": t}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.BookingCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func GetBooking(c *gin.Context) {
	utils.SweepExpiredBookings()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.BookingCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ApplyBookingStatus persists a validated status transition with its side
// effects: check-in and completion stamps, desk state, refund on cancel.
func ApplyBookingStatus(ctx context.Context, booking *models.Booking, next, actor string) error {
	now := utils.Now()
	set := bson.M{"status": next, "updated_at": now}

	switch next {
	case models.BookingCheckedIn:
		set["checked_in_at"] = now
	case models.BookingCompleted:
		set["completed_at"] = now
	}

	refund := next == models.BookingCancelled && booking.PaymentStatus == models.PaymentPaid
	if refund {
		set["payment_status"] = models.PaymentRefunded
	}

	_, err := config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}

	// The journal entry follows the status write: if it cannot be recorded,
	// undo the transition so the books never show a refund that was not
	// journaled.
	if refund {
		if err := appendTransaction(ctx, models.TxnExpense, booking.TotalAmount, models.TxnSourceBooking, booking.ID.Hex(), "Booking", actor); err != nil {
			revert := bson.M{"status": booking.Status, "payment_status": models.PaymentPaid, "updated_at": utils.Now()}
			if _, rerr := config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{"$set": revert}); rerr != nil {
				log.Printf("booking %s: failed to revert cancellation after journal error: %v", booking.ID.Hex(), rerr)
			}
			return err
		}
		booking.PaymentStatus = models.PaymentRefunded
	}

	var deskStatus string
	switch next {
	case models.BookingCheckedIn:
		deskStatus = models.DeskOccupied
	case models.BookingCompleted, models.BookingCancelled:
		deskStatus = models.DeskAvailable
	}
	if deskStatus != "" {
		if err := setDeskStatusByHex(ctx, booking.DeskID, deskStatus); err != nil {
			log.Printf("booking %s: failed to update desk status: %v", booking.ID.Hex(), err)
		}
	}

	booking.Status = next
	return nil
}

func UpdateBookingStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.BookingCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if err := utils.ValidateBookingTransition(booking.Status, input.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ApplyBookingStatus(ctx, &booking, input.Status, c.GetString("userID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": booking.Status})
}

func CancelBooking(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.BookingCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if err := utils.ValidateBookingTransition(booking.Status, models.BookingCancelled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ApplyBookingStatus(ctx, &booking, models.BookingCancelled, c.GetString("userID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.BookingCancelled, "payment_status": bookingPaymentStatus(ctx, booking.ID)})
}

func bookingPaymentStatus(ctx context.Context, id primitive.ObjectID) string {
	var b models.Booking
	if err := config.BookingCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return ""
	}
	return b.PaymentStatus
}

func RescheduleBooking(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var input models.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.BookingCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	if !utils.IsBookingActive(booking.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot reschedule a " + booking.Status + " booking"})
		return
	}

	newStart := booking.StartTime
	newEnd := booking.EndTime
	newDeskID := booking.DeskID
	if input.StartTime != nil {
		newStart = *input.StartTime
	}
	if input.EndTime != nil {
		newEnd = *input.EndTime
	}
	if input.DeskID != "" {
		newDeskID = input.DeskID
	}
	if !newEnd.After(newStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	deskObjID, err := primitive.ObjectIDFromHex(newDeskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk ID"})
		return
	}
	var desk models.Desk
	err = config.DeskCollection.FindOne(ctx, bson.M{"_id": deskObjID}).Decode(&desk)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Desk not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve desk"})
		}
		return
	}
	if desk.Status == models.DeskMaintenance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Desk is under maintenance"})
		return
	}

	existing, err := findOverlappingBooking(ctx, newDeskID, newStart, newEnd, &booking.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check desk availability"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Desk already booked for this interval"})
		return
	}

	var combo *models.InventoryItem
	if booking.ComboID != "" {
		var code int
		var msg string
		combo, code, msg = loadCombo(ctx, booking.ComboID)
		if combo == nil {
			// A combo booking keeps the combo price; never fall back to the
			// hourly rate because the combo could not be loaded.
			c.JSON(code, gin.H{"error": msg})
			return
		}
	}
	amount := utils.BookingAmount(newStart, newEnd, desk.HourlyRate, combo)

	// The interval changed, so the old token's implicit expiry is wrong.
	// Reissue, invalidating nothing (old signatures stay valid until their
	// own expiry, but the stored link is the fresh one).
	token, _, err := utils.IssueBookingToken(booking.ID.Hex(), newEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue public token"})
		return
	}
	publicURL := publicBookingURL(booking.ID.Hex(), token)

	set := bson.M{
		"desk_id":      newDeskID,
		"start_time":   newStart,
		"end_time":     newEnd,
		"total_amount": amount,
		"public_token": token,
		"public_url":   publicURL,
		"updated_at":   utils.Now(),
	}
	_, err = config.BookingCollection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reschedule booking"})
		return
	}

	// Keep the journal in line with the new price.
	_, err = config.TransactionCollection.UpdateOne(ctx,
		bson.M{"source": models.TxnSourceBooking, "reference_id": booking.ID.Hex(), "type": models.TxnIncome},
		bson.M{"$set": bson.M{"amount": amount}},
	)
	if err != nil {
		log.Printf("booking %s: failed to update journal amount: %v", booking.ID.Hex(), err)
	}

	if newDeskID != booking.DeskID {
		if err := setDeskStatusByHex(ctx, booking.DeskID, models.DeskAvailable); err != nil {
			log.Printf("booking %s: failed to release old desk: %v", booking.ID.Hex(), err)
		}
		if err := setDeskStatusByHex(ctx, newDeskID, models.DeskReserved); err != nil {
			log.Printf("booking %s: failed to reserve new desk: %v", booking.ID.Hex(), err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"desk_id":      newDeskID,
		"start_time":   newStart,
		"end_time":     newEnd,
		"total_amount": amount,
		"public_url":   publicURL,
	})
}

var ErrBookingNotFound = errors.New("booking not found")

// FindBookingByHex is shared by the public and kiosk flows.
func FindBookingByHex(ctx context.Context, id string) (*models.Booking, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	var booking models.Booking
	err = config.BookingCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}
