package controllers

import (
	"context"
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

type decrementedLine struct {
	itemID primitive.ObjectID
	qty    int
}

// PlaceOrderForBooking validates, prices and persists an order against a
// booking, decrementing stock all-or-nothing. The public flow requires the
// booking to be checked in; staff may also order for a confirmed booking.
// Returns the created order, or an HTTP status code and message on failure.
func PlaceOrderForBooking(ctx context.Context, booking *models.Booking, input models.OrderInput, requireCheckedIn bool, createdBy string) (*models.Order, int, string) {
	if requireCheckedIn {
		if booking.Status != models.BookingCheckedIn {
			return nil, http.StatusBadRequest, "Booking must be checked in to place an order"
		}
	} else {
		if booking.Status != models.BookingConfirmed && booking.Status != models.BookingCheckedIn {
			return nil, http.StatusBadRequest, "Booking is not active"
		}
	}
	if len(input.Items) == 0 {
		return nil, http.StatusBadRequest, "Order must contain at least one item"
	}

	// Phase one: resolve every line and check stock before touching anything.
	var lines []models.OrderItem
	var itemIDs []primitive.ObjectID
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, http.StatusBadRequest, "Item quantity must be positive"
		}
		objID, err := primitive.ObjectIDFromHex(line.ItemID)
		if err != nil {
			return nil, http.StatusBadRequest, "Invalid item ID"
		}

		var item models.InventoryItem
		err = config.InventoryCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, http.StatusBadRequest, "Item " + line.ItemID + " does not exist"
			}
			return nil, http.StatusInternalServerError, "Failed to retrieve item"
		}
		if item.Type != models.ItemTypeSingle {
			return nil, http.StatusBadRequest, "Combos cannot be ordered as items"
		}
		if !item.IsActive {
			return nil, http.StatusBadRequest, "Item " + item.Name + " is not available"
		}
		if item.Quantity < line.Quantity {
			return nil, http.StatusBadRequest, "insufficient stock"
		}

		lines = append(lines, models.OrderItem{
			ItemID:   line.ItemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
			Subtotal: item.Price * float64(line.Quantity),
		})
		itemIDs = append(itemIDs, objID)
	}

	// Phase two: guarded decrements. Another order may have raced us past
	// the check above, so each decrement re-verifies stock; on any failure
	// everything already taken goes back.
	var done []decrementedLine
	rollback := func() {
		for _, d := range done {
			if err := restock(ctx, d.itemID, d.qty); err != nil {
				log.Printf("order rollback: failed to restock item %s: %v", d.itemID.Hex(), err)
			}
		}
	}

	for i, line := range lines {
		if err := decrementStock(ctx, itemIDs[i], line.Quantity); err != nil {
			rollback()
			return nil, http.StatusBadRequest, "insufficient stock"
		}
		done = append(done, decrementedLine{itemID: itemIDs[i], qty: line.Quantity})
	}

	total := 0.0
	for _, line := range lines {
		total += line.Subtotal
	}

	now := utils.Now()
	order := models.Order{
		BookingID: booking.ID.Hex(),
		Items:     lines,
		Total:     total,
		Status:    models.OrderPending,
		Notes:     input.Notes,
		OrderedAt: now,
		UpdatedAt: now,
	}

	result, err := config.OrderCollection.InsertOne(ctx, order)
	if err != nil {
		rollback()
		return nil, http.StatusInternalServerError, "Failed to create order"
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	err = appendTransaction(ctx, models.TxnIncome, order.Total, models.TxnSourceOrder, order.ID.Hex(), "Order", createdBy)
	if err != nil {
		// No orphaned decrements: undo the order entirely.
		if _, delErr := config.OrderCollection.DeleteOne(ctx, bson.M{"_id": order.ID}); delErr != nil {
			log.Printf("order %s: failed to delete after journal error: %v", order.ID.Hex(), delErr)
		}
		rollback()
		return nil, http.StatusInternalServerError, "Failed to record order transaction"
	}

	return &order, 0, ""
}

func PlaceOrder(c *gin.Context) {
	bookingID := c.Param("id")

	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	booking, err := FindBookingByHex(ctx, bookingID)
	if err != nil {
		if err == ErrBookingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	order, code, msg := PlaceOrderForBooking(ctx, booking, input, false, c.GetString("userID"))
	if order == nil {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func ListOrders(c *gin.Context) {
	filter := bson.M{}
	if bookingID := c.Query("booking_id"); bookingID != "" {
		filter["booking_id"] = bookingID
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.OrderCollection.Find(ctx, filter)
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

	c.JSON(http.StatusOK, orders)
}

func GetOrder(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = config.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

func UpdateOrderStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = config.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	if err := utils.ValidateOrderTransition(order.Status, input.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := utils.Now()
	set := bson.M{"status": input.Status, "updated_at": now}
	if input.Notes != "" {
		set["notes"] = input.Notes
	}
	if input.Status == models.OrderDelivered && order.DeliveredAt == nil {
		set["delivered_at"] = now
	}

	_, err = config.OrderCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	// A cancelled order returns its stock and reverses its journal income.
	if input.Status == models.OrderCancelled {
		for _, line := range order.Items {
			itemID, err := primitive.ObjectIDFromHex(line.ItemID)
			if err != nil {
				continue
			}
			if err := restock(ctx, itemID, line.Quantity); err != nil {
				log.Printf("order %s: failed to restock item %s: %v", order.ID.Hex(), line.ItemID, err)
			}
		}
		err = appendTransaction(ctx, models.TxnExpense, order.Total, models.TxnSourceOrder, order.ID.Hex(), "Order", c.GetString("userID"))
		if err != nil {
			log.Printf("order %s: failed to record cancellation transaction: %v", order.ID.Hex(), err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}

func DeleteOrder(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = config.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	if order.Status != models.OrderPending && order.Status != models.OrderCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending or cancelled orders can be deleted"})
		return
	}

	// Deleting a still-pending order is a cancellation in effect: the stock
	// comes back and the income entry is reversed. A cancelled order already
	// had both done.
	if order.Status == models.OrderPending {
		for _, line := range order.Items {
			itemID, err := primitive.ObjectIDFromHex(line.ItemID)
			if err != nil {
				continue
			}
			if err := restock(ctx, itemID, line.Quantity); err != nil {
				log.Printf("order %s: failed to restock item %s: %v", order.ID.Hex(), line.ItemID, err)
			}
		}
		err = appendTransaction(ctx, models.TxnExpense, order.Total, models.TxnSourceOrder, order.ID.Hex(), "Order", c.GetString("userID"))
		if err != nil {
			log.Printf("order %s: failed to record deletion transaction: %v", order.ID.Hex(), err)
		}
	}

	_, err = config.OrderCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
