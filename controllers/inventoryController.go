package controllers

import (
	"context"
	"fmt"
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

func AddItem(c *gin.Context) {
	var input struct {
		SKU               string                  `json:"sku" binding:"required"`
		Name              string                  `json:"name" binding:"required"`
		Category          string                  `json:"category"`
		Price             float64                 `json:"price"`
		Quantity          int                     `json:"quantity"`
		Unit              string                  `json:"unit"`
		LowStockThreshold int                     `json:"low_stock_threshold"`
		Type              string                  `json:"type"`
		Duration          int                     `json:"duration"`
		IncludedItems     []models.ComboComponent `json:"included_items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Type == "" {
		input.Type = models.ItemTypeSingle
	}
	if input.Type != models.ItemTypeSingle && input.Type != models.ItemTypeCombo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item type"})
		return
	}
	if input.Price < 0 || input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and quantity must not be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if input.Type == models.ItemTypeCombo {
		if input.Duration <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Combo duration must be positive"})
			return
		}
		if err := validateComboComponents(ctx, input.IncludedItems); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	count, err := config.InventoryCollection.CountDocuments(ctx, bson.M{"sku": input.SKU})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check SKU"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "SKU already exists"})
		return
	}

	now := utils.Now()
	item := models.InventoryItem{
		SKU:               input.SKU,
		Name:              input.Name,
		Category:          models.NormalizeCategory(input.Category),
		Price:             input.Price,
		Quantity:          input.Quantity,
		Unit:              input.Unit,
		LowStockThreshold: input.LowStockThreshold,
		IsActive:          true,
		Type:              input.Type,
		Duration:          input.Duration,
		IncludedItems:     input.IncludedItems,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	result, err := config.InventoryCollection.InsertOne(ctx, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	item.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, item)
}

// validateComboComponents checks every component references an existing,
// plain (non-combo) item. Combos never nest.
func validateComboComponents(ctx context.Context, components []models.ComboComponent) error {
	if len(components) == 0 {
		return fmt.Errorf("combo must include at least one item")
	}
	for _, comp := range components {
		if comp.Quantity <= 0 {
			return fmt.Errorf("component quantity must be positive")
		}
		objID, err := primitive.ObjectIDFromHex(comp.ItemID)
		if err != nil {
			return fmt.Errorf("invalid component item id %q", comp.ItemID)
		}
		var item models.InventoryItem
		err = config.InventoryCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return fmt.Errorf("component item %s does not exist", comp.ItemID)
			}
			return fmt.Errorf("failed to look up component item")
		}
		if item.Type == models.ItemTypeCombo {
			return fmt.Errorf("combo cannot include another combo")
		}
	}
	return nil
}

func ListItems(c *gin.Context) {
	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = models.NormalizeCategory(category)
	}
	if itemType := c.Query("type"); itemType != "" {
		filter["type"] = itemType
	}
	if active := c.Query("active"); active == "true" {
		filter["is_active"] = true
	} else if active == "false" {
		filter["is_active"] = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.InventoryCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve items"})
		return
	}
	defer cursor.Close(ctx)

	var items []models.InventoryItem
	if err = cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func GetItem(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.InventoryItem
	err = config.InventoryCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

func UpdateItem(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input models.UpdateInventoryItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updated_at": utils.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Category != "" {
		set["category"] = models.NormalizeCategory(input.Category)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}
		set["price"] = *input.Price
	}
	if input.Unit != "" {
		set["unit"] = input.Unit
	}
	if input.LowStockThreshold != nil {
		set["low_stock_threshold"] = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		set["is_active"] = *input.IsActive
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.InventoryCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated"})
}

// AdjustStock applies a manual stock correction. Subtracting below zero
// clamps to zero rather than failing; orders go through the guarded
// decrement instead.
func AdjustStock(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input models.StockAdjustment
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.InventoryItem
	err = config.InventoryCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		}
		return
	}

	var quantity int
	switch input.Mode {
	case models.StockAdd:
		quantity = item.Quantity + input.Amount
	case models.StockSubtract:
		quantity = item.Quantity - input.Amount
	case models.StockSet:
		quantity = input.Amount
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adjustment mode"})
		return
	}
	if quantity < 0 {
		quantity = 0
	}

	_, err = config.InventoryCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"quantity": quantity, "updated_at": utils.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quantity": quantity})
}

func ListLowStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"type":      models.ItemTypeSingle,
		"is_active": true,
		"$expr":     bson.M{"$lte": bson.A{"$quantity", "$low_stock_threshold"}},
	}

	cursor, err := config.InventoryCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve items"})
		return
	}
	defer cursor.Close(ctx)

	var items []models.InventoryItem
	if err = cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// decrementStock atomically takes qty units off an item's stock. The filter
// guards the decrement: it only matches while enough stock remains, so
// concurrent orders can never drive the quantity negative.
func decrementStock(ctx context.Context, itemID primitive.ObjectID, qty int) error {
	result, err := config.InventoryCollection.UpdateOne(ctx,
		bson.M{"_id": itemID, "quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"quantity": -qty}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("insufficient stock")
	}
	return nil
}

// restock returns units to an item, used to roll back a failed order and to
// return stock when an order is cancelled.
func restock(ctx context.Context, itemID primitive.ObjectID, qty int) error {
	_, err := config.InventoryCollection.UpdateOne(ctx,
		bson.M{"_id": itemID},
		bson.M{"$inc": bson.M{"quantity": qty}},
	)
	return err
}
