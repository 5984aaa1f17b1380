package controllers

import (
	"context"
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

func CreateDesk(c *gin.Context) {
	var input struct {
		Label      string  `json:"label" binding:"required"`
		HourlyRate float64 `json:"hourly_rate"`
		Location   string  `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.HourlyRate < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate must not be negative"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := config.DeskCollection.CountDocuments(ctx, bson.M{"label": input.Label})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check desk label"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Desk label already exists"})
		return
	}

	now := utils.Now()
	desk := models.Desk{
		Label:      input.Label,
		Location:   input.Location,
		HourlyRate: input.HourlyRate,
		Status:     models.DeskAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := config.DeskCollection.InsertOne(ctx, desk)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create desk"})
		return
	}
	desk.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, desk)
}

func ListDesks(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.IsDeskStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk status"})
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.DeskCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve desks"})
		return
	}
	defer cursor.Close(ctx)

	var desks []models.Desk
	if err = cursor.All(ctx, &desks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode desks"})
		return
	}

	c.JSON(http.StatusOK, desks)
}

func GetDesk(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var desk models.Desk
	err = config.DeskCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&desk)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Desk not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve desk"})
		}
		return
	}

	c.JSON(http.StatusOK, desk)
}

func UpdateDesk(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk ID"})
		return
	}

	var input models.UpdateDesk
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	set := bson.M{"updated_at": utils.Now()}
	if input.Label != "" {
		count, err := config.DeskCollection.CountDocuments(ctx, bson.M{"label": input.Label, "_id": bson.M{"$ne": objID}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check desk label"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Desk label already exists"})
			return
		}
		set["label"] = input.Label
	}
	if input.Location != "" {
		set["location"] = input.Location
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hourly_rate must not be negative"})
			return
		}
		set["hourly_rate"] = *input.HourlyRate
	}

	result, err := config.DeskCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update desk"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Desk not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Desk updated"})
}

func SetDeskStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsDeskStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid desk status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.DeskCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"status": input.Status, "updated_at": utils.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update desk status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Desk not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}

// setDeskStatusByHex moves a desk between states as booking transitions
// happen. Lookup failures only get logged by callers; a missed desk status
// never fails the booking operation itself.
func setDeskStatusByHex(ctx context.Context, deskID, status string) error {
	objID, err := primitive.ObjectIDFromHex(deskID)
	if err != nil {
		return err
	}
	_, err = config.DeskCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"status": status, "updated_at": utils.Now()},
	})
	return err
}
