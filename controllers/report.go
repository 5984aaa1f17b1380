package controllers

import (
	"context"
	"net/http"
	"time"

	"backend/config"
	"backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ListTransactions(c *gin.Context) {
	filter := bson.M{}
	if txnType := c.Query("type"); txnType != "" {
		if txnType != models.TxnIncome && txnType != models.TxnExpense {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction type"})
			return
		}
		filter["type"] = txnType
	}
	if source := c.Query("source"); source != "" {
		filter["source"] = source
	}
	dateFilter := bson.M{}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
		dateFilter["$gte"] = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
		dateFilter["$lte"] = t
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.TransactionCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"date": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err = cursor.All(ctx, &transactions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode transactions"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// TransactionSummary totals the journal by type and source over an optional
// date range.
func TransactionSummary(c *gin.Context) {
	filter := bson.M{}
	dateFilter := bson.M{}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
		dateFilter["$gte"] = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
		dateFilter["$lte"] = t
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.TransactionCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}
	defer cursor.Close(ctx)

	var (
		totalIncome  float64
		totalExpense float64
		count        int
		bySource     = map[string]float64{}
	)

	for cursor.Next(ctx) {
		var txn models.Transaction
		if err := cursor.Decode(&txn); err != nil {
			continue
		}
		count++
		switch txn.Type {
		case models.TxnIncome:
			totalIncome += txn.Amount
			bySource[txn.Source] += txn.Amount
		case models.TxnExpense:
			totalExpense += txn.Amount
			bySource[txn.Source] -= txn.Amount
		}
	}
	if err := cursor.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"net":           totalIncome - totalExpense,
		"by_source":     bySource,
		"total_entries": count,
	})
}

// DeskUtilization reports booked hours and revenue per desk over an optional
// date range.
func DeskUtilization(c *gin.Context) {
	bookingFilter := bson.M{"status": bson.M{"$ne": models.BookingCancelled}}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
		bookingFilter["start_time"] = bson.M{"$gte": t}
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
		bookingFilter["end_time"] = bson.M{"$lte": t}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.BookingCollection.Find(ctx, bookingFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	defer cursor.Close(ctx)

	type deskRow struct {
		Hours    float64 `json:"hours"`
		Bookings int     `json:"bookings"`
		Revenue  float64 `json:"revenue"`
	}
	rows := map[string]*deskRow{}

	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			continue
		}
		row, ok := rows[b.DeskID]
		if !ok {
			row = &deskRow{}
			rows[b.DeskID] = row
		}
		row.Hours += b.EndTime.Sub(b.StartTime).Hours()
		row.Bookings++
		row.Revenue += b.TotalAmount
	}
	if err := cursor.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing bookings"})
		return
	}

	// Resolve desk labels for the response.
	result := map[string]gin.H{}
	for deskID, row := range rows {
		label := deskID
		var desk models.Desk
		if objID, err := primitive.ObjectIDFromHex(deskID); err == nil {
			if err := config.DeskCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&desk); err == nil {
				label = desk.Label
			}
		}
		result[label] = gin.H{
			"hours":    row.Hours,
			"bookings": row.Bookings,
			"revenue":  row.Revenue,
		}
	}

	c.JSON(http.StatusOK, result)
}
