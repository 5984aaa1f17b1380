package controllers

import (
	"context"
	"net/http"
	"testing"

	"backend/config"
	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// withMockCollections points the global collection handles at a mocked
// deployment so handler flows can run without a server.
func withMockCollections(mt *mtest.T) {
	db := mt.Client.Database("coworking")
	config.DeskCollection = db.Collection("desks")
	config.InventoryCollection = db.Collection("inventory")
	config.BookingCollection = db.Collection("bookings")
	config.OrderCollection = db.Collection("orders")
	config.TransactionCollection = db.Collection("transactions")
}

func TestPlaceOrderForBooking_QuantityAboveStock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rejected before any write", func(mt *mtest.T) {
		withMockCollections(mt)

		itemID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "coworking.inventory", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: itemID},
			{Key: "sku", Value: "CF-01"},
			{Key: "name", Value: "Coffee"},
			{Key: "price", Value: 5.0},
			{Key: "quantity", Value: 3},
			{Key: "is_active", Value: true},
			{Key: "type", Value: models.ItemTypeSingle},
		}))

		booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingCheckedIn}
		input := models.OrderInput{Items: []models.OrderLineInput{{ItemID: itemID.Hex(), Quantity: 5}}}

		order, code, msg := PlaceOrderForBooking(context.Background(), booking, input, true, "tester")

		require.Nil(mt, order)
		assert.Equal(mt, http.StatusBadRequest, code)
		assert.Equal(mt, "insufficient stock", msg)

		// Stock stays untouched and no order is persisted: nothing but the
		// catalog lookup may reach the database.
		for _, evt := range mt.GetAllStartedEvents() {
			assert.Equal(mt, "find", evt.CommandName)
		}
	})
}

func TestPlaceOrderForBooking_RacedDecrementLeavesNoOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("guarded decrement loses the race", func(mt *mtest.T) {
		withMockCollections(mt)

		itemID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "coworking.inventory", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: itemID},
				{Key: "sku", Value: "CF-01"},
				{Key: "name", Value: "Coffee"},
				{Key: "price", Value: 5.0},
				{Key: "quantity", Value: 2},
				{Key: "is_active", Value: true},
				{Key: "type", Value: models.ItemTypeSingle},
			}),
			// A concurrent order drained the stock between the check and the
			// decrement; the guarded update matches nothing.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingCheckedIn}
		input := models.OrderInput{Items: []models.OrderLineInput{{ItemID: itemID.Hex(), Quantity: 2}}}

		order, code, msg := PlaceOrderForBooking(context.Background(), booking, input, true, "tester")

		require.Nil(mt, order)
		assert.Equal(mt, http.StatusBadRequest, code)
		assert.Equal(mt, "insufficient stock", msg)

		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotEqual(mt, "insert", evt.CommandName)
		}
	})
}
