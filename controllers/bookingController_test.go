package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCreateBooking_OverlappingIntervalConflicts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second booking on the same desk", func(mt *mtest.T) {
		withMockCollections(mt)

		deskID := primitive.NewObjectID()
		existingID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "coworking.desks", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: deskID},
				{Key: "label", Value: "A1"},
				{Key: "hourly_rate", Value: 10.0},
				{Key: "status", Value: models.DeskReserved},
			}),
			// Confirmed 09:00-11:00 booking already on the desk.
			mtest.CreateCursorResponse(0, "coworking.bookings", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: existingID},
				{Key: "desk_id", Value: deskID.Hex()},
				{Key: "start_time", Value: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
				{Key: "end_time", Value: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)},
				{Key: "status", Value: models.BookingConfirmed},
			}),
		)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.POST("/bookings", CreateBooking)

		body := `{
			"desk_id": "` + deskID.Hex() + `",
			"customer": {"name": "Ada"},
			"start_time": "2026-03-02T10:00:00Z",
			"end_time": "2026-03-02T12:00:00Z"
		}`
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(mt, http.StatusConflict, rec.Code)
		assert.Contains(mt, rec.Body.String(), "Desk already booked")

		// The conflicting booking must never be persisted.
		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotEqual(mt, "insert", evt.CommandName)
		}
	})
}

func TestRescheduleBooking_InactiveComboRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("combo price never falls back to hourly", func(mt *mtest.T) {
		withMockCollections(mt)

		bookingID := primitive.NewObjectID()
		deskID := primitive.NewObjectID()
		comboID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "coworking.bookings", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: bookingID},
				{Key: "desk_id", Value: deskID.Hex()},
				{Key: "start_time", Value: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
				{Key: "end_time", Value: time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)},
				{Key: "status", Value: models.BookingConfirmed},
				{Key: "payment_status", Value: models.PaymentPending},
				{Key: "total_amount", Value: 50.0},
				{Key: "combo_id", Value: comboID.Hex()},
			}),
			mtest.CreateCursorResponse(0, "coworking.desks", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: deskID},
				{Key: "label", Value: "A1"},
				{Key: "hourly_rate", Value: 10.0},
				{Key: "status", Value: models.DeskReserved},
			}),
			// No overlapping booking on the new interval.
			mtest.CreateCursorResponse(0, "coworking.bookings", mtest.FirstBatch),
			// The combo was deactivated after the booking was created.
			mtest.CreateCursorResponse(0, "coworking.inventory", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: comboID},
				{Key: "sku", Value: "HD-01"},
				{Key: "name", Value: "HalfDay"},
				{Key: "price", Value: 50.0},
				{Key: "type", Value: models.ItemTypeCombo},
				{Key: "duration", Value: 4},
				{Key: "is_active", Value: false},
			}),
		)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.PUT("/bookings/:id/reschedule", RescheduleBooking)

		body := `{"end_time": "2026-03-02T15:00:00Z"}`
		req := httptest.NewRequest(http.MethodPut, "/bookings/"+bookingID.Hex()+"/reschedule", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(mt, http.StatusBadRequest, rec.Code)
		assert.Contains(mt, rec.Body.String(), "Combo is not active")

		// Neither the booking nor its journal entry may be repriced.
		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotEqual(mt, "update", evt.CommandName)
		}
	})
}

func TestApplyBookingStatus_JournalFailureRevertsRefund(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cancel of a paid booking", func(mt *mtest.T) {
		withMockCollections(mt)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "journal unavailable"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		booking := &models.Booking{
			ID:            primitive.NewObjectID(),
			DeskID:        primitive.NewObjectID().Hex(),
			Status:        models.BookingCheckedIn,
			PaymentStatus: models.PaymentPaid,
			TotalAmount:   30,
		}

		err := ApplyBookingStatus(context.Background(), booking, models.BookingCancelled, "tester")

		require.Error(mt, err)
		assert.Equal(mt, models.PaymentPaid, booking.PaymentStatus)

		// update (cancel), failed insert (journal), update (revert); the desk
		// is never touched.
		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 3)
		assert.Equal(mt, "update", events[0].CommandName)
		assert.Equal(mt, "insert", events[1].CommandName)
		assert.Equal(mt, "update", events[2].CommandName)
		assert.Equal(mt, "bookings", events[2].Command.Lookup("update").StringValue())
	})
}
