package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// These tests cover the request-validation layer: everything here is
// rejected before any database access happens.

func performRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestCreateBooking_RejectsInvertedInterval(t *testing.T) {
	r := newRouter()
	r.POST("/bookings", CreateBooking)

	body := `{
		"desk_id": "64f000000000000000000001",
		"customer": {"name": "Ada"},
		"start_time": "2026-03-02T11:00:00Z",
		"end_time": "2026-03-02T09:00:00Z"
	}`
	rec := performRequest(r, http.MethodPost, "/bookings", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "end_time must be after start_time")
}

func TestCreateBooking_RejectsInvalidInitialStatus(t *testing.T) {
	r := newRouter()
	r.POST("/bookings", CreateBooking)

	body := `{
		"desk_id": "64f000000000000000000001",
		"customer": {"name": "Ada"},
		"start_time": "2026-03-02T09:00:00Z",
		"end_time": "2026-03-02T11:00:00Z",
		"status": "checked-in"
	}`
	rec := performRequest(r, http.MethodPost, "/bookings", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending or confirmed")
}

func TestCreateBooking_RejectsMalformedDeskID(t *testing.T) {
	r := newRouter()
	r.POST("/bookings", CreateBooking)

	body := `{
		"desk_id": "not-an-id",
		"customer": {"name": "Ada"},
		"start_time": "2026-03-02T09:00:00Z",
		"end_time": "2026-03-02T11:00:00Z"
	}`
	rec := performRequest(r, http.MethodPost, "/bookings", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid desk ID")
}

func TestCreateBooking_RejectsMissingFields(t *testing.T) {
	r := newRouter()
	r.POST("/bookings", CreateBooking)

	rec := performRequest(r, http.MethodPost, "/bookings", `{"desk_id": "64f000000000000000000001"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBookingStatus_RejectsMalformedID(t *testing.T) {
	r := newRouter()
	r.PUT("/bookings/:id/status", UpdateBookingStatus)

	rec := performRequest(r, http.MethodPut, "/bookings/zzz/status", `{"status": "confirmed"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid booking ID")
}

func TestCreateDesk_RejectsNegativeRate(t *testing.T) {
	r := newRouter()
	r.POST("/desks", CreateDesk)

	rec := performRequest(r, http.MethodPost, "/desks", `{"label": "A1", "hourly_rate": -5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "hourly_rate")
}

func TestSetDeskStatus_RejectsUnknownStatus(t *testing.T) {
	r := newRouter()
	r.PUT("/desks/:id/status", SetDeskStatus)

	rec := performRequest(r, http.MethodPut, "/desks/64f000000000000000000001/status", `{"status": "broken"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid desk status")
}

func TestAddItem_RejectsUnknownType(t *testing.T) {
	r := newRouter()
	r.POST("/items", AddItem)

	rec := performRequest(r, http.MethodPost, "/items", `{"sku": "CF-01", "name": "Coffee", "type": "bundle"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid item type")
}

func TestAddItem_RejectsNegativeQuantity(t *testing.T) {
	r := newRouter()
	r.POST("/items", AddItem)

	rec := performRequest(r, http.MethodPost, "/items", `{"sku": "CF-01", "name": "Coffee", "quantity": -1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdjustStock_RejectsMalformedID(t *testing.T) {
	r := newRouter()
	r.PUT("/items/:id/stock", AdjustStock)

	rec := performRequest(r, http.MethodPut, "/items/nope/stock", `{"amount": 3, "mode": "add"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid item ID")
}

func TestPlaceOrder_UnknownBookingIsNotFound(t *testing.T) {
	r := newRouter()
	r.POST("/bookings/:id/orders", PlaceOrder)

	rec := performRequest(r, http.MethodPost, "/bookings/not-a-hex-id/orders",
		`{"items": [{"item_id": "64f000000000000000000002", "quantity": 1}]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking not found")
}

func TestGetInvoice_UnknownBookingIsNotFound(t *testing.T) {
	r := newRouter()
	r.GET("/bookings/:id/invoice", GetInvoice)

	rec := performRequest(r, http.MethodGet, "/bookings/not-a-hex-id/invoice", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKioskCheckIn_RejectsBadToken(t *testing.T) {
	r := newRouter()
	r.POST("/kiosk/checkin", KioskCheckIn)

	rec := performRequest(r, http.MethodPost, "/kiosk/checkin",
		`{"booking_id": "64f000000000000000000001", "token": "forged"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
