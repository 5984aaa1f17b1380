package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public/bookings/:id", GetBookingByToken)
	r.POST("/public/bookings/:id/checkin", PublicCheckIn)
	r.GET("/public/bookings/:id/menu", PublicMenu)
	r.POST("/public/bookings/:id/orders", PublicPlaceOrder)
	r.GET("/public/bookings/:id/invoice", PublicInvoice)
	return r
}

func TestPublicEndpoints_RejectMissingToken(t *testing.T) {
	r := publicRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/public/bookings/64f000000000000000000001"},
		{http.MethodPost, "/public/bookings/64f000000000000000000001/checkin"},
		{http.MethodGet, "/public/bookings/64f000000000000000000001/menu"},
		{http.MethodPost, "/public/bookings/64f000000000000000000001/orders"},
		{http.MethodGet, "/public/bookings/64f000000000000000000001/invoice"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	}
}

func TestPublicEndpoints_RejectForgedToken(t *testing.T) {
	r := publicRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/public/bookings/64f000000000000000000001?token=forged", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicEndpoints_RejectTokenForOtherBooking(t *testing.T) {
	r := publicRouter()

	token, _, err := utils.IssueBookingToken("64f000000000000000000001", utils.Now().Add(2*time.Hour))
	require.NoError(t, err)

	// Token was issued for a different booking than the one in the path.
	req := httptest.NewRequest(http.MethodGet,
		"/public/bookings/64f000000000000000000002?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
