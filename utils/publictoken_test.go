package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestIssueAndValidateBookingToken(t *testing.T) {
	token, expiry, err := IssueBookingToken("64f000000000000000000001", time.Now().Add(2*time.Hour))

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiry.After(time.Now()))
	assert.NoError(t, ValidateBookingToken("64f000000000000000000001", token))
}

func TestValidateBookingToken_WrongBooking(t *testing.T) {
	token, _, err := IssueBookingToken("64f000000000000000000001", time.Now().Add(2*time.Hour))
	assert.NoError(t, err)

	err = ValidateBookingToken("64f000000000000000000002", token)
	assert.ErrorIs(t, err, ErrInvalidPublicToken)
}

func TestValidateBookingToken_Garbage(t *testing.T) {
	assert.ErrorIs(t, ValidateBookingToken("64f000000000000000000001", "not-a-token"), ErrInvalidPublicToken)
	assert.ErrorIs(t, ValidateBookingToken("64f000000000000000000001", ""), ErrInvalidPublicToken)
}

func TestValidateBookingToken_Expired(t *testing.T) {
	claims := &publicBookingClaim{
		BookingID: "64f000000000000000000001",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey())
	assert.NoError(t, err)

	assert.ErrorIs(t, ValidateBookingToken("64f000000000000000000001", signed), ErrInvalidPublicToken)
}

func TestValidateBookingToken_WrongKey(t *testing.T) {
	claims := &publicBookingClaim{
		BookingID: "64f000000000000000000001",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("someone_elses_key"))
	assert.NoError(t, err)

	assert.ErrorIs(t, ValidateBookingToken("64f000000000000000000001", signed), ErrInvalidPublicToken)
}

func TestPublicTokenExpiry(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	Now = func() time.Time { return fixed }
	defer func() { Now = time.Now }()

	// A booking ending far in the future: expiry tracks the end time plus
	// the buffer.
	farEnd := fixed.Add(72 * time.Hour)
	assert.Equal(t, farEnd.Add(publicTokenBuffer), PublicTokenExpiry(farEnd))

	// A booking ending within the day: the 24h floor wins so the link from
	// the confirmation mail keeps working.
	nearEnd := fixed.Add(2 * time.Hour)
	assert.Equal(t, fixed.Add(24*time.Hour), PublicTokenExpiry(nearEnd))
}
