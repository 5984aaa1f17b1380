package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Public booking tokens let a customer view and check in their own booking
// without an account. The token embeds the booking id and expires at
// max(endTime+buffer, now+24h) so a link sent at creation keeps working for
// at least a day.

const publicTokenBuffer = 30 * time.Minute

var ErrInvalidPublicToken = errors.New("invalid or expired public token")

type publicBookingClaim struct {
	BookingID string `json:"booking_id"`
	jwt.StandardClaims
}

// PublicTokenExpiry returns the expiry instant for a booking ending at end.
func PublicTokenExpiry(end time.Time) time.Time {
	expiry := end.Add(publicTokenBuffer)
	floor := Now().Add(24 * time.Hour)
	if floor.After(expiry) {
		return floor
	}
	return expiry
}

// IssueBookingToken signs a public access token for the booking.
func IssueBookingToken(bookingID string, end time.Time) (string, time.Time, error) {
	expiry := PublicTokenExpiry(end)
	claims := &publicBookingClaim{
		BookingID: bookingID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiry.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtKey())
	return signed, expiry, err
}

// ValidateBookingToken checks signature, expiry and that the token was issued
// for the given booking.
func ValidateBookingToken(bookingID, signedToken string) error {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&publicBookingClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return jwtKey(), nil
		},
	)
	if err != nil {
		return ErrInvalidPublicToken
	}

	claims, ok := token.Claims.(*publicBookingClaim)
	if !ok || !token.Valid || claims.BookingID != bookingID {
		return ErrInvalidPublicToken
	}

	return nil
}
