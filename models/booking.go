package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCheckedIn = "checked-in"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Customer struct {
	Name  string `bson:"name" json:"name" binding:"required"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DeskID        string             `bson:"desk_id" json:"desk_id"`
	Customer      Customer           `bson:"customer" json:"customer"`
	StartTime     time.Time          `bson:"start_time" json:"start_time"`
	EndTime       time.Time          `bson:"end_time" json:"end_time"`
	Status        string             `bson:"status" json:"status"`
	TotalAmount   float64            `bson:"total_amount" json:"total_amount"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	ComboID       string             `bson:"combo_id,omitempty" json:"combo_id,omitempty"`
	PublicToken   string             `bson:"public_token,omitempty" json:"public_token,omitempty"`
	PublicURL     string             `bson:"public_url,omitempty" json:"public_url,omitempty"`
	CheckedInAt   *time.Time         `bson:"checked_in_at,omitempty" json:"checked_in_at,omitempty"`
	CompletedAt   *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type BookingInput struct {
	DeskID    string    `json:"desk_id" binding:"required"`
	Customer  Customer  `json:"customer" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	ComboID   string    `json:"combo_id,omitempty"`
	Status    string    `json:"status,omitempty"`
}

type RescheduleInput struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	DeskID    string     `json:"desk_id,omitempty"`
}

// DiscountInput carries an optional discount applied at payment time. When
// both fields are set the flat amount wins.
type DiscountInput struct {
	FlatDiscount    float64 `json:"flat_discount,omitempty"`
	PercentDiscount float64 `json:"percent_discount,omitempty"`
}
