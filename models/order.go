package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderItem is an immutable snapshot of a catalog item at order time.
type OrderItem struct {
	ItemID   string  `bson:"item_id" json:"item_id"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Subtotal float64 `bson:"subtotal" json:"subtotal"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BookingID   string             `bson:"booking_id" json:"booking_id"`
	Items       []OrderItem        `bson:"items" json:"items"`
	Total       float64            `bson:"total" json:"total"`
	Status      string             `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderedAt   time.Time          `bson:"ordered_at" json:"ordered_at"`
	DeliveredAt *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type OrderLineInput struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type OrderInput struct {
	Items []OrderLineInput `json:"items" binding:"required"`
	Notes string           `json:"notes,omitempty"`
}
