package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KioskAPIKey authorizes an unattended check-in kiosk (door tablet) to call
// the kiosk endpoints.
type KioskAPIKey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string             `bson:"key" json:"key,omitempty"`
	Label     string             `bson:"label" json:"label"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}
