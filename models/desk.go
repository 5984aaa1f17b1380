package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DeskAvailable   = "available"
	DeskReserved    = "reserved"
	DeskOccupied    = "occupied"
	DeskMaintenance = "maintenance"
)

type Desk struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Label      string             `bson:"label" json:"label" binding:"required"`
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
	HourlyRate float64            `bson:"hourly_rate" json:"hourly_rate"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type UpdateDesk struct {
	Label      string   `json:"label,omitempty"`
	Location   string   `json:"location,omitempty"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
}

// IsDeskStatus reports whether s is one of the four desk states.
func IsDeskStatus(s string) bool {
	switch s {
	case DeskAvailable, DeskReserved, DeskOccupied, DeskMaintenance:
		return true
	}
	return false
}
