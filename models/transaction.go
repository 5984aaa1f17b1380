package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TxnIncome  = "income"
	TxnExpense = "expense"
)

const (
	TxnSourceBooking   = "booking"
	TxnSourceOrder     = "order"
	TxnSourceInventory = "inventory"
)

// Transaction is an append-only journal entry. Entries are never updated
// except when a booking is repriced on reschedule.
type Transaction struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type           string             `bson:"type" json:"type"`
	Amount         float64            `bson:"amount" json:"amount"`
	Source         string             `bson:"source" json:"source"`
	ReferenceID    string             `bson:"reference_id" json:"reference_id"`
	ReferenceModel string             `bson:"reference_model" json:"reference_model"`
	Date           time.Time          `bson:"date" json:"date"`
	CreatedBy      string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
