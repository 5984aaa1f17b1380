package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ItemTypeSingle = "item"
	ItemTypeCombo  = "combo"
)

// ComboComponent is one line of a combo bundle. Components must reference
// plain items, never another combo.
type ComboComponent struct {
	ItemID   string `bson:"item_id" json:"item_id" binding:"required"`
	Quantity int    `bson:"quantity" json:"quantity" binding:"required"`
}

type InventoryItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SKU               string             `bson:"sku" json:"sku" binding:"required"`
	Name              string             `bson:"name" json:"name" binding:"required"`
	Category          string             `bson:"category" json:"category"`
	Price             float64            `bson:"price" json:"price"`
	Quantity          int                `bson:"quantity" json:"quantity"`
	Unit              string             `bson:"unit,omitempty" json:"unit,omitempty"`
	LowStockThreshold int                `bson:"low_stock_threshold" json:"low_stock_threshold"`
	IsActive          bool               `bson:"is_active" json:"is_active"`
	Type              string             `bson:"type" json:"type"`
	Duration          int                `bson:"duration,omitempty" json:"duration,omitempty"` // hours, combos only
	IncludedItems     []ComboComponent   `bson:"included_items,omitempty" json:"included_items,omitempty"`
	PhotoURL          string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PhotoPreviewURL   string             `bson:"photo_preview_url,omitempty" json:"photo_preview_url,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

type UpdateInventoryItem struct {
	Name              string   `json:"name,omitempty"`
	Category          string   `json:"category,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Unit              string   `json:"unit,omitempty"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

const (
	StockAdd      = "add"
	StockSubtract = "subtract"
	StockSet      = "set"
)

type StockAdjustment struct {
	Amount int    `json:"amount"`
	Mode   string `json:"mode" binding:"required"`
}

// categoryAliases folds the legacy spellings seen in old data into one
// canonical value per category.
var categoryAliases = map[string]string{
	"drink":     "beverage",
	"drinks":    "beverage",
	"beverages": "beverage",
	"snacks":    "snack",
	"meal":      "food",
	"meals":     "food",
	"foods":     "food",
	"stationary": "stationery",
}

// NormalizeCategory lowercases a category name and resolves legacy aliases.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if canonical, ok := categoryAliases[c]; ok {
		return canonical
	}
	return c
}
