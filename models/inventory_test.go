package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "beverage", NormalizeCategory("drinks"))
	assert.Equal(t, "beverage", NormalizeCategory("Beverages"))
	assert.Equal(t, "beverage", NormalizeCategory("beverage"))
	assert.Equal(t, "snack", NormalizeCategory("Snacks"))
	assert.Equal(t, "food", NormalizeCategory("meals"))
	assert.Equal(t, "stationery", NormalizeCategory("stationary"))
}

func TestNormalizeCategory_PassThrough(t *testing.T) {
	assert.Equal(t, "coffee", NormalizeCategory(" Coffee "))
	assert.Equal(t, "", NormalizeCategory(""))
}
