package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, value := range []string{"bread", "cake", "pastry", "beverage", "other"} {
		assert.True(t, ValidCategory(value), value)
	}
	assert.False(t, ValidCategory("sandwich"))
	assert.False(t, ValidCategory(""))
}

func TestReorderThresholdFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 8, Product{MinStock: 8}.ReorderThreshold())
	assert.Equal(t, DefaultMinStock, Product{}.ReorderThreshold())
	assert.Equal(t, DefaultMinStock, Product{MinStock: -1}.ReorderThreshold())
}
