package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bakery/internal/models"
	"bakery/internal/notify"
)

func TestIsLowStockBoundaryInclusive(t *testing.T) {
	tests := []struct {
		quantity    int
		minQuantity int
		want        bool
	}{
		{quantity: 0, minQuantity: 0, want: true},
		{quantity: 0, minQuantity: 5, want: true},
		{quantity: 5, minQuantity: 5, want: true},
		{quantity: 6, minQuantity: 5, want: false},
		{quantity: 15, minQuantity: 10, want: false},
		{quantity: 15, minQuantity: 16, want: true},
		{quantity: 100, minQuantity: 0, want: false},
	}

	for _, tt := range tests {
		got := IsLowStock(tt.quantity, tt.minQuantity)
		assert.Equal(t, tt.want, got, "IsLowStock(%d, %d)", tt.quantity, tt.minQuantity)
	}
}

func TestSortByProductName(t *testing.T) {
	records := []models.InventoryRecord{
		{ProductName: "Sourdough", Quantity: 8},
		{ProductName: "Baguette", Quantity: 2},
		{ProductName: "Eclair", Quantity: 0},
	}

	SortByProductName(records)

	assert.Equal(t, "Baguette", records[0].ProductName)
	assert.Equal(t, "Eclair", records[1].ProductName)
	assert.Equal(t, "Sourdough", records[2].ProductName)
}

func TestAlertItemsCarryResolvedNames(t *testing.T) {
	records := []models.InventoryRecord{
		{ProductName: "Baguette", Quantity: 2, MinQuantity: 5},
		{ProductName: "Eclair", Quantity: 0, MinQuantity: 3},
	}

	items := AlertItems(records)

	assert.Equal(t, []notify.LowStockItem{
		{ProductName: "Baguette", Quantity: 2, MinQuantity: 5},
		{ProductName: "Eclair", Quantity: 0, MinQuantity: 3},
	}, items)
}
