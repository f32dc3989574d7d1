package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakery/internal/models"
)

func TestValidateCartRejectsEmptyCart(t *testing.T) {
	_, err := validateCart(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one item")
}

func TestValidateCartRejectsBadProductID(t *testing.T) {
	_, err := validateCart([]createOrderItemRequest{
		{ProductID: "not-an-object-id", Quantity: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid productId")
}

func TestValidateCartRejectsZeroQuantity(t *testing.T) {
	_, err := validateCart([]createOrderItemRequest{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}

func TestValidateCartParsesLines(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	lines, err := validateCart([]createOrderItemRequest{
		{ProductID: first.Hex(), Quantity: 2},
		{ProductID: second.Hex(), Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, first, lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, second, lines[1].ProductID)
	assert.Equal(t, 5, lines[1].Quantity)
}

func TestPriceLineSnapshotsUnitPrice(t *testing.T) {
	product := models.Product{
		ID:    primitive.NewObjectID(),
		Name:  "Butter Croissant",
		Price: 120.50,
	}

	item := priceLine(product, 4)

	assert.Equal(t, product.ID, item.Product)
	assert.Equal(t, "Butter Croissant", item.Name)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 120.50, item.Price)
	assert.Equal(t, 482.0, item.Total)
}

func TestComputeTotalsSumsLineTotals(t *testing.T) {
	items := []models.OrderItem{
		{Price: 100, Quantity: 2, Total: 200},
		{Price: 50, Quantity: 3, Total: 150},
	}

	subtotal, total := computeTotals(items, 0)
	assert.Equal(t, 350.0, subtotal)
	assert.Equal(t, 350.0, total)

	subtotal, total = computeTotals(items, 50)
	assert.Equal(t, 350.0, subtotal)
	assert.Equal(t, 300.0, total)
}

func TestComputeTotalsClampsOversizedDiscount(t *testing.T) {
	items := []models.OrderItem{{Price: 80, Quantity: 1, Total: 80}}

	_, total := computeTotals(items, 500)
	assert.Equal(t, 0.0, total)
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "ORD-0001", formatOrderNumber(1))
	assert.Equal(t, "ORD-0042", formatOrderNumber(42))
	assert.Equal(t, "ORD-9999", formatOrderNumber(9999))
	// Sequences past four digits widen rather than truncate.
	assert.Equal(t, "ORD-10000", formatOrderNumber(10000))
	assert.Equal(t, "ORD-123456", formatOrderNumber(123456))
}

func TestPaymentSplitPermissiveByDefault(t *testing.T) {
	// The split is informational; mismatches pass unless strict mode is on.
	assert.NoError(t, validatePaymentSplit(models.PaymentBoth, 10, 20, 500, false))
	assert.NoError(t, validatePaymentSplit(models.PaymentCash, 0, 0, 500, false))
}

func TestPaymentSplitStrictMode(t *testing.T) {
	assert.NoError(t, validatePaymentSplit(models.PaymentBoth, 200, 300, 500, true))
	assert.Error(t, validatePaymentSplit(models.PaymentBoth, 100, 100, 500, true))
	// Strict mode only constrains split payments.
	assert.NoError(t, validatePaymentSplit(models.PaymentCash, 0, 0, 500, true))
}

func TestPaymentSplitRejectsNegativeAmounts(t *testing.T) {
	assert.Error(t, validatePaymentSplit(models.PaymentCash, -1, 0, 100, false))
	assert.Error(t, validatePaymentSplit(models.PaymentCard, 0, -1, 100, false))
}
