package handlers

import (
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakery/internal/models"
)

// orderLine is one validated cart entry, ready for product resolution.
type orderLine struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type cartValidationError struct {
	Message string
}

func (e cartValidationError) Error() string {
	return e.Message
}

// validateCart checks the raw request lines and parses product identifiers.
// The cart must be non-empty and every quantity at least one; a bad line
// fails the whole cart before anything is persisted.
func validateCart(items []createOrderItemRequest) ([]orderLine, error) {
	if len(items) == 0 {
		return nil, cartValidationError{Message: "at least one item is required"}
	}

	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, cartValidationError{Message: fmt.Sprintf("invalid productId: %s", item.ProductID)}
		}
		if item.Quantity < 1 {
			return nil, cartValidationError{Message: "quantity must be at least 1"}
		}
		lines = append(lines, orderLine{ProductID: productID, Quantity: item.Quantity})
	}
	return lines, nil
}

// priceLine snapshots the product's current unit price onto the order item.
func priceLine(product models.Product, quantity int) models.OrderItem {
	return models.OrderItem{
		Product:  product.ID,
		Name:     product.Name,
		Quantity: quantity,
		Price:    product.Price,
		Total:    product.Price * float64(quantity),
	}
}

// computeTotals returns the item subtotal and the discounted total, clamped
// at zero so an oversized discount never yields a negative order.
func computeTotals(items []models.OrderItem, discount float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += item.Total
	}
	total = math.Max(0, subtotal-discount)
	return subtotal, total
}

// formatOrderNumber renders the human-readable order number. Sequences past
// 9999 widen rather than truncate.
func formatOrderNumber(seq int64) string {
	return fmt.Sprintf("ORD-%04d", seq)
}

// validatePaymentSplit checks the informational cash/card split. The split
// is never validated against the total unless strict mode is enabled.
func validatePaymentSplit(method string, cashAmount, cardAmount, total float64, strict bool) error {
	if cashAmount < 0 || cardAmount < 0 {
		return cartValidationError{Message: "payment amounts must not be negative"}
	}
	if !strict || method != models.PaymentBoth {
		return nil
	}
	if math.Abs(cashAmount+cardAmount-total) > 0.005 {
		return cartValidationError{
			Message: fmt.Sprintf("cashAmount + cardAmount must equal total (%0.2f)", total),
		}
	}
	return nil
}
