package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},

		{StatusPending, StatusReady, false},
		{StatusPending, StatusCompleted, false},
		{StatusPreparing, StatusPending, false},
		{StatusReady, StatusPreparing, false},

		// Terminal statuses allow nothing, including resurrection.
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.False(t, StatusReady.Terminal())
}

func TestValidOrderStatus(t *testing.T) {
	for _, value := range []string{"pending", "preparing", "ready", "completed", "cancelled"} {
		assert.True(t, ValidOrderStatus(value), value)
	}
	assert.False(t, ValidOrderStatus("delivered"))
	assert.False(t, ValidOrderStatus(""))
}

func TestValidPaymentMethodAndServiceType(t *testing.T) {
	assert.True(t, ValidPaymentMethod("cash"))
	assert.True(t, ValidPaymentMethod("card"))
	assert.True(t, ValidPaymentMethod("both"))
	assert.False(t, ValidPaymentMethod("credit"))

	assert.True(t, ValidServiceType("takeaway"))
	assert.True(t, ValidServiceType("dining"))
	assert.True(t, ValidServiceType("phone"))
	assert.False(t, ValidServiceType("delivery"))
}
