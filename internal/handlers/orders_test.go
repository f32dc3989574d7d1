package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakery/internal/models"
)

func TestStatusTransitionUpdatePinsCurrentStatus(t *testing.T) {
	orderID := primitive.NewObjectID()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	filter, update := statusTransitionUpdate(orderID, models.StatusPending, models.StatusPreparing, now)

	// A concurrent update that already moved the order off pending makes
	// this filter match nothing instead of overwriting the newer status.
	assert.Equal(t, bson.M{"_id": orderID, "status": models.StatusPending}, filter)
	assert.Equal(t, bson.M{"status": models.StatusPreparing, "updatedAt": now}, update)
}

func TestStatusTransitionUpdateStampsCompletedDateOnce(t *testing.T) {
	orderID := primitive.NewObjectID()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	filter, update := statusTransitionUpdate(orderID, models.StatusReady, models.StatusCompleted, now)
	assert.Equal(t, models.StatusReady, filter["status"])
	assert.Equal(t, now, update["completedDate"])

	// Any other transition leaves completedDate alone.
	_, update = statusTransitionUpdate(orderID, models.StatusPending, models.StatusCancelled, now)
	assert.NotContains(t, update, "completedDate")
}
