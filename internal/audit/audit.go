package audit

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bakery/internal/middleware"
	"bakery/internal/models"
)

// Entry describes one mutating action for the append-only audit trail.
type Entry struct {
	Action     string
	Resource   string
	ResourceID string
	Metadata   map[string]any
}

// Record appends an audit entry for the current request. Audit failures are
// logged and swallowed so they can never block or fail the action being
// recorded.
func Record(c *gin.Context, db *mongo.Database, entry Entry) {
	actor := middleware.ActorFrom(c)

	doc := models.AuditLogEntry{
		ActorName:  actor.Name,
		Role:       actor.Role,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Metadata:   entry.Metadata,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		CreatedAt:  time.Now(),
	}
	if doc.ActorName == "" {
		doc.ActorName = "Anonymous"
	}
	if doc.Role == "" {
		doc.Role = models.RoleAnonymous
	}
	if actor.ID != "" {
		if userID, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
			doc.User = &userID
		}
	}
	if requestID := middleware.RequestIDFrom(c); requestID != "" {
		if doc.Metadata == nil {
			doc.Metadata = map[string]any{}
		}
		doc.Metadata["requestId"] = requestID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := db.Collection("auditlogs").InsertOne(ctx, doc); err != nil {
		log.Printf("[AUDIT] [ERROR] write failed for %s %s: %v", entry.Action, entry.Resource, err)
	}
}
