package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogEntry is an append-only record of a mutating action. Entries are
// never updated or deleted.
type AuditLogEntry struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User       *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	ActorName  string              `bson:"actorName" json:"actorName"`
	Role       string              `bson:"role" json:"role"`
	Action     string              `bson:"action" json:"action"`
	Resource   string              `bson:"resource" json:"resource"`
	ResourceID string              `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	Metadata   map[string]any      `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IP         string              `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string              `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
