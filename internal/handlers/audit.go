package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakery/internal/models"
)

// GetAuditLogs lists audit entries, newest first, with optional
// action/resource/user/text filters and pagination.
func GetAuditLogs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /audit"
		defer handlePanic(c, route)

		filter := bson.M{}
		if action := c.Query("action"); action != "" {
			filter["action"] = action
		}
		if resource := c.Query("resource"); resource != "" {
			filter["resource"] = resource
		}
		if userValue := c.Query("userId"); userValue != "" {
			userID, err := primitive.ObjectIDFromHex(userValue)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid userId")
				return
			}
			filter["user"] = userID
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["$or"] = bson.A{
				bson.M{"actorName": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"action": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"resource": bson.M{"$regex": q, "$options": "i"}},
			}
		}

		page, limit := parsePaginationParams(c.Query("page"), c.Query("limit"), 100, 500)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("auditlogs").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit))
		cursor, err := db.Collection("auditlogs").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.AuditLogEntry, 0)
		if err := cursor.All(ctx, &items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse audit logs")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":    items,
			"total":    total,
			"page":     page,
			"pageSize": limit,
		})
	}
}
