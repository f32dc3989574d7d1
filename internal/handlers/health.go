package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func Health(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "OK"
		code := http.StatusOK
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			status = "DEGRADED"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"message":   "Bakery System API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
