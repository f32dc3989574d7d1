package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakery/internal/audit"
	"bakery/internal/inventory"
	"bakery/internal/models"
)

type addStockRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

/* =======================
   LIST / GET
======================= */

func GetInventory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /inventory"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if c.Query("lowStock") == "true" {
			records, err := inventory.FindLowStock(ctx, db)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			inventory.SortByProductName(records)
			c.JSON(http.StatusOK, records)
			return
		}

		cursor, err := db.Collection("inventory").Find(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		records := make([]models.InventoryRecord, 0)
		if err := cursor.All(ctx, &records); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse inventory")
			return
		}
		if err := inventory.AttachProductNames(ctx, db, records); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		inventory.SortByProductName(records)

		c.JSON(http.StatusOK, records)
	}
}

func GetProductInventory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /inventory/product/:productId"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var record models.InventoryRecord
		err = db.Collection("inventory").FindOne(ctx, bson.M{"product": productID}).Decode(&record)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "inventory record not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		records := []models.InventoryRecord{record}
		if err := inventory.AttachProductNames(ctx, db, records); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, records[0])
	}
}

/* =======================
   MUTATIONS
======================= */

// UpdateInventoryQuantity overrides a ledger record's quantity directly.
// The catalog stock is set to match so the two copies stay consistent.
func UpdateInventoryQuantity(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /inventory/:id/quantity"
		defer handlePanic(c, route)

		recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid inventory id")
			return
		}

		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			respondWithError(c, http.StatusBadRequest, route, "quantity is required")
			return
		}
		if *req.Quantity < 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must not be negative")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var record models.InventoryRecord
		err = db.Collection("inventory").FindOneAndUpdate(
			ctx,
			bson.M{"_id": recordID},
			bson.M{"$set": bson.M{
				"quantity":    *req.Quantity,
				"lastUpdated": now,
				"updatedAt":   now,
			}},
			opts,
		).Decode(&record)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "inventory record not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		_, err = db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": record.Product},
			bson.M{"$set": bson.M{"stock": record.Quantity, "updatedAt": now}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		audit.Record(c, db, audit.Entry{
			Action:     "update-quantity",
			Resource:   "inventory",
			ResourceID: recordID.Hex(),
			Metadata:   map[string]any{"quantity": *req.Quantity},
		})

		c.JSON(http.StatusOK, record)
	}
}

// AddStock increments a ledger record, creating it on first use with the
// product's reorder threshold. Catalog stock is updated to match.
func AddStock(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /inventory/add-stock"
		defer handlePanic(c, route)

		var req addStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "productId and quantity are required")
			return
		}
		if req.Quantity <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be positive")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()

		var record models.InventoryRecord
		err = db.Collection("inventory").FindOne(ctx, bson.M{"product": productID}).Decode(&record)
		switch {
		case err == nil:
			opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
			err = db.Collection("inventory").FindOneAndUpdate(
				ctx,
				bson.M{"_id": record.ID},
				bson.M{
					"$inc": bson.M{"quantity": req.Quantity},
					"$set": bson.M{"lastUpdated": now, "updatedAt": now},
				},
				opts,
			).Decode(&record)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		case err == mongo.ErrNoDocuments:
			var product models.Product
			err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "product not found")
				return
			}
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			record = models.InventoryRecord{
				Product:     productID,
				Quantity:    req.Quantity,
				MinQuantity: product.ReorderThreshold(),
				LastUpdated: now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			res, err := db.Collection("inventory").InsertOne(ctx, record)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				record.ID = id
			}
		default:
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		_, err = db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": bson.M{"stock": record.Quantity, "updatedAt": now}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		audit.Record(c, db, audit.Entry{
			Action:     "add-stock",
			Resource:   "inventory",
			ResourceID: record.ID.Hex(),
			Metadata:   map[string]any{"productId": productID.Hex(), "quantity": req.Quantity},
		})

		records := []models.InventoryRecord{record}
		if err := inventory.AttachProductNames(ctx, db, records); err == nil {
			record = records[0]
		}

		c.JSON(http.StatusOK, record)
	}
}

/* =======================
   ALERTS / INITIALIZE
======================= */

// GetLowStockAlerts returns all records satisfying the shared low-stock
// predicate.
func GetLowStockAlerts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /inventory/alerts/low-stock"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		records, err := inventory.FindLowStock(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, records)
	}
}

// InitializeInventory backfills ledger records for active products that lack
// one, seeding quantity from catalog stock.
func InitializeInventory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /inventory/initialize"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, bson.M{"isActive": true})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse products")
			return
		}

		now := time.Now()
		created := make([]models.InventoryRecord, 0)
		for _, product := range products {
			err := db.Collection("inventory").FindOne(ctx, bson.M{"product": product.ID}).Err()
			if err == nil {
				continue
			}
			if err != mongo.ErrNoDocuments {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			record := models.InventoryRecord{
				Product:     product.ID,
				ProductName: product.Name,
				Quantity:    product.Stock,
				MinQuantity: product.ReorderThreshold(),
				LastUpdated: now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			res, err := db.Collection("inventory").InsertOne(ctx, record)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				record.ID = id
			}
			created = append(created, record)
		}

		audit.Record(c, db, audit.Entry{
			Action:   "initialize",
			Resource: "inventory",
			Metadata: map[string]any{"created": len(created)},
		})

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Initialized inventory for %d products", len(created)),
			"records": created,
		})
	}
}
