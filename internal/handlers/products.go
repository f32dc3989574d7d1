package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
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

/* =======================
   REQUEST DTOs
======================= */

type createProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"minStock"`
	Image       string  `json:"image"`
	Barcode     string  `json:"barcode"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Cost        *float64 `json:"cost"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
	MinStock    *int     `json:"minStock"`
	IsActive    *bool    `json:"isActive"`
	Image       *string  `json:"image"`
	Barcode     *string  `json:"barcode"`
}

type updateStockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

/* =======================
   LIST / GET
======================= */

func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		filter := bson.M{"isActive": true}

		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = bson.A{
				bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
				bson.M{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}
		if c.Query("lowStock") == "true" {
			filter["$expr"] = bson.M{"$lte": bson.A{"$stock", "$minStock"}}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse products")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

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

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   CREATE / UPDATE
======================= */

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if req.Price < 0 || req.Cost < 0 || req.Stock < 0 {
			respondWithError(c, http.StatusBadRequest, route, "price, cost and stock must not be negative")
			return
		}
		if !models.ValidCategory(req.Category) {
			respondWithError(c, http.StatusBadRequest, route, "invalid category")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Price:       req.Price,
			Cost:        req.Cost,
			Category:    req.Category,
			Description: strings.TrimSpace(req.Description),
			Stock:       req.Stock,
			MinStock:    req.MinStock,
			IsActive:    true,
			Image:       req.Image,
			Barcode:     strings.TrimSpace(req.Barcode),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if product.MinStock <= 0 {
			product.MinStock = models.DefaultMinStock
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		audit.Record(c, db, audit.Entry{
			Action:     "create",
			Resource:   "product",
			ResourceID: product.ID.Hex(),
			Metadata:   map[string]any{"name": product.Name},
		})

		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must not be negative")
				return
			}
			set["price"] = *req.Price
		}
		if req.Cost != nil {
			if *req.Cost < 0 {
				respondWithError(c, http.StatusBadRequest, route, "cost must not be negative")
				return
			}
			set["cost"] = *req.Cost
		}
		if req.Category != nil {
			if !models.ValidCategory(*req.Category) {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			set["category"] = *req.Category
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "stock must not be negative")
				return
			}
			set["stock"] = *req.Stock
		}
		if req.MinStock != nil {
			set["minStock"] = *req.MinStock
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}
		if req.Image != nil {
			set["image"] = *req.Image
		}
		if req.Barcode != nil {
			set["barcode"] = strings.TrimSpace(*req.Barcode)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": set},
			opts,
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if req.Stock != nil {
			if _, err := inventory.Reconcile(ctx, db, productID, product.Stock); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		audit.Record(c, db, audit.Entry{
			Action:     "update",
			Resource:   "product",
			ResourceID: productID.Hex(),
			Metadata:   map[string]any{"fields": updatedFieldNames(set)},
		})

		c.JSON(http.StatusOK, product)
	}
}

// UpdateProductStock sets the catalog stock directly and reconciles the
// inventory ledger to match.
func UpdateProductStock(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /products/:id/stock"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var req updateStockRequest
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

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": bson.M{"stock": *req.Quantity, "updatedAt": time.Now()}},
			opts,
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if _, err := inventory.Reconcile(ctx, db, productID, product.Stock); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		audit.Record(c, db, audit.Entry{
			Action:     "update-stock",
			Resource:   "product",
			ResourceID: productID.Hex(),
			Metadata:   map[string]any{"quantity": *req.Quantity},
		})

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   DELETE (SOFT)
======================= */

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		audit.Record(c, db, audit.Entry{
			Action:     "deactivate",
			Resource:   "product",
			ResourceID: productID.Hex(),
		})

		c.JSON(http.StatusOK, gin.H{"message": "product deactivated"})
	}
}

func updatedFieldNames(set bson.M) []string {
	names := make([]string, 0, len(set))
	for key := range set {
		if key == "updatedAt" {
			continue
		}
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}
