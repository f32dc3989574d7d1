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

	"bakery/internal/audit"
	"bakery/internal/models"
)

type createCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type updateCustomerRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

type customerStatsResponse struct {
	TotalOrders           int        `json:"totalOrders"`
	TotalSpent            float64    `json:"totalSpent"`
	AverageOrderValue     float64    `json:"averageOrderValue"`
	LastOrderDate         *time.Time `json:"lastOrderDate"`
	FavoriteServiceType   string     `json:"favoriteServiceType"`
	FavoritePaymentMethod string     `json:"favoritePaymentMethod"`
}

func GetCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers"
		defer handlePanic(c, route)

		filter := bson.M{"isActive": true}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = bson.A{
				bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
				bson.M{"phone": bson.M{"$regex": search, "$options": "i"}},
				bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		sortBy := c.DefaultQuery("sortBy", "lastOrderDate")
		direction := -1
		if c.Query("order") == "asc" {
			direction = 1
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: direction}})
		cursor, err := db.Collection("customers").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		customers := make([]models.Customer, 0)
		if err := cursor.All(ctx, &customers); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse customers")
			return
		}

		c.JSON(http.StatusOK, customers)
	}
}

// GetCustomer returns one customer with their ten most recent orders.
func GetCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers/:id"
		defer handlePanic(c, route)

		customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid customer id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		err = db.Collection("customers").FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "orderDate", Value: -1}}).
			SetLimit(10)
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer": customerID}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		recentOrders := make([]models.Order, 0)
		if err := cursor.All(ctx, &recentOrders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse orders")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"customer":     customer,
			"recentOrders": recentOrders,
		})
	}
}

func CreateCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /customers"
		defer handlePanic(c, route)

		var req createCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "name and phone are required")
			return
		}

		now := time.Now()
		customer := models.Customer{
			Name:      strings.TrimSpace(req.Name),
			Phone:     strings.TrimSpace(req.Phone),
			Email:     strings.TrimSpace(req.Email),
			Address:   strings.TrimSpace(req.Address),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("customers").InsertOne(ctx, customer)
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(c, http.StatusBadRequest, route, "phone number already exists")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			customer.ID = id
		}

		audit.Record(c, db, audit.Entry{
			Action:     "create",
			Resource:   "customer",
			ResourceID: customer.ID.Hex(),
			Metadata:   map[string]any{"phone": customer.Phone},
		})

		c.JSON(http.StatusCreated, customer)
	}
}

func UpdateCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /customers/:id"
		defer handlePanic(c, route)

		customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid customer id")
			return
		}

		var req updateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			set["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.Email != nil {
			set["email"] = strings.TrimSpace(*req.Email)
		}
		if req.Address != nil {
			set["address"] = strings.TrimSpace(*req.Address)
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var customer models.Customer
		err = db.Collection("customers").FindOneAndUpdate(
			ctx,
			bson.M{"_id": customerID},
			bson.M{"$set": set},
			opts,
		).Decode(&customer)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(c, http.StatusBadRequest, route, "phone number already exists")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		audit.Record(c, db, audit.Entry{
			Action:     "update",
			Resource:   "customer",
			ResourceID: customerID.Hex(),
		})

		c.JSON(http.StatusOK, customer)
	}
}

// GetCustomerStats recomputes customer aggregates from order history rather
// than trusting the running totals, so drift between the two is visible.
func GetCustomerStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers/:id/stats"
		defer handlePanic(c, route)

		customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid customer id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		err = db.Collection("customers").FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "customer not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer": customerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse orders")
			return
		}

		stats := buildCustomerStats(customer, orders)
		c.JSON(http.StatusOK, stats)
	}
}

func buildCustomerStats(customer models.Customer, orders []models.Order) customerStatsResponse {
	stats := customerStatsResponse{
		TotalOrders:   len(orders),
		LastOrderDate: customer.LastOrderDate,
	}

	serviceTypes := make([]string, 0, len(orders))
	paymentMethods := make([]string, 0, len(orders))
	for _, order := range orders {
		stats.TotalSpent += order.Total
		serviceTypes = append(serviceTypes, order.ServiceType)
		paymentMethods = append(paymentMethods, order.PaymentMethod)
	}
	if len(orders) > 0 {
		stats.AverageOrderValue = stats.TotalSpent / float64(len(orders))
	}
	stats.FavoriteServiceType = mostFrequent(serviceTypes)
	stats.FavoritePaymentMethod = mostFrequent(paymentMethods)
	return stats
}

// mostFrequent returns the value occurring most often, or empty for no input.
func mostFrequent(values []string) string {
	if len(values) == 0 {
		return ""
	}

	frequency := map[string]int{}
	best := values[0]
	for _, value := range values {
		frequency[value]++
		if frequency[value] > frequency[best] {
			best = value
		}
	}
	return best
}
