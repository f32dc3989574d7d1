package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakery/internal/audit"
	"bakery/internal/config"
	"bakery/internal/database"
	"bakery/internal/inventory"
	"bakery/internal/metrics"
	"bakery/internal/models"
	"bakery/internal/notify"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items         []createOrderItemRequest `json:"items" binding:"required"`
	CustomerPhone string                   `json:"customerPhone"`
	PaymentMethod string                   `json:"paymentMethod" binding:"required"`
	ServiceType   string                   `json:"serviceType" binding:"required"`
	Discount      float64                  `json:"discount"`
	CashAmount    float64                  `json:"cashAmount"`
	CardAmount    float64                  `json:"cardAmount"`
	Notes         string                   `json:"notes"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

/* =========================
   DOMAIN ERRORS
========================= */

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

type insufficientStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e insufficientStockError) Error() string {
	return "insufficient stock"
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder runs the full order submission workflow: price the cart from
// live product records, persist the order, update the customer aggregate,
// decrement stock and mirror the inventory ledger. Everything up to the
// commit runs in one session transaction so a bad cart leaves no partial
// state. The low-stock notification is dispatched after commit and never
// blocks the response.
func CreateOrder(db *mongo.Database, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if !models.ValidPaymentMethod(req.PaymentMethod) {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}
		if !models.ValidServiceType(req.ServiceType) {
			respondWithError(c, http.StatusBadRequest, route, "invalid service type")
			return
		}
		if req.Discount < 0 {
			respondWithError(c, http.StatusBadRequest, route, "discount must not be negative")
			return
		}

		lines, err := validateCart(req.Items)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var (
			order         models.Order
			lowStockItems []notify.LowStockItem
		)
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			built, lowStock, err := submitOrder(sessCtx, db, req, lines)
			if err != nil {
				return nil, err
			}
			order = built
			lowStockItems = lowStock
			return nil, nil
		})
		if err != nil {
			var stockErr insufficientStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			var validationErr cartValidationError
			if errors.As(err, &validationErr) {
				respondWithError(c, http.StatusBadRequest, route, validationErr.Error())
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[ORDER] [INFO] %s created, total %.2f", order.OrderNumber, order.Total)
		metrics.OrderCreated(order.ServiceType, order.PaymentMethod, order.Total)
		audit.Record(c, db, audit.Entry{
			Action:     "create",
			Resource:   "order",
			ResourceID: order.ID.Hex(),
			Metadata:   map[string]any{"orderNumber": order.OrderNumber, "total": order.Total},
		})

		// Best-effort side channel; a notifier failure must never fail or
		// delay the response already granted to the caller.
		if len(lowStockItems) > 0 {
			metrics.LowStockAlerted()
			notify.Dispatch(notifier, lowStockItems)
		}

		c.JSON(http.StatusCreated, order)
	}
}

// submitOrder executes the workflow steps inside the caller's transaction
// and returns the persisted order plus the low-stock candidate set.
func submitOrder(sessCtx mongo.SessionContext, db *mongo.Database, req createOrderRequest, lines []orderLine) (models.Order, []notify.LowStockItem, error) {
	now := time.Now()

	// Resolve and price every line before touching anything.
	products := make([]models.Product, 0, len(lines))
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var product models.Product
		err := db.Collection("products").FindOne(
			sessCtx,
			bson.M{"_id": line.ProductID, "isActive": true},
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			return models.Order{}, nil, productNotFoundError{ProductID: line.ProductID}
		}
		if err != nil {
			return models.Order{}, nil, err
		}

		if product.Stock < line.Quantity {
			return models.Order{}, nil, insufficientStockError{
				ProductID: line.ProductID,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}

		products = append(products, product)
		items = append(items, priceLine(product, line.Quantity))
	}

	subtotal, total := computeTotals(items, req.Discount)

	if err := validatePaymentSplit(req.PaymentMethod, req.CashAmount, req.CardAmount, total, config.AppEnv.StrictPaymentSplit); err != nil {
		return models.Order{}, nil, err
	}

	seq, err := database.NextSequence(sessCtx, db, database.OrderCounter)
	if err != nil {
		return models.Order{}, nil, err
	}

	customerID, err := resolveCustomer(sessCtx, db, req.CustomerPhone, now)
	if err != nil {
		return models.Order{}, nil, err
	}

	order := models.Order{
		OrderNumber:   formatOrderNumber(seq),
		Customer:      customerID,
		CustomerPhone: req.CustomerPhone,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      req.Discount,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		CashAmount:    req.CashAmount,
		CardAmount:    req.CardAmount,
		ServiceType:   req.ServiceType,
		Status:        models.StatusPending,
		OrderDate:     now,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	res, err := db.Collection("orders").InsertOne(sessCtx, order)
	if err != nil {
		return models.Order{}, nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}

	if customerID != nil {
		_, err = db.Collection("customers").UpdateOne(
			sessCtx,
			bson.M{"_id": *customerID},
			bson.M{
				"$inc": bson.M{"totalOrders": 1, "totalSpent": total},
				"$set": bson.M{"lastOrderDate": now, "updatedAt": now},
			},
		)
		if err != nil {
			return models.Order{}, nil, err
		}
	}

	// Decrement catalog stock and mirror the ledger, collecting items that
	// crossed their reorder threshold.
	var lowStock []notify.LowStockItem
	for i, line := range lines {
		product := products[i]

		res, err := db.Collection("products").UpdateOne(
			sessCtx,
			bson.M{"_id": line.ProductID, "stock": bson.M{"$gte": line.Quantity}},
			bson.M{
				"$inc": bson.M{"stock": -line.Quantity},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return models.Order{}, nil, err
		}
		if res.MatchedCount == 0 {
			return models.Order{}, nil, insufficientStockError{
				ProductID: line.ProductID,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}

		newStock := product.Stock - line.Quantity
		record, err := inventory.Reconcile(sessCtx, db, line.ProductID, newStock)
		if err != nil {
			return models.Order{}, nil, err
		}
		if record != nil && inventory.IsLowStock(record.Quantity, record.MinQuantity) {
			lowStock = append(lowStock, notify.LowStockItem{
				ProductName: product.Name,
				Quantity:    record.Quantity,
				MinQuantity: record.MinQuantity,
			})
		}
	}

	return order, lowStock, nil
}

// resolveCustomer looks up the customer by phone, creating a walk-in
// placeholder when the phone is new. Orders without a phone stay
// unassociated.
func resolveCustomer(sessCtx mongo.SessionContext, db *mongo.Database, phone string, now time.Time) (*primitive.ObjectID, error) {
	if phone == "" {
		return nil, nil
	}

	var customer models.Customer
	err := db.Collection("customers").FindOne(sessCtx, bson.M{"phone": phone}).Decode(&customer)
	if err == nil {
		return &customer.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	res, err := db.Collection("customers").InsertOne(sessCtx, models.Customer{
		Name:      models.WalkInCustomerName,
		Phone:     phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("unexpected customer id type")
	}
	return &id, nil
}

/* =========================
   GET ORDERS
========================= */

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		filter := bson.M{}

		if date := c.Query("date"); date != "" {
			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid date, expected YYYY-MM-DD")
				return
			}
			filter["orderDate"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
		}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if serviceType := c.Query("serviceType"); serviceType != "" {
			filter["serviceType"] = serviceType
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "orders could not be fetched")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to parse orders")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

/* =========================
   UPDATE ORDER STATUS
========================= */

// statusTransitionUpdate builds the guarded filter and field set for a status
// change. The filter matches only while the order still holds the status the
// transition was validated against; completedDate is stamped once, on the
// move to completed.
func statusTransitionUpdate(orderID primitive.ObjectID, current, next models.OrderStatus, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"_id": orderID, "status": current}
	update := bson.M{"status": next, "updatedAt": now}
	if next == models.StatusCompleted {
		update["completedDate"] = now
	}
	return filter, update
}

// UpdateOrderStatus moves an order through its lifecycle. Transitions are
// validated against the state machine unless free-form updates are enabled
// in config; only the transition to completed stamps completedDate.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if !models.ValidOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}
		next := models.OrderStatus(req.Status)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !config.AppEnv.AllowAnyStatusTransition && !order.Status.CanTransitionTo(next) {
			respondWithError(c, http.StatusBadRequest, route,
				"illegal status transition from "+string(order.Status)+" to "+string(next))
			return
		}

		// The filter pins the status the guard saw, so two concurrent
		// updates cannot both apply (a completed order is only stamped once).
		filter, update := statusTransitionUpdate(orderID, order.Status, next, time.Now())

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			filter,
			bson.M{"$set": update},
			opts,
		).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusConflict, route, "order status changed, retry")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		audit.Record(c, db, audit.Entry{
			Action:     "update-status",
			Resource:   "order",
			ResourceID: orderID.Hex(),
			Metadata:   map[string]any{"status": string(next)},
		})

		c.JSON(http.StatusOK, order)
	}
}
