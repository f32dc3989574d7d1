package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bakery/internal/models"
)

type dailyRevenueResponse struct {
	Date            string  `json:"date"`
	TotalRevenue    float64 `json:"totalRevenue"`
	CashRevenue     float64 `json:"cashRevenue"`
	CardRevenue     float64 `json:"cardRevenue"`
	TakeawayRevenue float64 `json:"takeawayRevenue"`
	DiningRevenue   float64 `json:"diningRevenue"`
	PhoneRevenue    float64 `json:"phoneRevenue"`
	OrderCount      int     `json:"orderCount"`
}

type productSalesEntry struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Profit   float64 `json:"profit"`
}

type salesAnalysisResponse struct {
	Period       map[string]time.Time `json:"period"`
	TotalRevenue float64              `json:"totalRevenue"`
	TotalProfit  float64              `json:"totalProfit"`
	ProductSales []productSalesEntry  `json:"productSales"`
}

// GetDailyRevenue aggregates completed orders for one calendar day, split by
// payment method and service type.
func GetDailyRevenue(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/daily-revenue"
		defer handlePanic(c, route)

		day := time.Now()
		if value := c.Query("date"); value != "" {
			parsed, err := time.Parse("2006-01-02", value)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid date, expected YYYY-MM-DD")
				return
			}
			day = parsed
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := findCompletedOrders(ctx, db, start, end)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, buildDailyRevenue(start, orders))
	}
}

// GetSalesAnalysis aggregates per-product quantity, revenue, cost and profit
// over a date range of completed orders. Cost comes from the current product
// record; revenue from the order's price snapshots.
func GetSalesAnalysis(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/sales-analysis"
		defer handlePanic(c, route)

		start, end, err := parseAnalysisRange(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		orders, err := findCompletedOrders(ctx, db, start, end)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		costs, err := productCosts(ctx, db, orders)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, buildSalesAnalysis(start, end, orders, costs))
	}
}

// buildDailyRevenue reduces one day of completed orders into revenue totals
// split by payment method and service type.
func buildDailyRevenue(start time.Time, orders []models.Order) dailyRevenueResponse {
	resp := dailyRevenueResponse{
		Date:       start.Format("2006-01-02"),
		OrderCount: len(orders),
	}
	for _, order := range orders {
		resp.TotalRevenue += order.Total
		resp.CashRevenue += order.CashAmount
		resp.CardRevenue += order.CardAmount

		switch order.ServiceType {
		case models.ServiceTakeaway:
			resp.TakeawayRevenue += order.Total
		case models.ServiceDining:
			resp.DiningRevenue += order.Total
		case models.ServicePhone:
			resp.PhoneRevenue += order.Total
		}
	}
	return resp
}

// buildSalesAnalysis reduces completed orders into per-product quantity,
// revenue, cost and profit. A product missing from costs (deleted since the
// sale) contributes zero cost, so its profit equals its revenue.
func buildSalesAnalysis(start, end time.Time, orders []models.Order, costs map[primitive.ObjectID]float64) salesAnalysisResponse {
	resp := salesAnalysisResponse{
		Period:       map[string]time.Time{"startDate": start, "endDate": end},
		ProductSales: make([]productSalesEntry, 0),
	}

	sales := map[string]*productSalesEntry{}
	for _, order := range orders {
		resp.TotalRevenue += order.Total
		for _, item := range order.Items {
			entry, ok := sales[item.Name]
			if !ok {
				entry = &productSalesEntry{Name: item.Name}
				sales[item.Name] = entry
			}
			cost := costs[item.Product] * float64(item.Quantity)
			entry.Quantity += item.Quantity
			entry.Revenue += item.Total
			entry.Cost += cost
			entry.Profit += item.Total - cost
			resp.TotalProfit += item.Total - cost
		}
	}

	for _, entry := range sales {
		resp.ProductSales = append(resp.ProductSales, *entry)
	}
	sort.Slice(resp.ProductSales, func(i, j int) bool {
		return resp.ProductSales[i].Revenue > resp.ProductSales[j].Revenue
	})
	return resp
}

func parseAnalysisRange(startValue, endValue string) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	if startValue != "" {
		parsed, err := time.Parse("2006-01-02", startValue)
		if err != nil {
			return time.Time{}, time.Time{}, cartValidationError{Message: "invalid startDate, expected YYYY-MM-DD"}
		}
		start = parsed
	}
	if endValue != "" {
		parsed, err := time.Parse("2006-01-02", endValue)
		if err != nil {
			return time.Time{}, time.Time{}, cartValidationError{Message: "invalid endDate, expected YYYY-MM-DD"}
		}
		end = parsed.AddDate(0, 0, 1)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, cartValidationError{Message: "endDate must not precede startDate"}
	}
	return start, end, nil
}

func findCompletedOrders(ctx context.Context, db *mongo.Database, start, end time.Time) ([]models.Order, error) {
	cursor, err := db.Collection("orders").Find(ctx, bson.M{
		"orderDate": bson.M{"$gte": start, "$lt": end},
		"status":    models.StatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func productCosts(ctx context.Context, db *mongo.Database, orders []models.Order) (map[primitive.ObjectID]float64, error) {
	seen := map[primitive.ObjectID]struct{}{}
	ids := make([]primitive.ObjectID, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.Product]; ok {
				continue
			}
			seen[item.Product] = struct{}{}
			ids = append(ids, item.Product)
		}
	}

	costs := make(map[primitive.ObjectID]float64, len(ids))
	if len(ids) == 0 {
		return costs, nil
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, product := range products {
		costs[product.ID] = product.Cost
	}
	return costs, nil
}
