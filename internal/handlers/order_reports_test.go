package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakery/internal/models"
)

func TestBuildDailyRevenueSplitsByPaymentAndService(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{Total: 1200, CashAmount: 1200, ServiceType: models.ServiceTakeaway},
		{Total: 800, CardAmount: 800, ServiceType: models.ServiceDining},
		{Total: 500, CashAmount: 300, CardAmount: 200, ServiceType: models.ServicePhone},
	}

	resp := buildDailyRevenue(day, orders)

	assert.Equal(t, "2026-08-25", resp.Date)
	assert.Equal(t, 3, resp.OrderCount)
	assert.Equal(t, 2500.0, resp.TotalRevenue)
	assert.Equal(t, 1500.0, resp.CashRevenue)
	assert.Equal(t, 1000.0, resp.CardRevenue)
	assert.Equal(t, 1200.0, resp.TakeawayRevenue)
	assert.Equal(t, 800.0, resp.DiningRevenue)
	assert.Equal(t, 500.0, resp.PhoneRevenue)
}

func TestBuildDailyRevenueNoOrders(t *testing.T) {
	resp := buildDailyRevenue(time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), nil)

	assert.Equal(t, 0, resp.OrderCount)
	assert.Equal(t, 0.0, resp.TotalRevenue)
	assert.Equal(t, 0.0, resp.CashRevenue)
	assert.Equal(t, 0.0, resp.CardRevenue)
}

func TestBuildSalesAnalysisProfitArithmetic(t *testing.T) {
	bread := primitive.NewObjectID()
	cake := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	orders := []models.Order{
		{
			Total: 920,
			Items: []models.OrderItem{
				{Product: bread, Name: "Bread", Quantity: 4, Price: 120, Total: 480},
				{Product: cake, Name: "Cake", Quantity: 1, Price: 440, Total: 440},
			},
		},
		{
			Total: 240,
			Items: []models.OrderItem{
				{Product: bread, Name: "Bread", Quantity: 2, Price: 120, Total: 240},
			},
		},
	}
	costs := map[primitive.ObjectID]float64{bread: 50, cake: 300}

	resp := buildSalesAnalysis(start, end, orders, costs)

	assert.Equal(t, 1160.0, resp.TotalRevenue)
	require.Len(t, resp.ProductSales, 2)

	// sorted by revenue descending
	assert.Equal(t, "Bread", resp.ProductSales[0].Name)
	assert.Equal(t, 6, resp.ProductSales[0].Quantity)
	assert.Equal(t, 720.0, resp.ProductSales[0].Revenue)
	assert.Equal(t, 300.0, resp.ProductSales[0].Cost)
	assert.Equal(t, 420.0, resp.ProductSales[0].Profit)

	assert.Equal(t, "Cake", resp.ProductSales[1].Name)
	assert.Equal(t, 440.0, resp.ProductSales[1].Revenue)
	assert.Equal(t, 300.0, resp.ProductSales[1].Cost)
	assert.Equal(t, 140.0, resp.ProductSales[1].Profit)

	assert.Equal(t, 560.0, resp.TotalProfit)
	assert.Equal(t, start, resp.Period["startDate"])
	assert.Equal(t, end, resp.Period["endDate"])
}

func TestBuildSalesAnalysisMissingCostCountsAsZero(t *testing.T) {
	deleted := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{
			Total: 350,
			Items: []models.OrderItem{
				{Product: deleted, Name: "Retired Bun", Quantity: 5, Price: 70, Total: 350},
			},
		},
	}

	resp := buildSalesAnalysis(start, start.AddDate(0, 0, 1), orders, map[primitive.ObjectID]float64{})

	require.Len(t, resp.ProductSales, 1)
	assert.Equal(t, 0.0, resp.ProductSales[0].Cost)
	assert.Equal(t, 350.0, resp.ProductSales[0].Profit)
	assert.Equal(t, 350.0, resp.TotalProfit)
}

func TestBuildSalesAnalysisEmptyRange(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	resp := buildSalesAnalysis(start, start.AddDate(0, 0, 1), nil, nil)

	assert.Equal(t, 0.0, resp.TotalRevenue)
	assert.Equal(t, 0.0, resp.TotalProfit)
	assert.NotNil(t, resp.ProductSales)
	assert.Len(t, resp.ProductSales, 0)
}
