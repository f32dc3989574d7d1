package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bakery/internal/models"
)

func TestMostFrequent(t *testing.T) {
	assert.Equal(t, "", mostFrequent(nil))
	assert.Equal(t, "cash", mostFrequent([]string{"cash"}))
	assert.Equal(t, "card", mostFrequent([]string{"cash", "card", "card"}))
}

func TestBuildCustomerStatsRecomputesFromOrders(t *testing.T) {
	lastOrder := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	customer := models.Customer{
		Name:          "Nimal Perera",
		Phone:         "0771234567",
		TotalOrders:   99, // stale running total, ignored on purpose
		LastOrderDate: &lastOrder,
	}
	orders := []models.Order{
		{Total: 800, ServiceType: models.ServiceDining, PaymentMethod: models.PaymentCash},
		{Total: 200, ServiceType: models.ServiceTakeaway, PaymentMethod: models.PaymentCash},
		{Total: 500, ServiceType: models.ServiceDining, PaymentMethod: models.PaymentCard},
	}

	stats := buildCustomerStats(customer, orders)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1500.0, stats.TotalSpent)
	assert.Equal(t, 500.0, stats.AverageOrderValue)
	assert.Equal(t, &lastOrder, stats.LastOrderDate)
	assert.Equal(t, models.ServiceDining, stats.FavoriteServiceType)
	assert.Equal(t, models.PaymentCash, stats.FavoritePaymentMethod)
}

func TestBuildCustomerStatsEmptyHistory(t *testing.T) {
	stats := buildCustomerStats(models.Customer{}, nil)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Equal(t, 0.0, stats.TotalSpent)
	assert.Equal(t, 0.0, stats.AverageOrderValue)
	assert.Equal(t, "", stats.FavoriteServiceType)
}
