package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders accepted at the register",
		},
		[]string{"service_type", "payment_method"},
	)

	orderRevenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_revenue_total",
			Help: "Running sum of order totals",
		},
	)

	lowStockAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "Low-stock notifications dispatched",
		},
	)

	sweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "low_stock_sweep_runs_total",
			Help: "Scheduled low-stock sweep executions",
		},
		[]string{"outcome"},
	)
)

// NewRegistry builds the process registry with all application collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		ordersCreated,
		orderRevenue,
		lowStockAlerts,
		sweepRuns,
	)
	return registry
}

// OrderCreated records one accepted order and its revenue.
func OrderCreated(serviceType, paymentMethod string, total float64) {
	ordersCreated.WithLabelValues(serviceType, paymentMethod).Inc()
	orderRevenue.Add(total)
}

// LowStockAlerted records one dispatched low-stock notification.
func LowStockAlerted() {
	lowStockAlerts.Inc()
}

// SweepRan records one sweep execution with its outcome label
// (ok, query_error or notify_error).
func SweepRan(outcome string) {
	sweepRuns.WithLabelValues(outcome).Inc()
}
