package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bakery/internal/config"
	"bakery/internal/database"
	"bakery/internal/handlers"
	"bakery/internal/inventory"
	"bakery/internal/metrics"
	"bakery/internal/middleware"
	"bakery/internal/models"
	"bakery/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Printf("customer index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureInventoryIndexes(db); err != nil {
		log.Printf("inventory index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureAuditIndexes(db); err != nil {
		log.Printf("audit index warning: %v", err)
	}
	if err := database.SeedOrderCounter(db); err != nil {
		log.Printf("order counter warning: %v", err)
	}

	notifier := notify.FromConfig(config.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := &inventory.Sweeper{
		DB:       db,
		Notifier: notifier,
		Interval: config.AppEnv.LowStockSweepInterval,
	}
	go sweeper.Run(ctx)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.Identify(config.AppEnv.JWTSecret, config.AppEnv.AuthEnabled))

	registry := metrics.NewRegistry()
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	api.GET("/health", handlers.Health(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RequireRole(models.RoleAdmin), handlers.Register(db))
		auth.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret))
		auth.GET("/me", handlers.Me())
	}

	orders := api.Group("/orders")
	{
		orders.GET("", handlers.GetOrders(db))
		orders.GET("/daily-revenue", handlers.GetDailyRevenue(db))
		orders.GET("/sales-analysis", handlers.GetSalesAnalysis(db))
		orders.POST("", handlers.CreateOrder(db, notifier))
		orders.PATCH("/:id/status", handlers.UpdateOrderStatus(db))
	}

	products := api.Group("/products")
	{
		products.GET("", handlers.GetProducts(db))
		products.GET("/:id", handlers.GetProduct(db))
		products.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.CreateProduct(db))
		products.PUT("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.UpdateProduct(db))
		products.PATCH("/:id/stock", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.UpdateProductStock(db))
		products.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), handlers.DeleteProduct(db))
	}

	customers := api.Group("/customers")
	{
		customers.GET("", handlers.GetCustomers(db))
		customers.GET("/:id", handlers.GetCustomer(db))
		customers.GET("/:id/stats", handlers.GetCustomerStats(db))
		customers.POST("", handlers.CreateCustomer(db))
		customers.PUT("/:id", handlers.UpdateCustomer(db))
	}

	inv := api.Group("/inventory")
	{
		inv.GET("", handlers.GetInventory(db))
		inv.GET("/product/:productId", handlers.GetProductInventory(db))
		inv.PATCH("/:id/quantity", handlers.UpdateInventoryQuantity(db))
		inv.POST("/add-stock", handlers.AddStock(db))
		inv.GET("/alerts/low-stock", handlers.GetLowStockAlerts(db))
		inv.POST("/initialize", handlers.InitializeInventory(db))
	}

	api.GET("/audit", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.GetAuditLogs(db))

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
