package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/karimlaafif/Event-Flow/config"
	"github.com/karimlaafif/Event-Flow/forecast"
	"github.com/karimlaafif/Event-Flow/handlers"
	"github.com/karimlaafif/Event-Flow/history"
	"github.com/karimlaafif/Event-Flow/middleware"
	"github.com/karimlaafif/Event-Flow/models"
	"github.com/karimlaafif/Event-Flow/routing"
	"github.com/karimlaafif/Event-Flow/services"
	"github.com/karimlaafif/Event-Flow/sim"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PredictionRow{},
		&models.ScanRow{},
		&models.AlertRow{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis cache: the API serves from memory when unavailable
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
	}

	authService := services.NewAuthService(cfg.JWT)

	// Simulation engine and its collaborators
	hist := history.NewStore(history.DefaultCapacity)
	forecaster := forecast.New(hist)
	recommender := routing.NewRecommender()
	engine := sim.New(forecaster, recommender, hist, sim.Options{
		SpectatorCount: cfg.Simulation.SpectatorCount,
		Speed:          cfg.Simulation.Speed,
		Publisher:      cache,
	})
	if cfg.Simulation.AutoStart {
		engine.Start()
	}

	simHandler := handlers.NewSimulationHandler(engine, forecaster)
	historyHandler := handlers.NewHistoryHandler(db, cache)
	authHandler := handlers.NewAuthHandler(db, authService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "Event Flow API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	api := router.Group("/api")
	{
		api.GET("/simulation", simHandler.GetState)
		api.GET("/gates", simHandler.GetGates)
		api.GET("/spectators", simHandler.GetSpectators)
		api.GET("/alerts", simHandler.GetAlerts)
		api.GET("/predictions", simHandler.GetPredictions)
		api.GET("/model/metrics", simHandler.GetMetrics)
		api.GET("/recommendations", simHandler.GetRecommendations)
		api.GET("/recommendations/best", simHandler.GetBestGate)
		api.GET("/history/predictions", historyHandler.GetPredictionHistory)
		api.GET("/history/scans", historyHandler.GetScanHistory)
	}

	// Control commands require a valid token
	control := router.Group("/api/simulation")
	control.Use(middleware.RequireAuth(authService))
	{
		control.POST("/start", simHandler.Start)
		control.POST("/stop", simHandler.Stop)
		control.POST("/crisis", simHandler.ToggleCrisis)
		control.POST("/redirect", simHandler.Redirect)
	}

	router.GET("/ws/live", handlers.LiveWebSocket(cache, authService))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
