package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"bifacial-tilt/internal/api/handlers"
	"bifacial-tilt/internal/api/middleware"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	estimateHandler := handlers.NewEstimateHandler()
	optimizeHandler := handlers.NewOptimizeHandler()
	layoutHandler := handlers.NewLayoutHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/estimate", estimateHandler.RunEstimate)
		api.POST("/optimize", optimizeHandler.RunOptimize)
		api.POST("/layout", layoutHandler.Summarize)
		api.GET("/defaults", handlers.ListDefaults)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
