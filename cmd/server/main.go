package main

import (
	"context"
	"log"
	"strconv"

	"github.com/CCMKTGGP/brand-visibility-tracker/config"
	"github.com/CCMKTGGP/brand-visibility-tracker/db"
	"github.com/CCMKTGGP/brand-visibility-tracker/middlewares"
	"github.com/CCMKTGGP/brand-visibility-tracker/routes"
	"github.com/CCMKTGGP/brand-visibility-tracker/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := services.InitAnalysisService(context.Background(), cfg); err != nil {
		log.Fatalf("Failed to initialize analysis service: %v", err)
	}

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	router := setupRouter()
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(middlewares.RequestLogMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.POST("/analyze", routes.AnalyzeStageRouteHandler)
	router.GET("/analysis/:brand", routes.GetBrandAnalysesRouteHandler)
	router.GET("/analysis/:brand/latest", routes.GetLatestAnalysisRouteHandler)

	return router
}
