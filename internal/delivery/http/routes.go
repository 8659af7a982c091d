package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caltrack/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		nutrition := api.Group("/nutrition")
		{
			nutrition.GET("/search", handler.SearchNutrition)
			nutrition.POST("/estimate", handler.EstimateNutrition)
		}

		calories := api.Group("/calories")
		{
			calories.GET("", handler.ListEntries)
			calories.GET("/target", handler.GetTarget)
			calories.PUT("/target", handler.SetTarget)
			calories.GET("/:date", handler.GetEntry)
			calories.POST("/:date/:mealType", handler.AddFoodItem)
			calories.DELETE("/:date/:mealType/:foodId", handler.RemoveFoodItem)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/weekly", handler.WeeklyReport)
			reports.GET("/monthly", handler.MonthlyReport)
			reports.GET("/meals", handler.MealReport)
		}
	}

	return router
}
