package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/middleware"
	"github.com/pageza/recipe-finder/internal/service"
)

const requestIDKey = middleware.RequestIDKey

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// RegisterRoutes registers all API routes. handlers wrap the recipe routes
// only, so /health is never rate limited.
func RegisterRoutes(router *gin.Engine, recipeService service.IRecipeService, logger *zerolog.Logger, handlers ...gin.HandlerFunc) {
	router.GET("/health", HealthCheck)

	recipes := router.Group("", handlers...)
	NewRecipeHandler(recipeService, logger).RegisterRoutes(recipes)
}
