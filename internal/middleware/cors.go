package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins to call the JSON API from a browser.
// A "*" entry allows every origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}

	switch {
	case slices.Contains(allowedOrigins, "*"):
		cfg.AllowAllOrigins = true
	case len(allowedOrigins) == 0:
		return func(c *gin.Context) { c.Next() }
	default:
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}
