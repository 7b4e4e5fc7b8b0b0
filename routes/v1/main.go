package v1

import (
	"cracker/handlers/attempts"
	"cracker/handlers/blocks"
	"cracker/handlers/game"
	"cracker/handlers/users"
	"cracker/middleware"

	"github.com/gin-gonic/gin"
)

// Register the endpoints for the v1 API
func Register(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	rateLimiter := middleware.NewRateLimiter(6000, 200) // 100 requests per second, 200 burst
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	attempts.RegisterRoutes(v1)
	blocks.RegisterRoutes(v1)
	game.RegisterRoutes(v1)
	users.RegisterRoutes(v1)

	// Register metrics endpoint
	RegisterMetricsRoutes(v1)
}
