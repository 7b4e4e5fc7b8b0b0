package attempts

import (
	"cracker/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to attempts
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	// The event stream authenticates nothing: it only carries data every
	// viewer of the block may see
	r.GET("/attempts/:block_id/ws", BlockWebSocket)

	attempts := r.Group("/attempts")
	attempts.Use(middleware.AuthMiddleware())
	{
		attempts.POST("", SubmitAttempt)
		attempts.GET("/:block_id", GetBlockAttempts)
	}
}
