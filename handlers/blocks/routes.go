package blocks

import (
	"cracker/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to blocks
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/blocks", ListBlocks)
	r.GET("/blocks/current", GetCurrentBlock)
	r.POST("/blocks/current/hint", middleware.AuthMiddleware(), SubmitHint)

	// Block generation is reserved for the privileged collaborator
	r.POST("/blocks", middleware.ServiceTokenMiddleware(), CreateBlock)
}
