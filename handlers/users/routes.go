package users

import (
	"cracker/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to user profiles
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/cp", GetCP)
		users.GET("/me", GetMe)
	}
}
