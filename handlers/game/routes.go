package game

import (
	"cracker/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to the game leaderboard
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/game/rankings", GetRankings)
	r.GET("/game/my-rank", middleware.AuthMiddleware(), GetMyRank)
}
