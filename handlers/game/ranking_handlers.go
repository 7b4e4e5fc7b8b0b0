package game

import (
	"net/http"
	"strconv"

	"cracker/middleware"
	"cracker/services"
	"cracker/utils/response"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrFetchRankings = "Failed to fetch rankings"
	ErrFetchRank     = "Failed to fetch rank"
)

// GetRankings returns the leaderboard
// @Summary Get the rankings
// @Description Top players by total points; the projection may be a few seconds stale
// @Tags Game
// @Produce json
// @Param limit query int false "Maximum number of entries to return"
// @Success 200 {array} services.RankingEntry
// @Router /game/rankings [get]
func GetRankings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := services.TopRankings(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFetchRankings)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetMyRank returns the caller's own ranking entry
// @Summary Get my rank
// @Description The caller's rank computed from the authoritative points table
// @Tags Game
// @Produce json
// @Success 200 {object} services.RankingEntry
// @Failure 401 {object} map[string]string
// @Router /game/my-rank [get]
// @Security Bearer
func GetMyRank(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	entry, err := services.RankOf(user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFetchRank)
		return
	}

	c.JSON(http.StatusOK, entry)
}
