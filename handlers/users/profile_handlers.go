package users

import (
	"net/http"

	"cracker/config"
	"cracker/middleware"
	"cracker/services"
	"cracker/utils/response"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrFetchBalance = "Failed to fetch computing power"
	ErrFetchProfile = "Failed to fetch profile"
)

// CPResponse model for the computing power query
type CPResponse struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// ProfileResponse model for the caller's own profile
type ProfileResponse struct {
	ID          string     `json:"id"`
	Nickname    string     `json:"nickname"`
	TotalPoints int64      `json:"total_points"`
	Rank        int        `json:"rank"`
	CP          CPResponse `json:"cp"`
}

// GetCP returns the caller's computing power after a lazy refill
// @Summary Get my computing power
// @Description Current and maximum CP; reading applies any refill accrued since the last check
// @Tags Users
// @Produce json
// @Success 200 {object} CPResponse
// @Failure 401 {object} map[string]string
// @Router /users/cp [get]
// @Security Bearer
func GetCP(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	bal, err := services.RefillBalance(user.ID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, ErrFetchBalance)
		return
	}

	c.JSON(http.StatusOK, CPResponse{Current: bal.Current, Max: config.Game.CPMax})
}

// GetMe returns the caller's profile with points, rank, and CP
// @Summary Get my profile
// @Description Nickname, total points, current rank, and computing power
// @Tags Users
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} map[string]string
// @Router /users/me [get]
// @Security Bearer
func GetMe(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	entry, err := services.RankOf(user.ID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, ErrFetchProfile)
		return
	}
	bal, err := services.RefillBalance(user.ID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, ErrFetchBalance)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:          user.ID,
		Nickname:    user.Nickname,
		TotalPoints: entry.TotalPoints,
		Rank:        entry.Rank,
		CP:          CPResponse{Current: bal.Current, Max: config.Game.CPMax},
	})
}
