package attempts

import (
	"net/http"
	"strconv"

	"cracker/middleware"
	"cracker/services"
	"cracker/utils/response"

	"github.com/gin-gonic/gin"
)

// SubmitAttempt settles one guess against the current active block
// @Summary Submit an attempt
// @Description Submits a guess against the active block; costs one CP whether or not the guess is correct
// @Tags Attempts
// @Accept json
// @Produce json
// @Param request body SubmitAttemptRequest true "Attempt details"
// @Success 200 {object} AttemptResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /attempts [post]
// @Security Bearer
func SubmitAttempt(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var request SubmitAttemptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	result, err := services.SubmitAttempt(user, request.BlockID, request.InputValue)
	if err != nil {
		response.FromServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AttemptResponse{
		Correct:     result.Correct,
		Won:         result.Won,
		Similarity:  result.Attempt.Similarity,
		RemainingCP: result.RemainingCP,
		BlockStatus: result.BlockStatus,
		Attempt:     &result.Attempt,
	})
}

// GetBlockAttempts lists recent attempts against a block
// @Summary List attempts for a block
// @Description Lists the most recent attempts against the specified block, newest first
// @Tags Attempts
// @Produce json
// @Param block_id path int true "Block ID"
// @Param limit query int false "Maximum number of attempts to return"
// @Success 200 {array} models.Attempt
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /attempts/{block_id} [get]
// @Security Bearer
func GetBlockAttempts(c *gin.Context) {
	blockID, err := strconv.ParseUint(c.Param("block_id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidBlockID)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if _, err := services.GetBlock(uint(blockID)); err != nil {
		response.Error(c, http.StatusNotFound, ErrBlockNotFound)
		return
	}

	attempts, err := services.ListBlockAttempts(uint(blockID), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFetchAttempts)
		return
	}

	c.JSON(http.StatusOK, attempts)
}
