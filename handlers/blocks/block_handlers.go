package blocks

import (
	"errors"
	"net/http"
	"strconv"

	"cracker/middleware"
	"cracker/services"
	"cracker/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetCurrentBlock returns the block currently open for attempts, or the
// newest block with its transitional phase while the contest is between rounds
// @Summary Get the current block
// @Description Returns the active block, or the latest block while the next one is being prepared
// @Tags Blocks
// @Produce json
// @Success 200 {object} BlockResponse
// @Failure 404 {object} map[string]string
// @Router /blocks/current [get]
func GetCurrentBlock(c *gin.Context) {
	block, err := services.GetActiveBlock()
	if err != nil {
		if !errors.Is(err, services.ErrNoActiveBlock) {
			response.FromServiceError(c, err)
			return
		}
		block, err = services.GetLatestBlock()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusNotFound, ErrNoBlocks)
				return
			}
			response.FromServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, NewBlockResponse(block))
}

// ListBlocks returns the most recent blocks, newest first
// @Summary List blocks
// @Description Lists recent blocks; solved blocks reveal their password
// @Tags Blocks
// @Produce json
// @Param limit query int false "Maximum number of blocks to return"
// @Success 200 {array} BlockResponse
// @Router /blocks [get]
func ListBlocks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	blocks, err := services.ListBlocks(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFetchBlocks)
		return
	}

	out := make([]BlockResponse, len(blocks))
	for i, b := range blocks {
		out[i] = NewBlockResponse(b)
	}
	c.JSON(http.StatusOK, out)
}

// SubmitHint lets the winner of the just-solved block seed the next hint
// @Summary Submit the next block's hint
// @Description Winner-only; valid while the hint window is open
// @Tags Blocks
// @Accept json
// @Produce json
// @Param request body HintRequest true "Hint"
// @Success 200 {object} BlockResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /blocks/current/hint [post]
// @Security Bearer
func SubmitHint(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var request HintRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	block, err := services.SubmitHint(user.ID, request.Hint)
	if err != nil {
		response.FromServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockResponse(block))
}

// CreateBlock is the entry point of the external block-generation
// collaborator: it opens the next block (or the genesis block)
// @Summary Create the next block
// @Description Privileged; stamps the finished block SOLVED and opens a new one with a fresh secret
// @Tags Blocks
// @Accept json
// @Produce json
// @Param request body CreateBlockRequest true "Block creation parameters"
// @Success 201 {object} BlockResponse
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /blocks [post]
func CreateBlock(c *gin.Context) {
	var request CreateBlockRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest+": "+err.Error())
		return
	}

	block, err := services.CreateNextBlock(nil, request.SeedHint, request.IsGenesis)
	if err != nil {
		if errors.Is(err, services.ErrWrongPhase) {
			response.FromServiceError(c, err)
			return
		}
		response.Error(c, http.StatusInternalServerError, ErrCreateBlock)
		return
	}

	c.JSON(http.StatusCreated, NewBlockResponse(block))
}
