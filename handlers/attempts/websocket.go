package attempts

import (
	"log"
	"net/http"
	"strconv"

	"cracker/realtime"
	"cracker/services"
	"cracker/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BlockWebSocket subscribes a viewer to a block's live event stream: attempt
// summaries, presence counts, and lifecycle transitions. Delivery is
// best-effort; a reconnecting client re-synchronizes via the REST endpoints.
// @Summary Subscribe to a block's live events
// @Description Upgrades to a websocket streaming attempt, presence, and block events
// @Tags Attempts
// @Param block_id path int true "Block ID"
// @Success 101
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /attempts/{block_id}/ws [get]
func BlockWebSocket(c *gin.Context) {
	blockID, err := strconv.ParseUint(c.Param("block_id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidBlockID)
		return
	}

	if _, err := services.GetBlock(uint(blockID)); err != nil {
		response.Error(c, http.StatusNotFound, ErrBlockNotFound)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	realtime.RegisterClient(uint(blockID), conn)
	defer func() {
		realtime.UnregisterClient(uint(blockID), conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
