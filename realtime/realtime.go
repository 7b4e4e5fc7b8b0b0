package realtime

import (
	"log"
	"strconv"
	"sync"
	"time"

	"cracker/metrics"

	"github.com/gorilla/websocket"
)

// Event classes pushed to block viewers. Delivery is best-effort and
// at-most-once; a reconnecting viewer re-synchronizes with a full refetch.
const (
	EventAttempt  = "attempt"
	EventPresence = "presence"
	EventBlock    = "block"
)

// Event is one message fanned out to every viewer of a block
type Event struct {
	Type    string      `json:"type"`
	BlockID uint        `json:"block_id"`
	Data    interface{} `json:"data"`
}

// AttemptEvent is the attempt summary pushed on every settled submission
type AttemptEvent struct {
	ID                string    `json:"id"`
	BlockID           uint      `json:"block_id"`
	UserID            string    `json:"user_id"`
	Nickname          string    `json:"nickname"`
	InputValue        string    `json:"input_value"`
	Similarity        int       `json:"similarity"`
	IsFirstSubmission bool      `json:"is_first_submission"`
	IsWinner          bool      `json:"is_winner"`
	CreatedAt         time.Time `json:"created_at"`
}

// BlockEvent announces a lifecycle transition of a block
type BlockEvent struct {
	BlockID           uint   `json:"block_id"`
	Status            string `json:"status"`
	WinnerID          string `json:"winner_id,omitempty"`
	WinnerNickname    string `json:"winner_nickname,omitempty"`
	AccumulatedPoints int64  `json:"accumulated_points"`
}

// PresenceEvent carries the approximate viewer count of a block
type PresenceEvent struct {
	Count int `json:"count"`
}

var (
	blockClients = make(map[uint]map[*websocket.Conn]bool) // Map of block ID to connected viewers
	broadcast    = make(chan Event, 256)                   // Broadcast channel for events
	mutex        sync.Mutex                                // Mutex to protect blockClients map
)

// RegisterClient adds a websocket viewer to a block and announces the new
// presence count to everyone watching it
func RegisterClient(blockID uint, conn *websocket.Conn) {
	mutex.Lock()
	if blockClients[blockID] == nil {
		blockClients[blockID] = make(map[*websocket.Conn]bool)
	}
	blockClients[blockID][conn] = true
	count := len(blockClients[blockID])
	mutex.Unlock()

	metrics.WebsocketConnections.WithLabelValues(strconv.FormatUint(uint64(blockID), 10)).Set(float64(count))
	Broadcast(Event{Type: EventPresence, BlockID: blockID, Data: PresenceEvent{Count: count}})
}

// UnregisterClient removes a websocket viewer from a block
func UnregisterClient(blockID uint, conn *websocket.Conn) {
	mutex.Lock()
	count := 0
	if clients, exists := blockClients[blockID]; exists {
		delete(clients, conn)
		count = len(clients)
		if count == 0 {
			delete(blockClients, blockID)
		}
	}
	mutex.Unlock()

	metrics.WebsocketConnections.WithLabelValues(strconv.FormatUint(uint64(blockID), 10)).Set(float64(count))
	Broadcast(Event{Type: EventPresence, BlockID: blockID, Data: PresenceEvent{Count: count}})
}

// ViewerCount returns the approximate number of live viewers of a block
func ViewerCount(blockID uint) int {
	mutex.Lock()
	defer mutex.Unlock()
	return len(blockClients[blockID])
}

// Broadcast queues an event for delivery to all viewers of its block. If the
// queue is full the event is dropped; delivery is best-effort.
func Broadcast(ev Event) {
	select {
	case broadcast <- ev:
	default:
		log.Printf("realtime: broadcast queue full, dropping %s event for block %d", ev.Type, ev.BlockID)
	}
}

// BroadcastAttempt pushes an attempt summary to all viewers of its block
func BroadcastAttempt(ev AttemptEvent) {
	Broadcast(Event{Type: EventAttempt, BlockID: ev.BlockID, Data: ev})
}

// BroadcastBlock pushes a block lifecycle transition to all viewers
func BroadcastBlock(ev BlockEvent) {
	Broadcast(Event{Type: EventBlock, BlockID: ev.BlockID, Data: ev})
}

// handleBroadcast is the single delivery pump, so every connection observes
// events in emission order
func handleBroadcast() {
	for ev := range broadcast {
		mutex.Lock()
		if clients, exists := blockClients[ev.BlockID]; exists {
			for client := range clients {
				if err := client.WriteJSON(ev); err != nil {
					log.Printf("WebSocket write error: %v", err)
					client.Close()
					delete(clients, client)
				}
			}
		}
		mutex.Unlock()
	}
}

func init() {
	go handleBroadcast()
}
