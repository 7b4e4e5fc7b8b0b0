package blocks

import (
	"time"

	"cracker/models"
	"cracker/realtime"
)

// Constants for error messages
const (
	ErrInvalidRequest = "Invalid request format"
	ErrNoBlocks       = "No blocks exist yet"
	ErrFetchBlocks    = "Failed to fetch blocks"
	ErrCreateBlock    = "Failed to create block"
)

// CreateBlockRequest model for the privileged block-generation call
type CreateBlockRequest struct {
	SeedHint  *string `json:"seed_hint"`
	IsGenesis bool    `json:"is_genesis"`
}

// HintRequest model for the winner's hint submission
type HintRequest struct {
	Hint string `json:"hint" binding:"required,max=255"`
}

// BlockResponse is the client-facing view of a block. The secret only appears
// once the block is solved.
type BlockResponse struct {
	ID                uint       `json:"id"`
	Status            string     `json:"status"`
	SeedHint          *string    `json:"seed_hint"`
	Length            int        `json:"length"`
	Charsets          []string   `json:"charsets"`
	AccumulatedPoints int64      `json:"accumulated_points"`
	WinnerID          *string    `json:"winner_id,omitempty"`
	WinnerNickname    string     `json:"winner_nickname,omitempty"`
	Password          *string    `json:"password,omitempty"`
	HintDeadline      *time.Time `json:"hint_deadline,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	SolvedAt          *time.Time `json:"solved_at,omitempty"`
	ViewerCount       int        `json:"viewer_count"`
}

// NewBlockResponse builds the redacted view of a block
func NewBlockResponse(b models.Block) BlockResponse {
	resp := BlockResponse{
		ID:                b.ID,
		Status:            b.Status,
		SeedHint:          b.SeedHint,
		Length:            b.Length,
		Charsets:          b.CharsetKinds(),
		AccumulatedPoints: b.AccumulatedPoints,
		WinnerID:          b.WinnerID,
		HintDeadline:      b.HintDeadline,
		CreatedAt:         b.CreatedAt,
		SolvedAt:          b.SolvedAt,
		ViewerCount:       realtime.ViewerCount(b.ID),
	}
	if b.Winner != nil {
		resp.WinnerNickname = b.Winner.Nickname
	}
	if b.IsSolved() {
		secret := b.Secret
		resp.Password = &secret
	}
	return resp
}
