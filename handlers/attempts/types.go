package attempts

import "cracker/models"

// Constants for error messages
const (
	ErrInvalidRequest = "Invalid request format"
	ErrInvalidBlockID = "Invalid block ID"
	ErrBlockNotFound  = "Block not found"
	ErrFetchAttempts  = "Failed to fetch attempts"
)

// SubmitAttemptRequest model for submitting a guess
type SubmitAttemptRequest struct {
	BlockID    uint   `json:"block_id" binding:"required"`
	InputValue string `json:"input_value" binding:"required,max=255"`
}

// AttemptResponse model for a settled submission
type AttemptResponse struct {
	Correct     bool            `json:"correct"`
	Won         bool            `json:"won"`
	Similarity  int             `json:"similarity"`
	RemainingCP int             `json:"remaining_cp"`
	BlockStatus string          `json:"block_status"`
	Attempt     *models.Attempt `json:"attempt,omitempty"`
}
