package models

import "time"

// Attempt represents a user's single submitted guess against a block.
// Attempts are immutable once persisted; they are never updated or deleted.
type Attempt struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	BlockID           uint      `gorm:"not null;index:idx_attempts_block;uniqueIndex:uniq_first_attempt,priority:1,where:is_first_submission;column:block_id" json:"block_id"`
	UserID            string    `gorm:"type:uuid;not null;index;uniqueIndex:uniq_first_attempt,priority:2;column:user_id" json:"user_id"`
	InputValue        string    `gorm:"type:varchar(255);not null;column:input_value" json:"input_value"`
	Similarity        int       `gorm:"not null" json:"similarity"`
	IsFirstSubmission bool      `gorm:"not null;column:is_first_submission" json:"is_first_submission"`
	IsWinner          bool      `gorm:"not null;default:false;column:is_winner" json:"is_winner"`
	CreatedAt         time.Time `gorm:"index:idx_attempts_block" json:"created_at"`
	User              *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
