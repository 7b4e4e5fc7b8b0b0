package models

import (
	"strings"
	"time"
)

// Block lifecycle statuses. A block moves ACTIVE -> WAITING_HINT (on win) ->
// WAITING_PASSWORD (hint supplied or window expired) -> SOLVED (stamped when
// the next block opens). At most one block is ACTIVE at any instant.
const (
	BlockStatusActive          = "ACTIVE"
	BlockStatusWaitingHint     = "WAITING_HINT"
	BlockStatusWaitingPassword = "WAITING_PASSWORD"
	BlockStatusSolved          = "SOLVED"
)

// Block represents one round of the password-cracking contest: a secret that
// every player attacks at the same time
type Block struct {
	ID                uint       `gorm:"primary_key;autoIncrement" json:"id"`
	Status            string     `gorm:"type:varchar(20);not null;index;uniqueIndex:uniq_active_block,where:status = 'ACTIVE'" json:"status"`
	Secret            string     `gorm:"type:varchar(255);not null" json:"-"`
	SeedHint          *string    `gorm:"type:varchar(255);column:seed_hint" json:"seed_hint"`
	Length            int        `gorm:"not null" json:"length"`
	Charsets          string     `gorm:"type:varchar(100);not null" json:"charsets"`
	AccumulatedPoints int64      `gorm:"not null;default:0;column:accumulated_points" json:"accumulated_points"`
	WinnerID          *string    `gorm:"type:uuid;column:winner_id" json:"winner_id"`
	SolvedAttemptID   *string    `gorm:"type:uuid;column:solved_attempt_id" json:"solved_attempt_id"`
	CreatedBy         *string    `gorm:"type:uuid;column:created_by" json:"created_by"`
	NextHint          *string    `gorm:"type:varchar(255);column:next_hint" json:"-"`
	HintDeadline      *time.Time `gorm:"column:hint_deadline" json:"hint_deadline"`
	CreatedAt         time.Time  `json:"created_at"`
	SolvedAt          *time.Time `gorm:"column:solved_at" json:"solved_at"`
	Winner            *User      `gorm:"foreignKey:WinnerID" json:"winner,omitempty"`
}

// CharsetKinds returns the charset kinds of the block's difficulty config
func (b *Block) CharsetKinds() []string {
	return strings.Split(b.Charsets, ",")
}

// IsSolved reports whether a winner has been recorded, regardless of how far
// the lifecycle has advanced past the claim
func (b *Block) IsSolved() bool {
	return b.WinnerID != nil
}
