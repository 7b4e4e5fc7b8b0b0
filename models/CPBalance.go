package models

import "time"

// CPBalance is a user's computing power: a regenerating resource consumed per
// attempt. Mutated only by the CP ledger's refill and debit updates, never set
// directly from a client request.
type CPBalance struct {
	UserID       string    `gorm:"type:uuid;primary_key;column:user_id" json:"user_id"`
	Current      int       `gorm:"not null" json:"current"`
	LastRefillAt time.Time `gorm:"not null;column:last_refill_at" json:"last_refill_at"`
}
