package models

import "time"

// User represents a player profile. Identity is owned by the external auth
// provider; the engine only mirrors the verified user id and nickname and owns
// the gameplay fields (points, timestamps).
type User struct {
	ID              string    `gorm:"type:uuid;primary_key" json:"id"`
	Nickname        string    `gorm:"type:varchar(50);not null" json:"nickname"`
	TotalPoints     int64     `gorm:"not null;default:0" json:"total_points"`
	PointsUpdatedAt time.Time `gorm:"not null;column:points_updated_at" json:"points_updated_at"`
	CreatedAt       time.Time `json:"created_at"`
}
