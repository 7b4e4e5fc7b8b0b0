package config

import (
	"time"

	"cracker/models"
)

// GameConfig groups the gameplay tuning knobs of the contest
type GameConfig struct {
	CPMax             int           // Maximum computing power a user can hold
	CPRefillInterval  time.Duration // One CP unit regenerates per interval
	CPCost            int           // CP consumed by a single attempt
	HintWindow        time.Duration // How long a winner may take to supply the next hint
	WatchdogInterval  time.Duration // How often overdue hint windows are swept
	PointsPerAttempt  int64         // Added to the block pot for every settled attempt
	LatePerfectPoints int64         // Points for a 100% attempt that lost arbitration
	BasePot           int64         // Starting pot of a freshly opened block
	BaseLength        int           // Secret length of the genesis block
	LengthGrowthEvery int           // Secret grows by one character every N blocks
	MaxLength         int           // Secret length cap
}

var DefaultGameConfig = GameConfig{
	CPMax:             10,
	CPRefillInterval:  time.Minute,
	CPCost:            1,
	HintWindow:        180 * time.Second,
	WatchdogInterval:  5 * time.Second,
	PointsPerAttempt:  1,
	LatePerfectPoints: 0,
	BasePot:           0,
	BaseLength:        4,
	LengthGrowthEvery: 8,
	MaxLength:         12,
}

// Game is the config consulted by the engine. Tests swap it for a tuned copy.
var Game = DefaultGameConfig

// DifficultyFor returns the default difficulty of the n-th block: length grows
// slowly with the block number and the charset widens at fixed milestones. The
// external block generator may override both.
func (g GameConfig) DifficultyFor(n uint) (int, []string) {
	length := g.BaseLength + int(n)/g.LengthGrowthEvery
	if length > g.MaxLength {
		length = g.MaxLength
	}

	switch {
	case n < 15:
		return length, []string{models.CharsetLowercase}
	case n < 40:
		return length, []string{models.CharsetLowercase, models.CharsetAlphanumeric}
	case n < 80:
		return length, []string{models.CharsetLowercase, models.CharsetUppercase, models.CharsetAlphanumeric}
	default:
		return length, []string{models.CharsetLowercase, models.CharsetUppercase, models.CharsetAlphanumeric, models.CharsetSymbols}
	}
}
