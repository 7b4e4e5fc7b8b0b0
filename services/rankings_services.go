package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cracker/database"
	"cracker/metrics"
	"cracker/models"

	"gorm.io/gorm"
)

var ctx = context.Background()

const (
	rankingsCacheKey  = "game:rankings:top"
	rankingsCacheTTL  = 5 * time.Second
	rankingsCacheSize = 100
)

// RankingEntry is one row of the leaderboard projection. The users table is
// the source of truth; the redis copy may lag it by a few seconds.
type RankingEntry struct {
	UserID      string `json:"id"`
	Nickname    string `json:"nickname"`
	TotalPoints int64  `json:"total_points"`
	Rank        int    `json:"rank"`
}

// CreditPoints adds points to a user's total. This path only ever increments;
// the update also stamps the moment the new total was reached, which breaks
// ranking ties in favor of whoever got there first.
func CreditPoints(userID string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	res := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_points":      gorm.Expr("total_points + ?", amount),
			"points_updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cannot credit points to unknown user %s", userID)
	}

	invalidateRankingsCache()
	return nil
}

// TopRankings returns the leaderboard in strict descending points order, ties
// broken by who reached the total first
func TopRankings(limit int) ([]RankingEntry, error) {
	if limit <= 0 || limit > rankingsCacheSize {
		limit = 10
	}

	if cached := cachedRankings(); cached != nil {
		metrics.CacheHits.Inc()
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}
	metrics.CacheMisses.Inc()

	var users []models.User
	if err := database.DB.
		Where("total_points > 0").
		Order("total_points DESC").
		Order("points_updated_at ASC").
		Limit(rankingsCacheSize).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, len(users))
	for i, u := range users {
		entries[i] = RankingEntry{UserID: u.ID, Nickname: u.Nickname, TotalPoints: u.TotalPoints, Rank: i + 1}
	}
	storeRankingsCache(entries)

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// RankOf computes a user's current rank straight from the source of truth
func RankOf(userID string) (RankingEntry, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return RankingEntry{}, err
	}

	var ahead int64
	if err := database.DB.Model(&models.User{}).
		Where("total_points > ? OR (total_points = ? AND points_updated_at < ? AND id <> ?)",
			user.TotalPoints, user.TotalPoints, user.PointsUpdatedAt, user.ID).
		Count(&ahead).Error; err != nil {
		return RankingEntry{}, err
	}

	return RankingEntry{
		UserID:      user.ID,
		Nickname:    user.Nickname,
		TotalPoints: user.TotalPoints,
		Rank:        int(ahead) + 1,
	}, nil
}

func cachedRankings() []RankingEntry {
	if database.RDB == nil {
		return nil
	}
	raw, err := database.RDB.Get(ctx, rankingsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var entries []RankingEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

func storeRankingsCache(entries []RankingEntry) {
	if database.RDB == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := database.RDB.Set(ctx, rankingsCacheKey, raw, rankingsCacheTTL).Err(); err != nil {
		log.Printf("failed to store rankings cache: %v", err)
	}
}

func invalidateRankingsCache() {
	if database.RDB == nil {
		return
	}
	if err := database.RDB.Del(ctx, rankingsCacheKey).Err(); err != nil {
		log.Printf("failed to invalidate rankings cache: %v", err)
	}
}
