package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global store at a fresh in-memory sqlite database.
// A single connection serializes the store's conditional updates the way a
// real transactional store would.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	database.DB = db
	database.RDB = nil
	config.Game = config.DefaultGameConfig

	t.Cleanup(func() { sqlDB.Close() })
}

func createTestUser(t *testing.T, id, nickname string) models.User {
	t.Helper()
	user := models.User{ID: id, Nickname: nickname, PointsUpdatedAt: time.Now().UTC()}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createActiveBlock(t *testing.T, secret string, kinds ...string) models.Block {
	t.Helper()
	if len(kinds) == 0 {
		kinds = []string{models.CharsetLowercase, models.CharsetAlphanumeric}
	}
	block := models.Block{
		Status:   models.BlockStatusActive,
		Secret:   secret,
		Length:   len([]rune(secret)),
		Charsets: strings.Join(kinds, ","),
	}
	require.NoError(t, database.DB.Create(&block).Error)
	return block
}

func setBalance(t *testing.T, userID string, current int) {
	t.Helper()
	require.NoError(t, saveBalance(userID, current, time.Now().UTC().Truncate(time.Second)))
}

func saveBalance(userID string, current int, last time.Time) error {
	return database.DB.Save(&models.CPBalance{UserID: userID, Current: current, LastRefillAt: last}).Error
}

func findBalance(userID string, bal *models.CPBalance) error {
	return database.DB.First(bal, "user_id = ?", userID).Error
}

func findBlock(id uint, block *models.Block) error {
	return database.DB.First(block, "id = ?", id).Error
}

func findUser(id string, user *models.User) error {
	return database.DB.First(user, "id = ?", id).Error
}

func countBlocksByStatus(status string, count *int64) error {
	return database.DB.Model(&models.Block{}).Where("status = ?", status).Count(count).Error
}

func setPot(blockID uint, points int64) error {
	return database.DB.Model(&models.Block{}).Where("id = ?", blockID).
		UpdateColumn("accumulated_points", points).Error
}
