package attempts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/middleware"
	"cracker/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (models.User, models.Block) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	user := models.User{ID: "99999999-0000-0000-0000-000000000001", Nickname: "alice", PointsUpdatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&user).Error)

	block := models.Block{
		Status:   models.BlockStatusActive,
		Secret:   "hunter2",
		Length:   7,
		Charsets: models.CharsetLowercase + "," + models.CharsetAlphanumeric,
	}
	require.NoError(t, db.Create(&block).Error)
	return user, block
}

func setupRouter(user models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { middleware.SetUserForTest(c, user) })
	r.POST("/attempts", SubmitAttempt)
	r.GET("/attempts/:block_id", GetBlockAttempts)
	return r
}

func postAttempt(r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/attempts", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitAttemptHandler(t *testing.T) {
	user, block := setupTest(t)
	r := setupRouter(user)

	w := postAttempt(r, SubmitAttemptRequest{BlockID: block.ID, InputValue: "hunter1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AttemptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Correct)
	assert.Equal(t, 86, resp.Similarity)
	assert.Equal(t, config.Game.CPMax-1, resp.RemainingCP)
	assert.Equal(t, models.BlockStatusActive, resp.BlockStatus)
}

func TestSubmitAttemptHandlerWinning(t *testing.T) {
	user, block := setupTest(t)
	r := setupRouter(user)

	w := postAttempt(r, SubmitAttemptRequest{BlockID: block.ID, InputValue: "hunter2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AttemptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Correct)
	assert.True(t, resp.Won)
	assert.Equal(t, models.BlockStatusWaitingHint, resp.BlockStatus)
}

func TestSubmitAttemptHandlerRejections(t *testing.T) {
	user, block := setupTest(t)
	r := setupRouter(user)

	t.Run("malformed body", func(t *testing.T) {
		w := postAttempt(r, gin.H{"block_id": block.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid guess", func(t *testing.T) {
		w := postAttempt(r, SubmitAttemptRequest{BlockID: block.ID, InputValue: "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stale block", func(t *testing.T) {
		w := postAttempt(r, SubmitAttemptRequest{BlockID: block.ID + 1, InputValue: "hunter1"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("exhausted CP", func(t *testing.T) {
		require.NoError(t, database.DB.Save(&models.CPBalance{
			UserID:       user.ID,
			Current:      0,
			LastRefillAt: time.Now().UTC(),
		}).Error)
		w := postAttempt(r, SubmitAttemptRequest{BlockID: block.ID, InputValue: "hunter1"})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestGetBlockAttemptsHandler(t *testing.T) {
	user, block := setupTest(t)
	r := setupRouter(user)

	for _, guess := range []string{"hunter1", "hunter3"} {
		w := postAttempt(r, SubmitAttemptRequest{BlockID: block.ID, InputValue: guess})
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/attempts/%d?limit=10", block.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var attempts []models.Attempt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &attempts))
	require.Len(t, attempts, 2)
	assert.Equal(t, "hunter3", attempts[0].InputValue)

	req = httptest.NewRequest(http.MethodGet, "/attempts/9999", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
