package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubmitAttemptEndToEnd(t *testing.T) {
	setupTestDB(t)
	userA := createTestUser(t, "eeeeeeee-0000-0000-0000-00000000000a", "alice")
	userB := createTestUser(t, "eeeeeeee-0000-0000-0000-00000000000b", "bob")

	block := models.Block{
		ID:       41,
		Status:   models.BlockStatusActive,
		Secret:   "hunter2",
		Length:   7,
		Charsets: strings.Join([]string{models.CharsetLowercase, models.CharsetAlphanumeric}, ","),
	}
	require.NoError(t, database.DB.Create(&block).Error)

	resA, err := SubmitAttempt(userA, 41, "hunter1")
	require.NoError(t, err)
	assert.False(t, resA.Correct)
	assert.Equal(t, 86, resA.Attempt.Similarity)
	assert.Equal(t, config.Game.CPMax-1, resA.RemainingCP)
	assert.Equal(t, models.BlockStatusActive, resA.BlockStatus)
	assert.True(t, resA.Attempt.IsFirstSubmission)

	resB, err := SubmitAttempt(userB, 41, "hunter2")
	require.NoError(t, err)
	assert.True(t, resB.Correct)
	assert.True(t, resB.Won)
	assert.Equal(t, 100, resB.Attempt.Similarity)
	assert.Equal(t, models.BlockStatusWaitingHint, resB.BlockStatus)

	var stored models.Block
	require.NoError(t, findBlock(41, &stored))
	require.NotNil(t, stored.WinnerID)
	assert.Equal(t, userB.ID, *stored.WinnerID)
	require.NotNil(t, stored.SolvedAttemptID)
	assert.Equal(t, resB.Attempt.ID, *stored.SolvedAttemptID)

	// both settled attempts grew the pot, and the pot went to B
	var paid models.User
	require.NoError(t, findUser(userB.ID, &paid))
	assert.Equal(t, 2*config.Game.PointsPerAttempt, paid.TotalPoints)
}

func TestSubmitAttemptInvalidInput(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "eeeeeeee-0000-0000-0000-00000000000c", "carol")
	block := createActiveBlock(t, "hunter2")

	for _, guess := range []string{"", "short", "waytoolonghere", "HUNTER!"} {
		_, err := SubmitAttempt(user, block.ID, guess)
		assert.ErrorIs(t, err, ErrInvalidInput, "guess %q", guess)
	}

	// validation happens before any CP is spent and nothing is persisted
	var balances int64
	require.NoError(t, database.DB.Model(&models.CPBalance{}).Where("user_id = ? AND current < ?", user.ID, config.Game.CPMax).Count(&balances).Error)
	assert.Zero(t, balances)
	var attemptCount int64
	require.NoError(t, database.DB.Model(&models.Attempt{}).Count(&attemptCount).Error)
	assert.Zero(t, attemptCount)
}

func TestSubmitAttemptWithoutCP(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "eeeeeeee-0000-0000-0000-00000000000d", "dave")
	block := createActiveBlock(t, "hunter2")
	setBalance(t, user.ID, 0)

	_, err := SubmitAttempt(user, block.ID, "hunter1")
	assert.ErrorIs(t, err, ErrInsufficientCP)

	var attemptCount int64
	require.NoError(t, database.DB.Model(&models.Attempt{}).Count(&attemptCount).Error)
	assert.Zero(t, attemptCount, "a rejected attempt must not be persisted")

	var stored models.Block
	require.NoError(t, findBlock(block.ID, &stored))
	assert.Equal(t, models.BlockStatusActive, stored.Status)
	assert.Zero(t, stored.AccumulatedPoints)
}

func TestSubmitAttemptStaleBlock(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "eeeeeeee-0000-0000-0000-00000000000e", "erin")
	block := createActiveBlock(t, "hunter2")

	_, err := SubmitAttempt(user, block.ID+1, "hunter1")
	assert.ErrorIs(t, err, ErrStaleBlock)
}

func TestSubmitAttemptFirstSubmissionFlag(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "eeeeeeee-0000-0000-0000-00000000000f", "frank")
	block := createActiveBlock(t, "hunter2")

	first, err := SubmitAttempt(user, block.ID, "hunter1")
	require.NoError(t, err)
	assert.True(t, first.Attempt.IsFirstSubmission)

	second, err := SubmitAttempt(user, block.ID, "hunter3")
	require.NoError(t, err)
	assert.False(t, second.Attempt.IsFirstSubmission)
}

func TestFirstSubmissionSlotUniquePerUser(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "eeeeeeee-0000-0000-0000-000000000020", "heidi")
	block := createActiveBlock(t, "hunter2")

	// the store allows at most one first-submission row per user per block,
	// so two racing submissions can never both carry the flag
	for i, wantErr := range []bool{false, true} {
		attempt := models.Attempt{
			ID:                uuid.NewString(),
			BlockID:           block.ID,
			UserID:            user.ID,
			InputValue:        "hunter1",
			Similarity:        86,
			IsFirstSubmission: true,
			CreatedAt:         time.Now().UTC(),
		}
		err := database.DB.Create(&attempt).Error
		if wantErr {
			require.Error(t, err, "insert %d", i)
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		} else {
			require.NoError(t, err, "insert %d", i)
		}
	}

	// the settlement path recovers by recording the loser as a repeat
	res, err := SubmitAttempt(user, block.ID, "hunter3")
	require.NoError(t, err)
	assert.False(t, res.Attempt.IsFirstSubmission)
}

func TestSubmitAttemptConcurrentPerfectGuesses(t *testing.T) {
	setupTestDB(t)
	block := createActiveBlock(t, "hunter2")

	const racers = 6
	users := make([]models.User, racers)
	for i := range users {
		users[i] = createTestUser(t, uuid.NewString(), "racer")
	}

	type outcome struct {
		res AttemptResult
		err error
	}

	var wg sync.WaitGroup
	results := make(chan outcome, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()
			res, err := SubmitAttempt(u, block.ID, "hunter2")
			results <- outcome{res, err}
		}(users[i])
	}
	wg.Wait()
	close(results)

	wonCount, settled := 0, 0
	for out := range results {
		if out.err != nil {
			// a racer arriving after the claim is told to refetch the block
			assert.ErrorIs(t, out.err, ErrStaleBlock)
			continue
		}
		settled++
		assert.True(t, out.res.Correct)
		assert.Equal(t, 100, out.res.Attempt.Similarity)
		if out.res.Won {
			wonCount++
		}
	}
	assert.Equal(t, 1, wonCount, "exactly one perfect guess may win")
	require.GreaterOrEqual(t, settled, 1)

	var winners int64
	require.NoError(t, database.DB.Model(&models.Attempt{}).
		Where("block_id = ? AND is_winner = ?", block.ID, true).Count(&winners).Error)
	assert.Equal(t, int64(1), winners)

	var losers []models.Attempt
	require.NoError(t, database.DB.
		Where("block_id = ? AND is_winner = ?", block.ID, false).Find(&losers).Error)
	assert.Len(t, losers, settled-1, "losing perfect attempts are still persisted")
	for _, a := range losers {
		assert.Equal(t, 100, a.Similarity)
	}
}

func TestListBlockAttempts(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "eeeeeeee-0000-0000-0000-000000000010", "grace")
	block := createActiveBlock(t, "hunter2")

	for _, guess := range []string{"aaaaaaa", "hunter1", "hunter3"} {
		_, err := SubmitAttempt(user, block.ID, guess)
		require.NoError(t, err)
	}

	attempts, err := ListBlockAttempts(block.ID, 2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "hunter3", attempts[0].InputValue, "newest first")
}
