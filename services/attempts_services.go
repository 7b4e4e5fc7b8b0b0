package services

import (
	"errors"
	"fmt"
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/metrics"
	"cracker/models"
	"cracker/realtime"
	"cracker/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptResult is the settled outcome of one submission
type AttemptResult struct {
	Attempt     models.Attempt `json:"attempt"`
	Correct     bool           `json:"correct"`
	Won         bool           `json:"won"`
	RemainingCP int            `json:"remaining_cp"`
	BlockStatus string         `json:"block_status"`
}

// SubmitAttempt settles one submission: validate the guess, debit CP, score
// it, persist the attempt, and on a perfect score run winner arbitration.
// Once the debit succeeds the CP is spent whether or not the attempt wins;
// that is the contest's pricing rule, not a failure mode.
func SubmitAttempt(user models.User, blockID uint, input string) (AttemptResult, error) {
	var result AttemptResult

	block, err := GetActiveBlock()
	if err != nil {
		if errors.Is(err, ErrNoActiveBlock) {
			metrics.AttemptsTotal.WithLabelValues("stale_block").Inc()
			return result, ErrStaleBlock
		}
		return result, err
	}
	if block.ID != blockID {
		metrics.AttemptsTotal.WithLabelValues("stale_block").Inc()
		return result, ErrStaleBlock
	}

	if err := utils.ValidateGuess(input, block.Length, block.CharsetKinds()); err != nil {
		metrics.AttemptsTotal.WithLabelValues("invalid_input").Inc()
		return result, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bal, err := TryDebit(user.ID)
	if err != nil {
		if errors.Is(err, ErrInsufficientCP) {
			metrics.AttemptsTotal.WithLabelValues("insufficient_cp").Inc()
			result.RemainingCP = bal.Current
		}
		return result, err
	}
	result.RemainingCP = bal.Current

	similarity := utils.Similarity(input, block.Secret)
	result.Correct = similarity == 100

	var prior int64
	if err := database.DB.Model(&models.Attempt{}).
		Where("block_id = ? AND user_id = ?", block.ID, user.ID).
		Count(&prior).Error; err != nil {
		return result, fmt.Errorf("failed to count prior attempts: %w", err)
	}

	attempt := models.Attempt{
		ID:                uuid.NewString(),
		BlockID:           block.ID,
		UserID:            user.ID,
		InputValue:        input,
		Similarity:        similarity,
		IsFirstSubmission: prior == 0,
		CreatedAt:         time.Now().UTC(),
	}
	if err := database.DB.Create(&attempt).Error; err != nil {
		// a simultaneous submission from the same user already took the
		// first-submission slot; this one is a repeat
		if attempt.IsFirstSubmission && errors.Is(err, gorm.ErrDuplicatedKey) {
			attempt.IsFirstSubmission = false
			err = database.DB.Create(&attempt).Error
		}
		if err != nil {
			return result, fmt.Errorf("failed to persist attempt: %w", err)
		}
	}

	// Grow the pot only while the block is still open; an attempt racing past
	// another's claim must not inflate an already-frozen prize
	if err := database.DB.Model(&models.Block{}).
		Where("id = ? AND status = ?", block.ID, models.BlockStatusActive).
		UpdateColumn("accumulated_points", gorm.Expr("accumulated_points + ?", config.Game.PointsPerAttempt)).Error; err != nil {
		return result, fmt.Errorf("failed to grow block pot: %w", err)
	}

	result.BlockStatus = models.BlockStatusActive
	var frozenPot int64

	if result.Correct {
		won, solved, err := ClaimWin(block.ID, attempt.ID, user.ID)
		if err != nil {
			return result, err
		}
		if won {
			result.Won = true
			result.BlockStatus = solved.Status
			frozenPot = solved.AccumulatedPoints
			attempt.IsWinner = true
			if err := database.DB.Model(&models.Attempt{}).
				Where("id = ?", attempt.ID).
				Update("is_winner", true).Error; err != nil {
				return result, fmt.Errorf("failed to flag winning attempt: %w", err)
			}
			metrics.AttemptsTotal.WithLabelValues("won").Inc()
		} else {
			// correct but late: stored as an ordinary non-winning attempt
			metrics.ArbitrationLost.Inc()
			metrics.AttemptsTotal.WithLabelValues("scored").Inc()
			if config.Game.LatePerfectPoints > 0 {
				if err := CreditPoints(user.ID, config.Game.LatePerfectPoints); err != nil {
					return result, err
				}
			}
			if current, err := GetBlock(block.ID); err == nil {
				result.BlockStatus = current.Status
			}
		}
	} else {
		metrics.AttemptsTotal.WithLabelValues("scored").Inc()
	}

	result.Attempt = attempt

	realtime.BroadcastAttempt(realtime.AttemptEvent{
		ID:                attempt.ID,
		BlockID:           attempt.BlockID,
		UserID:            attempt.UserID,
		Nickname:          user.Nickname,
		InputValue:        attempt.InputValue,
		Similarity:        attempt.Similarity,
		IsFirstSubmission: attempt.IsFirstSubmission,
		IsWinner:          attempt.IsWinner,
		CreatedAt:         attempt.CreatedAt,
	})
	if result.Won {
		realtime.BroadcastBlock(realtime.BlockEvent{
			BlockID:           block.ID,
			Status:            result.BlockStatus,
			WinnerID:          user.ID,
			WinnerNickname:    user.Nickname,
			AccumulatedPoints: frozenPot,
		})
	}
	return result, nil
}

// ListBlockAttempts returns the most recent attempts against a block
func ListBlockAttempts(blockID uint, limit int) ([]models.Attempt, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var attempts []models.Attempt
	err := database.DB.Preload("User").
		Where("block_id = ?", blockID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}
