package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/metrics"
	"cracker/models"
	"cracker/realtime"
	"cracker/utils"

	"gorm.io/gorm"
)

// GetActiveBlock returns the single block currently open for attempts
func GetActiveBlock() (models.Block, error) {
	var block models.Block
	if err := database.DB.First(&block, "status = ?", models.BlockStatusActive).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return block, ErrNoActiveBlock
		}
		return block, err
	}
	return block, nil
}

// GetLatestBlock returns the newest block regardless of lifecycle phase
func GetLatestBlock() (models.Block, error) {
	var block models.Block
	err := database.DB.Order("id DESC").First(&block).Error
	return block, err
}

// GetBlock returns a block by id
func GetBlock(id uint) (models.Block, error) {
	var block models.Block
	err := database.DB.Preload("Winner").First(&block, "id = ?", id).Error
	return block, err
}

// ListBlocks returns the most recent blocks, newest first
func ListBlocks(limit int) ([]models.Block, error) {
	var blocks []models.Block
	err := database.DB.Preload("Winner").Order("id DESC").Limit(limit).Find(&blocks).Error
	return blocks, err
}

// ClaimWin decides winner arbitration for a perfect-score attempt. The single
// conditional update below is the only source of truth for "first": whichever
// caller the store accepts transitions the block, every other caller finds the
// block no longer active and loses, no matter what its attempt timestamp says.
// On a win the pot is frozen and paid out, and the hint window opens.
func ClaimWin(blockID uint, attemptID, userID string) (bool, models.Block, error) {
	now := time.Now().UTC()
	deadline := now.Add(config.Game.HintWindow)

	res := database.DB.Model(&models.Block{}).
		Where("id = ? AND status = ?", blockID, models.BlockStatusActive).
		Updates(map[string]interface{}{
			"status":            models.BlockStatusWaitingHint,
			"winner_id":         userID,
			"solved_attempt_id": attemptID,
			"solved_at":         now,
			"hint_deadline":     deadline,
		})
	if res.Error != nil {
		return false, models.Block{}, res.Error
	}
	if res.RowsAffected == 0 {
		return false, models.Block{}, nil
	}

	// No attempt can grow the pot once the block left ACTIVE, so this read is
	// the final prize value.
	var block models.Block
	if err := database.DB.First(&block, "id = ?", blockID).Error; err != nil {
		return true, block, err
	}
	if err := CreditPoints(userID, block.AccumulatedPoints); err != nil {
		return true, block, fmt.Errorf("failed to credit winner points: %w", err)
	}
	metrics.BlocksSolved.Inc()

	// Safety timer per claim; the watchdog sweep covers restarts
	time.AfterFunc(config.Game.HintWindow+time.Second, func() {
		if err := ExpireHintWindows(time.Now().UTC()); err != nil {
			log.Printf("hint window expiry after block %d: %v", blockID, err)
		}
	})
	return true, block, nil
}

// SubmitHint lets the winner of the just-solved block supply the seed hint for
// the next one, closing the hint window
func SubmitHint(userID, hint string) (models.Block, error) {
	var block models.Block
	err := database.DB.Order("id DESC").First(&block, "status = ?", models.BlockStatusWaitingHint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return block, ErrWrongPhase
		}
		return block, err
	}
	if block.WinnerID == nil || *block.WinnerID != userID {
		return block, ErrNotWinner
	}

	res := database.DB.Model(&models.Block{}).
		Where("id = ? AND status = ?", block.ID, models.BlockStatusWaitingHint).
		Updates(map[string]interface{}{
			"status":    models.BlockStatusWaitingPassword,
			"next_hint": hint,
		})
	if res.Error != nil {
		return block, res.Error
	}
	if res.RowsAffected == 0 {
		// the window expired between the read and the update
		return block, ErrWrongPhase
	}

	block.Status = models.BlockStatusWaitingPassword
	block.NextHint = &hint
	realtime.BroadcastBlock(realtime.BlockEvent{
		BlockID:           block.ID,
		Status:            block.Status,
		WinnerID:          userID,
		AccumulatedPoints: block.AccumulatedPoints,
	})
	return block, nil
}

// ExpireHintWindows moves every overdue WAITING_HINT block on to
// WAITING_PASSWORD with a default (absent) hint. The per-block conditional
// update makes the timeout fire exactly once even when the per-claim timer and
// the watchdog race.
func ExpireHintWindows(now time.Time) error {
	var overdue []models.Block
	if err := database.DB.
		Where("status = ? AND hint_deadline <= ?", models.BlockStatusWaitingHint, now).
		Find(&overdue).Error; err != nil {
		return err
	}

	for _, block := range overdue {
		res := database.DB.Model(&models.Block{}).
			Where("id = ? AND status = ?", block.ID, models.BlockStatusWaitingHint).
			Update("status", models.BlockStatusWaitingPassword)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			metrics.HintWindowExpired.Inc()
			log.Printf("Block %d hint window expired without a hint", block.ID)
			realtime.BroadcastBlock(realtime.BlockEvent{
				BlockID:           block.ID,
				Status:            models.BlockStatusWaitingPassword,
				AccumulatedPoints: block.AccumulatedPoints,
			})
		}
	}
	return nil
}

// StartHintWatchdog sweeps overdue hint windows in the background so a block
// can never sit in WAITING_HINT forever, even across process restarts
func StartHintWatchdog() {
	go func() {
		ticker := time.NewTicker(config.Game.WatchdogInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := ExpireHintWindows(time.Now().UTC()); err != nil {
				log.Printf("hint window watchdog: %v", err)
			}
		}
	}()
}

// CreateNextBlock is invoked by the privileged block-generation collaborator.
// It stamps the finished block SOLVED and opens the next one with a fresh
// secret, inside one transaction so two blocks can never be active at once.
func CreateNextBlock(createdBy *string, seedHint *string, isGenesis bool) (models.Block, error) {
	var created models.Block

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Block{}).Where("status = ?", models.BlockStatusActive).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrWrongPhase
		}

		hint := seedHint
		var seq uint

		if isGenesis {
			var total int64
			if err := tx.Model(&models.Block{}).Count(&total).Error; err != nil {
				return err
			}
			if total > 0 {
				return ErrWrongPhase
			}
		} else {
			var prev models.Block
			if err := tx.Order("id DESC").First(&prev).Error; err != nil {
				return err
			}
			if prev.Status != models.BlockStatusWaitingPassword {
				return ErrWrongPhase
			}
			if hint == nil {
				hint = prev.NextHint
			}
			seq = prev.ID

			res := tx.Model(&models.Block{}).
				Where("id = ? AND status = ?", prev.ID, models.BlockStatusWaitingPassword).
				Update("status", models.BlockStatusSolved)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrWrongPhase
			}
		}

		length, kinds := config.Game.DifficultyFor(seq)
		secret, err := utils.GenerateSecret(length, kinds)
		if err != nil {
			return err
		}

		created = models.Block{
			Status:            models.BlockStatusActive,
			Secret:            secret,
			SeedHint:          hint,
			Length:            length,
			Charsets:          strings.Join(kinds, ","),
			AccumulatedPoints: config.Game.BasePot,
			CreatedBy:         createdBy,
		}
		if err := tx.Create(&created).Error; err != nil {
			// the single-ACTIVE-block index rejects a racing creation
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrWrongPhase
			}
			return err
		}
		return nil
	})
	if err != nil {
		return created, err
	}

	log.Printf("Block #%d opened (length=%d charsets=%s)", created.ID, created.Length, created.Charsets)
	realtime.BroadcastBlock(realtime.BlockEvent{
		BlockID:           created.ID,
		Status:            created.Status,
		AccumulatedPoints: created.AccumulatedPoints,
	})
	return created, nil
}
