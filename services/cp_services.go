package services

import (
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/models"

	"gorm.io/gorm"
)

// The CP ledger never holds a row lock across a wait: the refill is a
// compare-and-set on (current, last_refill_at) and the debit is a single
// conditional decrement, so two concurrent debits for the same user can never
// both spend the last unit.

const casRetries = 4

// refillDelta computes how many units to credit for the whole intervals that
// elapsed since the last refill, and the advanced refill timestamp. The
// timestamp always moves by whole intervals so fractional progress is kept,
// and it advances even when the balance is capped so a full balance banks
// nothing.
func refillDelta(current int, last, now time.Time, max int, interval time.Duration) (int, time.Time) {
	if interval <= 0 || !now.After(last) {
		return 0, last
	}
	intervals := int(now.Sub(last) / interval)
	if intervals <= 0 {
		return 0, last
	}

	newLast := last.Add(time.Duration(intervals) * interval)
	add := max - current
	if add < 0 {
		add = 0
	}
	if add > intervals {
		add = intervals
	}
	return add, newLast
}

func getOrCreateBalance(userID string) (models.CPBalance, error) {
	var bal models.CPBalance
	err := database.DB.Where(models.CPBalance{UserID: userID}).
		Attrs(models.CPBalance{
			Current:      config.Game.CPMax,
			LastRefillAt: time.Now().UTC().Truncate(time.Second),
		}).
		FirstOrCreate(&bal).Error
	return bal, err
}

// RefillBalance lazily applies the regeneration a user accrued since the last
// refill and returns the up-to-date balance. Side-effect-free when no whole
// interval has elapsed.
func RefillBalance(userID string) (models.CPBalance, error) {
	for i := 0; i < casRetries; i++ {
		bal, err := getOrCreateBalance(userID)
		if err != nil {
			return models.CPBalance{}, err
		}

		add, newLast := refillDelta(bal.Current, bal.LastRefillAt, time.Now().UTC(),
			config.Game.CPMax, config.Game.CPRefillInterval)
		if add == 0 && newLast.Equal(bal.LastRefillAt) {
			return bal, nil
		}

		res := database.DB.Model(&models.CPBalance{}).
			Where("user_id = ? AND current = ? AND last_refill_at = ?", userID, bal.Current, bal.LastRefillAt).
			Updates(map[string]interface{}{
				"current":        bal.Current + add,
				"last_refill_at": newLast,
			})
		if res.Error != nil {
			return models.CPBalance{}, res.Error
		}
		if res.RowsAffected == 1 {
			bal.Current += add
			bal.LastRefillAt = newLast
			return bal, nil
		}
		// another request moved the balance first; re-read and retry
	}
	return getOrCreateBalance(userID)
}

// TryDebit atomically spends the attempt cost: refill, then a conditional
// decrement that only succeeds while the balance covers the cost. Returns
// ErrInsufficientCP (with the refreshed balance) when it does not.
func TryDebit(userID string) (models.CPBalance, error) {
	cost := config.Game.CPCost
	var bal models.CPBalance
	var err error

	for i := 0; i < casRetries; i++ {
		bal, err = RefillBalance(userID)
		if err != nil {
			return models.CPBalance{}, err
		}
		if bal.Current < cost {
			return bal, ErrInsufficientCP
		}

		res := database.DB.Model(&models.CPBalance{}).
			Where("user_id = ? AND current >= ?", userID, cost).
			UpdateColumn("current", gorm.Expr("current - ?", cost))
		if res.Error != nil {
			return models.CPBalance{}, res.Error
		}
		if res.RowsAffected == 1 {
			// snapshot for display; the store value is authoritative
			bal.Current -= cost
			return bal, nil
		}
		// lost the race to a concurrent debit; re-read and retry
	}
	return bal, ErrInsufficientCP
}
