package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

// RoundHistoryLimit caps the history at the most recent settled rounds.
const RoundHistoryLimit = 50

// RoundHistoryEntry records a settled round. The primary key on round id
// makes the append idempotent, which is also what guards settlement against
// running twice for the same round.
type RoundHistoryEntry struct {
	RoundID   int64 `gorm:"primaryKey" json:"round_id"`
	D1        int   `json:"d1"`
	D2        int   `json:"d2"`
	D3        int   `json:"d3"`
	Result    int   `json:"result"`
	CreatedAt time.Time
}

// AppendRoundHistory inserts the entry unless the round already has one.
// Returns true only for the caller that actually inserted the row; that
// caller owns the rest of the settlement work for the round.
func AppendRoundHistory(tx *gorm.DB, entry *RoundHistoryEntry) (bool, error) {
	if tx == nil {
		tx = db.DB
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	if res.Error != nil {
		return false, logger.WrapError(res.Error, "")
	}

	return res.RowsAffected > 0, nil
}

// TrimRoundHistory evicts the oldest entries beyond the cap.
func TrimRoundHistory(tx *gorm.DB) error {
	if tx == nil {
		tx = db.DB
	}

	err := tx.Exec(`DELETE FROM round_history_entries WHERE round_id NOT IN
		(SELECT round_id FROM round_history_entries ORDER BY round_id DESC LIMIT ?)`,
		RoundHistoryLimit).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}

// GetRoundHistory returns up to limit most recent settled rounds, newest
// first. Limit is clamped to the history cap.
func GetRoundHistory(limit int) ([]RoundHistoryEntry, error) {
	if limit <= 0 || limit > RoundHistoryLimit {
		limit = RoundHistoryLimit
	}

	var entries []RoundHistoryEntry
	err := db.DB.Order("round_id desc").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return entries, nil
}

// RoundIsSettled reports whether a history entry exists for the round.
func RoundIsSettled(roundID int64) (bool, error) {
	var exists bool
	err := db.DB.Model(&RoundHistoryEntry{}).
		Select("count(*) > 0").
		Where("round_id = ?", roundID).
		Scan(&exists).Error
	if err != nil {
		return false, logger.WrapError(err, "")
	}

	return exists, nil
}
