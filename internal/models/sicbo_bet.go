package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

// SicboBet is one user's aggregated stake on one option in one round.
// Repeated bets on the same option accumulate into a single row.
type SicboBet struct {
	ID        int64  `gorm:"primaryKey,autoIncrement" json:"-"`
	RoundID   int64  `gorm:"index;uniqueIndex:idx_sicbo_bet_round_user_option" json:"round_id"`
	UserID    int64  `gorm:"uniqueIndex:idx_sicbo_bet_round_user_option;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user_id"`
	OptionID  string `gorm:"uniqueIndex:idx_sicbo_bet_round_user_option" json:"option_id"`
	Amount    int64  `json:"amount"`
	CreatedAt time.Time
}

// UpsertSicboBet creates the bet row or, if the user already has a bet on
// that option this round, accumulates the amount onto it.
func UpsertSicboBet(tx *gorm.DB, bet *SicboBet) error {
	if tx == nil {
		tx = db.DB
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "round_id"}, {Name: "user_id"}, {Name: "option_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount": gorm.Expr("sicbo_bets.amount + EXCLUDED.amount"),
		}),
	}).Create(bet).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}

// GetRoundBets returns the full bet snapshot of a round for settlement.
func GetRoundBets(tx *gorm.DB, roundID int64) ([]SicboBet, error) {
	if tx == nil {
		tx = db.DB
	}

	var bets []SicboBet
	if err := tx.Where("round_id = ?", roundID).Find(&bets).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	return bets, nil
}

// GetUserRoundBets returns one user's bets for a round.
func GetUserRoundBets(roundID, userID int64) ([]SicboBet, error) {
	var bets []SicboBet
	err := db.DB.Where("round_id = ? AND user_id = ?", roundID, userID).
		Find(&bets).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return bets, nil
}

// UnsettledRoundsBefore lists rounds older than currentRoundID that still
// hold bets but have no history entry, oldest first. These are rounds whose
// settlement window was missed entirely, however long ago.
func UnsettledRoundsBefore(tx *gorm.DB, currentRoundID int64) ([]int64, error) {
	if tx == nil {
		tx = db.DB
	}

	var roundIDs []int64
	err := tx.Raw(`SELECT DISTINCT round_id FROM sicbo_bets WHERE round_id < ?
		AND round_id NOT IN (SELECT round_id FROM round_history_entries)
		ORDER BY round_id`, currentRoundID).
		Scan(&roundIDs).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return roundIDs, nil
}

// ClearSettledBetsBefore drops bet rows of rounds older than currentRoundID
// that already have a history entry. Bets of an unsettled round are kept so
// settlement can still be retried for it.
func ClearSettledBetsBefore(currentRoundID int64) error {
	err := db.DB.
		Where("round_id < ? AND round_id IN (?)", currentRoundID,
			db.DB.Model(&RoundHistoryEntry{}).Select("round_id")).
		Delete(&SicboBet{}).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}
