package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/sicbo"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

// OutcomeOverride is the single pending operator-forced outcome. At most one
// row exists; it is consumed by the next round that computes its outcome and
// cleared when that round settles.
type OutcomeOverride struct {
	ID        int64 `gorm:"primaryKey"`
	D1        int
	D2        int
	D3        int
	CreatedAt time.Time
}

const outcomeOverrideRowID = 1

// SetOutcomeOverride stores the pending forced outcome, replacing any
// previous one. Faces outside 1-6 are rejected and the stored override is
// left unchanged.
func SetOutcomeOverride(o sicbo.Outcome) error {
	if !o.Valid() {
		return sicbo.ErrInvalidOverride
	}

	override := OutcomeOverride{
		ID: outcomeOverrideRowID,
		D1: o.D1, D2: o.D2, D3: o.D3,
		CreatedAt: time.Now(),
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"d1", "d2", "d3", "created_at"}),
	}).Create(&override).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}

// GetPendingOverride returns the pending forced outcome, or nil if none.
func GetPendingOverride() (*sicbo.Outcome, error) {
	var override OutcomeOverride
	err := db.DB.First(&override, outcomeOverrideRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, logger.WrapError(err, "")
	}

	return &sicbo.Outcome{D1: override.D1, D2: override.D2, D3: override.D3}, nil
}

// ClearOutcomeOverride removes the pending override.
func ClearOutcomeOverride(tx *gorm.DB) error {
	if tx == nil {
		tx = db.DB
	}

	if err := tx.Delete(&OutcomeOverride{}, outcomeOverrideRowID).Error; err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}
