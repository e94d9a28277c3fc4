package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

// Setting is one cashier configuration entry (bank name, account number,
// deposit QR image). Written by admins, read-only to players.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

var defaultSettings = map[string]string{
	"bank_name":        "Dang cap nhat",
	"account_name":     "Dang cap nhat",
	"account_number":   "Dang cap nhat",
	"deposit_qr_image": "",
}

// GetSettings returns every setting, with defaults filled in for keys that
// were never written.
func GetSettings() (map[string]string, error) {
	var rows []Setting
	if err := db.DB.Find(&rows).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	settings := make(map[string]string, len(defaultSettings))
	for k, v := range defaultSettings {
		settings[k] = v
	}
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	return settings, nil
}

// UpdateSetting writes one setting, creating it if missing.
func UpdateSetting(tx *gorm.DB, key, value string) error {
	if tx == nil {
		tx = db.DB
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Setting{Key: key, Value: value}).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}
