package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

type User struct {
	ID        int64  `gorm:"primaryKey,autoIncrement" json:"id"`
	Username  string `gorm:"unique" json:"username"`
	Password  string `json:"-"`
	Balance   int64  `json:"balance"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt time.Time
}

func CheckIfUserExistsByID(userID int64) (bool, error) {
	var exists bool
	err := db.DB.Model(&User{}).
		Select("count(*) > 0").
		Where("id = ?", userID).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

func CheckIfUserExistsByUsername(username string) (bool, error) {
	var exists bool

	err := db.DB.Model(&User{}).
		Select("count(*) > 0").
		Where("username = ?", username).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

func GetUserByID(userID int64) (*User, error) {
	var user User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &user, nil
}

func GetUserWithPassword(username string) (*User, error) {
	var user User

	err := db.DB.
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &user, nil
}

// DebitUserBalance subtracts amount from the user's balance in a single
// conditional update. The balance check and the debit are one statement, so
// two concurrent debits cannot both pass the check and overdraw the account.
// Returns false when the balance did not cover the amount.
func DebitUserBalance(tx *gorm.DB, userID, amount int64) (bool, error) {
	if tx == nil {
		tx = db.DB
	}

	res := tx.Model(&User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return false, logger.WrapError(res.Error, "")
	}

	return res.RowsAffected > 0, nil
}

// CreditUserBalance adds amount to the user's balance inside tx. Used by the
// settlement engine (one credit per user per round) and by confirmed deposit
// requests. A negative amount debits.
func CreditUserBalance(tx *gorm.DB, userID, amount int64) error {
	if tx == nil {
		tx = db.DB
	}

	if err := tx.Model(&User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}
