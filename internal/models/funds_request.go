package models

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

const (
	FundsRequestDeposit  = "deposit"
	FundsRequestWithdraw = "withdraw"

	FundsRequestPending   = "pending"
	FundsRequestConfirmed = "confirmed"
	FundsRequestRejected  = "rejected"
)

// FundsRequest is a deposit or withdraw request awaiting operator
// confirmation. Withdraw requests debit the balance up front and roll it
// back on rejection; deposit requests credit only on confirmation.
type FundsRequest struct {
	ID        int64  `gorm:"primaryKey,autoIncrement" json:"id"`
	OrderID   string `gorm:"uniqueIndex" json:"order_id"`
	UserID    int64  `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user_id"`
	Kind      string `json:"kind"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt time.Time
}

// Rollback returns a rejected withdraw's amount to the user.
func (fr *FundsRequest) Rollback(tx *gorm.DB) error {
	if fr.Kind != FundsRequestWithdraw || fr.Amount == 0 {
		return nil
	}
	if tx == nil {
		tx = db.DB
	}

	if err := CreditUserBalance(tx, fr.UserID, fr.Amount); err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}

// ResolveFundsRequest confirms or rejects a pending request by order id and
// applies the balance effect. Returns false if no pending request matches.
func ResolveFundsRequest(orderID string, confirm bool) (bool, error) {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var request FundsRequest
		if err := tx.First(&request, "order_id = ? AND status = ?",
			orderID, FundsRequestPending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return logger.WrapError(err, "")
		}

		if confirm {
			request.Status = FundsRequestConfirmed
			if request.Kind == FundsRequestDeposit {
				if err := CreditUserBalance(tx, request.UserID, request.Amount); err != nil {
					return logger.WrapError(err, "")
				}
			}
		} else {
			request.Status = FundsRequestRejected
			if err := request.Rollback(tx); err != nil {
				return logger.WrapError(err, "")
			}
		}

		if err := tx.Save(&request).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	} else if err != nil {
		return false, logger.WrapError(err, "")
	}

	return true, nil
}
