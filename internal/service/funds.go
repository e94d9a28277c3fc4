package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

type FundsRequestInput struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// CreateDepositRequest opens a pending deposit. The balance is credited only
// when an operator confirms the request.
func CreateDepositRequest(c *gin.Context) {
	createFundsRequest(c, models.FundsRequestDeposit)
}

// CreateWithdrawRequest opens a pending withdraw. The amount is debited up
// front and returned if the request is rejected.
func CreateWithdrawRequest(c *gin.Context) {
	createFundsRequest(c, models.FundsRequestWithdraw)
}

func createFundsRequest(c *gin.Context, kind string) {
	var input FundsRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	request := models.FundsRequest{
		OrderID: uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Amount:  input.Amount,
		Status:  models.FundsRequestPending,
	}

	errInsufficientBalance := errors.New("insufficient balance")

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if kind == models.FundsRequestWithdraw {
			ok, err := models.DebitUserBalance(tx, userID, input.Amount)
			if err != nil {
				return logger.WrapError(err, "")
			}
			if !ok {
				return errInsufficientBalance
			}
		}

		if err := tx.Create(&request).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errInsufficientBalance) {
			c.JSON(402, gin.H{"error": "Insufficient balance"})
			return
		}
		logger.Error("Failed to create %s request: %v", kind, err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"status": "request created", "order_id": request.OrderID})
}

// GetMyFundsRequests returns the caller's deposit and withdraw requests,
// newest first.
func GetMyFundsRequests(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var requests []models.FundsRequest
	err = db.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, requests)
}
