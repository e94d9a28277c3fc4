package service

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/internal/sicbo"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

type OverrideInput struct {
	D1 int `json:"d1" validate:"required,min=1,max=6"`
	D2 int `json:"d2" validate:"required,min=1,max=6"`
	D3 int `json:"d3" validate:"required,min=1,max=6"`
}

// SetSicboOverride stores a forced outcome for the next round to reveal,
// replacing any previous pending one.
func SetSicboOverride(c *gin.Context) {
	var input OverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	err := models.SetOutcomeOverride(sicbo.Outcome{D1: input.D1, D2: input.D2, D3: input.D3})
	if err != nil {
		if errors.Is(err, sicbo.ErrInvalidOverride) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"status": "override set"})
}

// GetSicboOverride returns the pending forced outcome, or null if none.
func GetSicboOverride(c *gin.Context) {
	override, err := models.GetPendingOverride()
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"override": override})
}

// ClearSicboOverride drops the pending forced outcome without consuming it.
func ClearSicboOverride(c *gin.Context) {
	if err := models.ClearOutcomeOverride(nil); err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"status": "override cleared"})
}

// ListUsers returns every registered user for the admin panel.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := db.DB.Order("id").Find(&users).Error; err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, users)
}

type AdjustBalanceInput struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
	Amount int64 `json:"amount" validate:"required"`
}

// AdjustUserBalance applies a manual credit or debit to a user's balance.
func AdjustUserBalance(c *gin.Context) {
	var input AdjustBalanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	exists, err := models.CheckIfUserExistsByID(input.UserID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if !exists {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	if err := models.CreditUserBalance(nil, input.UserID, input.Amount); err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"status": "balance adjusted"})
}

// GetSettings returns the public payment settings merged with defaults.
func GetSettings(c *gin.Context) {
	settings, err := models.GetSettings()
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, settings)
}

type UpdateSettingInput struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// UpdateSettings upserts one payment setting key.
func UpdateSettings(c *gin.Context) {
	var input UpdateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if err := models.UpdateSetting(nil, input.Key, input.Value); err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"status": "setting updated"})
}

// ListFundsRequests returns funds requests for the admin panel, pending
// first, newest first within a status.
func ListFundsRequests(c *gin.Context) {
	var requests []models.FundsRequest
	err := db.DB.
		Order("CASE WHEN status = 'pending' THEN 0 ELSE 1 END").
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, requests)
}

type ResolveFundsInput struct {
	OrderID string `json:"order_id" validate:"required"`
	Confirm *bool  `json:"confirm" validate:"required"`
}

// ResolveFundsRequest confirms or rejects a pending deposit or withdraw
// request.
func ResolveFundsRequest(c *gin.Context) {
	var input ResolveFundsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	resolved, err := models.ResolveFundsRequest(input.OrderID, *input.Confirm)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if !resolved {
		c.JSON(404, gin.H{"error": "no pending request with that order id"})
		return
	}

	c.JSON(200, gin.H{"status": "request resolved"})
}
