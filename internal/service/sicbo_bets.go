package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/internal/sicbo"
	"github.com/trungtung03/sicbo-test/pkg/logger"
	"github.com/trungtung03/sicbo-test/pkg/redis"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

type SicboBetInput struct {
	RoundID  int64  `json:"round_id" validate:"required,min=1"`
	OptionID string `json:"option_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,min=1"`
}

// PlaceSicboBet accepts a wager for the currently open round. Bets land only
// while that round is in its betting phase; a stale round id or a closed
// phase is rejected outright.
func PlaceSicboBet(c *gin.Context, redisService *redis.RedisService) {
	var input SicboBetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Invalid input"})
		return
	}

	if err := validate.Struct(input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	state := SicboRound.StateNow()
	if err := sicbo.CanAcceptBet(state, input.RoundID, input.Amount); err != nil {
		switch {
		case errors.Is(err, sicbo.ErrInvalidAmount):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(403, gin.H{"error": "betting is closed for this round"})
		}
		return
	}

	option, ok := sicbo.OptionByID(input.OptionID)
	if !ok {
		c.JSON(400, gin.H{"error": "unknown bet option"})
		return
	}

	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	errInsufficientBalance := errors.New("insufficient balance")

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := models.DebitUserBalance(tx, userID, input.Amount)
		if err != nil {
			return logger.WrapError(err, "")
		}
		if !ok {
			return errInsufficientBalance
		}

		bet := models.SicboBet{
			RoundID:  input.RoundID,
			UserID:   userID,
			OptionID: option.ID,
			Amount:   input.Amount,
		}
		if err := models.UpsertSicboBet(tx, &bet); err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errInsufficientBalance) {
			c.JSON(402, gin.H{"error": "Insufficient balance"})
			return
		}
		logger.Error("Failed to place bet: %v", err)
		c.Status(500)
		return
	}

	volumeKey := fmt.Sprintf("sicbo:volume:%d:%s", input.RoundID, option.ID)
	if _, err := redisService.IncrKeyBy(context.Background(), volumeKey, input.Amount); err != nil {
		logger.Error("Failed to bump volume counter %s: %v", volumeKey, err)
	}

	c.JSON(200, gin.H{"status": "bet placed successfully", "round": state})
}

// GetSicboRoundState returns the current round id, phase and countdown, plus
// the dice once the round has left its betting phase.
func GetSicboRoundState(c *gin.Context) {
	state := SicboRound.StateNow()

	resp := gin.H{
		"round_id":     state.RoundID,
		"phase":        state.Phase,
		"seconds_left": state.SecondsLeft,
	}
	if outcome := SicboRound.RevealedOutcome(state); outcome != nil {
		resp["outcome"] = outcome
	}

	c.JSON(200, resp)
}

// GetSicboBetOptions returns the static bet option catalog.
func GetSicboBetOptions(c *gin.Context) {
	c.JSON(200, sicbo.Options)
}

// GetMySicboBets returns the caller's bets for a round, defaulting to the
// current one.
func GetMySicboBets(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	roundID := SicboRound.StateNow().RoundID
	if raw := c.Query("round_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(400, gin.H{"error": "invalid round_id"})
			return
		}
		roundID = parsed
	}

	bets, err := models.GetUserRoundBets(roundID, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"round_id": roundID, "bets": bets})
}

// GetSicboRoundVolumes returns the live per-option stake totals for the
// current round, read from the redis counters bumped on each bet.
func GetSicboRoundVolumes(c *gin.Context, redisService *redis.RedisService) {
	ctx := context.Background()
	roundID := SicboRound.StateNow().RoundID
	prefix := fmt.Sprintf("sicbo:volume:%d:", roundID)

	keys, err := redisService.KeysByPattern(ctx, prefix+"*")
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	volumes := make(map[string]int64, len(keys))
	for _, key := range keys {
		raw, err := redisService.GetKey(ctx, key)
		if err != nil {
			continue
		}
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		volumes[strings.TrimPrefix(key, prefix)] = amount
	}

	c.JSON(200, gin.H{"round_id": roundID, "volumes": volumes})
}

// GetSicboHistory returns the most recent settled rounds, newest first.
func GetSicboHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	history, err := models.GetRoundHistory(limit)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, history)
}
