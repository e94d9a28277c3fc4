package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/pkg/logger"
	"github.com/trungtung03/sicbo-test/pkg/redis"
)

const commentaryFallback = "The dice have spoken. Place your bets for the next round!"

type commentaryRequest struct {
	Result     int   `json:"result"`
	DidWin     bool  `json:"didWin"`
	NewBalance int64 `json:"newBalance"`
}

type commentaryResponse struct {
	Text string `json:"text"`
}

// CommentaryClient fetches a one-line round commentary from an external
// collaborator service. Any failure degrades to a fixed line; nothing in the
// round lifecycle ever waits on it.
type CommentaryClient struct {
	endpoint string
	client   *http.Client
}

// NewCommentaryClient reads the endpoint from COMMENTARY_URL. An empty value
// disables the remote call and every request gets the fallback line.
func NewCommentaryClient() *CommentaryClient {
	return &CommentaryClient{
		endpoint: os.Getenv("COMMENTARY_URL"),
		client:   &http.Client{Timeout: 3 * time.Second},
	}
}

// Fetch asks the collaborator for a line about a settled round.
func (cc *CommentaryClient) Fetch(result int, didWin bool, newBalance int64) string {
	if cc.endpoint == "" {
		return commentaryFallback
	}

	payload, err := json.Marshal(commentaryRequest{
		Result:     result,
		DidWin:     didWin,
		NewBalance: newBalance,
	})
	if err != nil {
		logger.Error("Unable to marshal commentary request: %v", err)
		return commentaryFallback
	}

	resp, err := cc.client.Post(cc.endpoint, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		logger.Error("Commentary request failed: %v", err)
		return commentaryFallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Commentary server returned status %d", resp.StatusCode)
		return commentaryFallback
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return commentaryFallback
	}

	var parsed commentaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Text == "" {
		return commentaryFallback
	}

	return parsed.Text
}

// GetRoundCommentary returns a commentary line for the caller's most recent
// settled round.
func GetRoundCommentary(c *gin.Context, cc *CommentaryClient, redisService *redis.RedisService) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	history, err := models.GetRoundHistory(1)
	if err != nil || len(history) == 0 {
		c.JSON(200, gin.H{"text": commentaryFallback})
		return
	}
	latest := history[0]

	didWin := false
	winKey := fmt.Sprintf("sicbo:win:%d:%d", latest.RoundID, userID)
	if raw, err := redisService.GetKey(context.Background(), winKey); err == nil {
		if amount, err := strconv.ParseInt(raw, 10, 64); err == nil && amount > 0 {
			didWin = true
		}
	}

	balance := int64(0)
	if user, err := models.GetUserByID(userID); err == nil {
		balance = user.Balance
	}

	c.JSON(200, gin.H{"text": cc.Fetch(latest.Result, didWin, balance)})
}
