package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/pkg/logger"
	"github.com/trungtung03/sicbo-test/pkg/redis"
)

// StartJanitor schedules the periodic housekeeping that the per-round reset
// does not cover: trimming history beyond the cap, clearing bet rows of long
// settled rounds, and dropping expired redis markers. Returns the scheduler
// so the caller can shut it down.
func StartJanitor(redisService *redis.RedisService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	// Every 10 minutes: enforce the history cap and drop settled bet rows.
	_, err = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if err := models.TrimRoundHistory(nil); err != nil {
				logger.Error("Janitor failed to trim round history: %v", err)
			}

			currentRoundID := SicboRound.StateNow().RoundID
			if err := models.ClearSettledBetsBefore(currentRoundID); err != nil {
				logger.Error("Janitor failed to clear settled bets: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	// Every hour: sweep stale round markers left by aborted resets.
	_, err = sched.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			if err := redisService.DeleteKeysByPattern(context.Background(), "sicbo:reset:*"); err != nil {
				logger.Error("Janitor failed to sweep reset markers: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	sched.Start()
	logger.Info("Janitor scheduler started")

	return sched, nil
}
