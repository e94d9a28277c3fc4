package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/internal/sicbo"
	"github.com/trungtung03/sicbo-test/pkg/config"
	"github.com/trungtung03/sicbo-test/pkg/logger"
	"github.com/trungtung03/sicbo-test/pkg/redis"
)

// Exported global instance of the round driver, set at startup.
var SicboRound *SicboRoundService

const (
	sicboResetKeyTTL = 10 * time.Minute
	sicboWinKeyTTL   = 10 * time.Minute
)

// SicboRoundService drives the round cycle. Round ids and phases are derived
// from the clock, so the driver holds no authoritative round state; its job is
// the side effects of phase transitions: clearing the table when betting
// opens and settling exactly once when the dice are shown.
type SicboRoundService struct {
	cycle        sicbo.Cycle
	redisService *redis.RedisService
	ws           *SicboWebsocketService

	mu             sync.Mutex
	memoRoundID    int64
	memoOutcome    sicbo.Outcome
	memoOverridden bool
	resetRoundID   int64
	settledRoundID int64
}

// NewSicboRoundService creates the driver with the production cycle, which
// can be shortened through SICBO_*_SECONDS for staging.
func NewSicboRoundService(redisService *redis.RedisService, ws *SicboWebsocketService) *SicboRoundService {
	return &SicboRoundService{
		cycle:        cycleFromEnv(),
		redisService: redisService,
		ws:           ws,
	}
}

func cycleFromEnv() sicbo.Cycle {
	cycle := sicbo.DefaultCycle()
	cycle.Betting = envSeconds("SICBO_BETTING_SECONDS", cycle.Betting)
	cycle.Revealing = envSeconds("SICBO_REVEALING_SECONDS", cycle.Revealing)
	cycle.Showing = envSeconds("SICBO_SHOWING_SECONDS", cycle.Showing)
	return cycle
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	raw := config.Getenv(key, "")
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		logger.Warn("Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// StateNow returns the current round id, phase and countdown.
func (s *SicboRoundService) StateNow() sicbo.RoundState {
	return s.cycle.StateAt(time.Now())
}

// RevealedOutcome returns the round's outcome once betting has closed, nil
// while the round is still open.
func (s *SicboRoundService) RevealedOutcome(state sicbo.RoundState) *sicbo.Outcome {
	if state.Phase == sicbo.PhaseBetting {
		return nil
	}

	outcome, _, err := s.outcomeFor(state.RoundID)
	if err != nil {
		logger.Error("Failed to compute outcome for round %d: %v", state.RoundID, err)
		return nil
	}

	return &outcome
}

// Supervise restarts the driver loop if it ever panics.
func (s *SicboRoundService) Supervise() {
	for {
		logger.Info("Starting sicbo round loop")

		done := make(chan bool)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Sicbo round loop panicked: %v", r)
					done <- true
				}
			}()

			s.run()
		}()

		<-done

		time.Sleep(5 * time.Second)
	}
}

func (s *SicboRoundService) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for now := range ticker.C {
		s.Tick(now)
	}
}

// Tick advances the driver to the state implied by now. Each transition is
// one-shot per round: a tick that arrives late or twice performs the work at
// most once, and a failed settlement is retried on the next tick.
func (s *SicboRoundService) Tick(now time.Time) {
	state := s.cycle.StateAt(now)

	switch state.Phase {
	case sicbo.PhaseBetting:
		if err := s.resetForRound(state.RoundID); err != nil {
			logger.Error("Failed to reset for round %d: %v", state.RoundID, err)
		}
	case sicbo.PhaseRevealing, sicbo.PhaseShowing:
		// The outcome is fixed the moment betting closes. Computing it here
		// also consumes a pending override before settlement reads it.
		if _, _, err := s.outcomeFor(state.RoundID); err != nil {
			logger.Error("Failed to compute outcome for round %d: %v", state.RoundID, err)
		}
	}

	if state.Phase == sicbo.PhaseShowing {
		if err := s.settleRound(state.RoundID); err != nil {
			logger.Error("Failed to settle round %d: %v", state.RoundID, err)
		}
	}

	s.ws.BroadcastRoundState(state)
}

// resetForRound runs the open-of-betting housekeeping once per round: settle
// any older round a crash left hanging, drop bet rows of rounds that are
// already settled, and clear the stale volume counters. The guards (the redis
// marker and the local round id) are recorded only after the work lands, so a
// reset that fails on a storage error is retried on the next tick instead of
// being swallowed by its own guard.
func (s *SicboRoundService) resetForRound(roundID int64) error {
	s.mu.Lock()
	done := s.resetRoundID == roundID
	s.mu.Unlock()
	if done {
		return nil
	}

	ctx := context.Background()
	marker := fmt.Sprintf("sicbo:reset:%d", roundID)

	// Another process may have finished the reset already. If redis cannot
	// answer we do the work anyway; every step below is idempotent.
	if _, err := s.redisService.GetKey(ctx, marker); err == nil {
		s.markReset(roundID)
		return nil
	}

	if err := s.recoverUnsettledRounds(roundID); err != nil {
		return logger.WrapError(err, "")
	}

	if err := models.ClearSettledBetsBefore(roundID); err != nil {
		return logger.WrapError(err, "")
	}

	s.clearStaleVolumes(ctx, roundID)

	if _, err := s.redisService.SetKeyNX(ctx, marker, 1, sicboResetKeyTTL); err != nil {
		logger.Error("Reset marker unavailable for round %d: %v", roundID, err)
	}

	s.markReset(roundID)
	logger.Info("Round %d open for betting", roundID)
	return nil
}

func (s *SicboRoundService) markReset(roundID int64) {
	s.mu.Lock()
	s.resetRoundID = roundID
	s.mu.Unlock()
}

// clearStaleVolumes drops volume counters of every round but the current one.
// A reset retried mid-betting must not wipe counters of bets already placed
// this round.
func (s *SicboRoundService) clearStaleVolumes(ctx context.Context, roundID int64) {
	keys, err := s.redisService.KeysByPattern(ctx, "sicbo:volume:*")
	if err != nil {
		logger.Error("Failed to list volume counters: %v", err)
		return
	}

	prefix := fmt.Sprintf("sicbo:volume:%d:", roundID)
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			continue
		}
		if err := s.redisService.DeleteKey(ctx, key); err != nil {
			logger.Error("Failed to clear volume counter %s: %v", key, err)
		}
	}
}

// recoverUnsettledRounds settles every older round whose settlement window
// was missed, usually because the process was down during its showing phase.
// A pending override is left alone here; it belongs to the next round that
// reveals.
func (s *SicboRoundService) recoverUnsettledRounds(currentRoundID int64) error {
	roundIDs, err := models.UnsettledRoundsBefore(nil, currentRoundID)
	if err != nil {
		return logger.WrapError(err, "")
	}

	for _, roundID := range roundIDs {
		logger.Warn("Round %d was left unsettled, settling now", roundID)
		if err := s.settleWithOutcome(roundID, sicbo.Roll(roundID), false); err != nil {
			return logger.WrapError(err, "")
		}
	}

	return nil
}

// outcomeFor returns the fixed outcome of a round, computing and memoizing it
// on first use. A pending operator override wins over the derived roll and is
// marked consumed so settlement clears it.
func (s *SicboRoundService) outcomeFor(roundID int64) (sicbo.Outcome, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memoRoundID == roundID {
		return s.memoOutcome, s.memoOverridden, nil
	}

	outcome := sicbo.Roll(roundID)
	overridden := false

	override, err := models.GetPendingOverride()
	if err != nil {
		return sicbo.Outcome{}, false, logger.WrapError(err, "")
	}
	if override != nil {
		outcome = *override
		overridden = true
		logger.Info("Round %d outcome overridden to %d-%d-%d",
			roundID, outcome.D1, outcome.D2, outcome.D3)
	}

	s.memoRoundID = roundID
	s.memoOutcome = outcome
	s.memoOverridden = overridden

	return outcome, overridden, nil
}

func (s *SicboRoundService) settleRound(roundID int64) error {
	s.mu.Lock()
	alreadySettled := s.settledRoundID == roundID
	s.mu.Unlock()
	if alreadySettled {
		return nil
	}

	outcome, overridden, err := s.outcomeFor(roundID)
	if err != nil {
		return logger.WrapError(err, "")
	}

	if err := s.settleWithOutcome(roundID, outcome, overridden); err != nil {
		return logger.WrapError(err, "")
	}

	s.mu.Lock()
	s.settledRoundID = roundID
	s.mu.Unlock()

	return nil
}

// settleWithOutcome pays out a round inside one transaction. The history
// append is the ownership marker: whichever caller inserts the row does the
// credits, everyone else sees a no-op. A transaction that fails leaves no
// history row, so the next tick retries the whole settlement.
func (s *SicboRoundService) settleWithOutcome(roundID int64, outcome sicbo.Outcome, overridden bool) error {
	entry := models.RoundHistoryEntry{
		RoundID: roundID,
		D1:      outcome.D1,
		D2:      outcome.D2,
		D3:      outcome.D3,
		Result:  outcome.Sum(),
	}

	var credits map[int64]int64

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		inserted, err := models.AppendRoundHistory(tx, &entry)
		if err != nil {
			return logger.WrapError(err, "")
		}
		if !inserted {
			return nil
		}

		bets, err := models.GetRoundBets(tx, roundID)
		if err != nil {
			return logger.WrapError(err, "")
		}

		ledger := make([]sicbo.LedgerEntry, 0, len(bets))
		for _, bet := range bets {
			ledger = append(ledger, sicbo.LedgerEntry{
				UserID:   bet.UserID,
				OptionID: bet.OptionID,
				Amount:   bet.Amount,
			})
		}

		credits, err = sicbo.SettleRound(ledger, outcome)
		if err != nil {
			return logger.WrapError(err, "")
		}

		for userID, winAmount := range credits {
			if err := models.CreditUserBalance(tx, userID, winAmount); err != nil {
				return logger.WrapError(err, "")
			}
		}

		if overridden {
			if err := models.ClearOutcomeOverride(tx); err != nil {
				return logger.WrapError(err, "")
			}
		}

		if err := models.TrimRoundHistory(tx); err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil {
		return logger.WrapError(err, "")
	}

	if credits == nil {
		// Another caller owned the settlement.
		return nil
	}

	logger.Info("Round %d settled: dice %d-%d-%d, %d winners",
		roundID, outcome.D1, outcome.D2, outcome.D3, len(credits))

	s.ws.BroadcastRoundResult(entry)

	ctx := context.Background()
	for userID, winAmount := range credits {
		s.ws.SendWinToUser(userID, roundID, winAmount)

		err := s.redisService.SetKey(ctx,
			fmt.Sprintf("sicbo:win:%d:%d", roundID, userID), winAmount, sicboWinKeyTTL)
		if err != nil {
			logger.Error("Failed to record win of user %d for round %d: %v", userID, roundID, err)
		}
	}

	return nil
}
