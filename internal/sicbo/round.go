package sicbo

import (
	"errors"
	"time"
)

// Phase of the round cycle.
type Phase string

const (
	PhaseBetting   Phase = "BETTING"
	PhaseRevealing Phase = "REVEALING"
	PhaseShowing   Phase = "SHOWING"
)

var (
	ErrPhaseClosed   = errors.New("betting is closed for this round")
	ErrInvalidAmount = errors.New("bet amount must be positive")
)

// Cycle holds the three phase durations of one round.
type Cycle struct {
	Betting   time.Duration
	Revealing time.Duration
	Showing   time.Duration
}

// DefaultCycle is the 60 second production cycle: 45s betting, 3s reveal,
// 12s showing.
func DefaultCycle() Cycle {
	return Cycle{
		Betting:   45 * time.Second,
		Revealing: 3 * time.Second,
		Showing:   12 * time.Second,
	}
}

// Total is the full cycle length.
func (c Cycle) Total() time.Duration {
	return c.Betting + c.Revealing + c.Showing
}

// RoundState is the position of the cycle at a given instant.
type RoundState struct {
	RoundID     int64 `json:"round_id"`
	Phase       Phase `json:"phase"`
	SecondsLeft int64 `json:"seconds_left"`
}

// StateAt derives the round id and phase from wall-clock time alone. Every
// caller computing it for the same timestamp agrees, so no shared mutable
// "current round" state is needed.
func (c Cycle) StateAt(t time.Time) RoundState {
	total := int64(c.Total() / time.Second)
	betting := int64(c.Betting / time.Second)
	revealing := int64(c.Revealing / time.Second)

	epoch := t.Unix()
	state := RoundState{RoundID: epoch / total}

	offset := epoch % total
	switch {
	case offset < betting:
		state.Phase = PhaseBetting
		state.SecondsLeft = betting - offset
	case offset < betting+revealing:
		state.Phase = PhaseRevealing
	default:
		state.Phase = PhaseShowing
	}

	return state
}

// CanAcceptBet reports whether a bet for roundID with the given amount may be
// accepted while the cycle is in state. A bet is rejected outside the betting
// phase and for any round other than the currently open one, so stale bets
// cannot leak into a round that is already rolling.
func CanAcceptBet(state RoundState, roundID, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if state.Phase != PhaseBetting || roundID != state.RoundID {
		return ErrPhaseClosed
	}
	return nil
}
