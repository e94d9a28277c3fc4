package sicbo

import (
	"errors"
	"testing"
	"time"
)

func TestStateAtPhaseBoundaries(t *testing.T) {
	cycle := DefaultCycle()
	total := int64(cycle.Total() / time.Second)
	base := int64(1700000040) // divisible by 60, start of a round

	tcs := []struct {
		name        string
		offset      int64
		phase       Phase
		secondsLeft int64
	}{
		{"betting opens", 0, PhaseBetting, 45},
		{"mid betting", 20, PhaseBetting, 25},
		{"last betting second", 44, PhaseBetting, 1},
		{"reveal starts", 45, PhaseRevealing, 0},
		{"reveal ends", 47, PhaseRevealing, 0},
		{"showing starts", 48, PhaseShowing, 0},
		{"last showing second", 59, PhaseShowing, 0},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			state := cycle.StateAt(time.Unix(base+tc.offset, 0))
			if state.RoundID != base/total {
				t.Fatalf("round id = %d, want %d", state.RoundID, base/total)
			}
			if state.Phase != tc.phase {
				t.Fatalf("phase = %s, want %s", state.Phase, tc.phase)
			}
			if state.SecondsLeft != tc.secondsLeft {
				t.Fatalf("seconds left = %d, want %d", state.SecondsLeft, tc.secondsLeft)
			}
		})
	}
}

func TestStateAtNextRound(t *testing.T) {
	cycle := DefaultCycle()
	base := int64(1700000040)

	before := cycle.StateAt(time.Unix(base+59, 0))
	after := cycle.StateAt(time.Unix(base+60, 0))
	if after.RoundID != before.RoundID+1 {
		t.Fatalf("round id after cycle = %d, want %d", after.RoundID, before.RoundID+1)
	}
	if after.Phase != PhaseBetting {
		t.Fatalf("new round phase = %s, want %s", after.Phase, PhaseBetting)
	}
}

func TestStateAtAgreesAcrossCallers(t *testing.T) {
	// The driver is pure: independent callers computing the state for the
	// same instant must agree.
	cycle := DefaultCycle()
	at := time.Unix(1712345678, 0)
	first := cycle.StateAt(at)
	for i := 0; i < 10; i++ {
		if got := cycle.StateAt(at); got != first {
			t.Fatalf("StateAt not stable: %+v vs %+v", got, first)
		}
	}
}

func TestCanAcceptBetRejectsStaleRound(t *testing.T) {
	// A bet carrying round 2000 while round 2001 is open is rejected even
	// though the phase reads BETTING.
	state := RoundState{RoundID: 2001, Phase: PhaseBetting, SecondsLeft: 30}
	if err := CanAcceptBet(state, 2000, 1000); !errors.Is(err, ErrPhaseClosed) {
		t.Fatalf("CanAcceptBet error = %v, want %v", err, ErrPhaseClosed)
	}
}

func TestCanAcceptBetRejectsClosedPhases(t *testing.T) {
	for _, phase := range []Phase{PhaseRevealing, PhaseShowing} {
		state := RoundState{RoundID: 2001, Phase: phase}
		if err := CanAcceptBet(state, 2001, 1000); !errors.Is(err, ErrPhaseClosed) {
			t.Fatalf("phase %s: error = %v, want %v", phase, err, ErrPhaseClosed)
		}
	}
}

func TestCanAcceptBetRejectsNonPositiveAmount(t *testing.T) {
	state := RoundState{RoundID: 2001, Phase: PhaseBetting, SecondsLeft: 10}
	for _, amount := range []int64{0, -500} {
		if err := CanAcceptBet(state, 2001, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: error = %v, want %v", amount, err, ErrInvalidAmount)
		}
	}
}

func TestCanAcceptBetAllowsOpenRound(t *testing.T) {
	state := RoundState{RoundID: 2001, Phase: PhaseBetting, SecondsLeft: 10}
	if err := CanAcceptBet(state, 2001, 50000); err != nil {
		t.Fatalf("CanAcceptBet returned error: %v", err)
	}
}
