package models

import (
	"testing"
	"time"

	"github.com/trungtung03/sicbo-test/cmd/db"
)

func containsRound(roundIDs []int64, roundID int64) bool {
	for _, id := range roundIDs {
		if id == roundID {
			return true
		}
	}
	return false
}

func TestUnsettledRoundsBefore(t *testing.T) {
	requireDB(t)
	if err := db.DB.AutoMigrate(&User{}, &SicboBet{}, &RoundHistoryEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := createTestUser(t, 0)

	// Two old rounds with bets, several minutes apart. Only the second one
	// gets settled; the first must keep showing up until it has a history
	// entry, no matter how many rounds have passed since.
	base := time.Now().UnixNano()
	roundA := base
	roundB := base + 100
	current := base + 200

	for _, roundID := range []int64{roundA, roundB} {
		bet := SicboBet{RoundID: roundID, UserID: user.ID, OptionID: "tai", Amount: 1000}
		if err := UpsertSicboBet(nil, &bet); err != nil {
			t.Fatalf("UpsertSicboBet: %v", err)
		}
	}
	t.Cleanup(func() {
		db.DB.Where("round_id IN ?", []int64{roundA, roundB}).Delete(&SicboBet{})
		db.DB.Where("round_id IN ?", []int64{roundA, roundB}).Delete(&RoundHistoryEntry{})
	})

	if _, err := AppendRoundHistory(nil, &RoundHistoryEntry{RoundID: roundB, D1: 2, D2: 2, D3: 2, Result: 6}); err != nil {
		t.Fatalf("AppendRoundHistory: %v", err)
	}

	roundIDs, err := UnsettledRoundsBefore(nil, current)
	if err != nil {
		t.Fatalf("UnsettledRoundsBefore: %v", err)
	}
	if !containsRound(roundIDs, roundA) {
		t.Fatalf("round %d has bets and no history entry, expected it in %v", roundA, roundIDs)
	}
	if containsRound(roundIDs, roundB) {
		t.Fatalf("round %d is already settled, did not expect it in %v", roundB, roundIDs)
	}

	// Settling the stranded round removes it from the backlog.
	if _, err := AppendRoundHistory(nil, &RoundHistoryEntry{RoundID: roundA, D1: 3, D2: 3, D3: 3, Result: 9}); err != nil {
		t.Fatalf("AppendRoundHistory: %v", err)
	}
	roundIDs, err = UnsettledRoundsBefore(nil, current)
	if err != nil {
		t.Fatalf("UnsettledRoundsBefore: %v", err)
	}
	if containsRound(roundIDs, roundA) {
		t.Fatalf("round %d was settled, did not expect it in %v", roundA, roundIDs)
	}
}
