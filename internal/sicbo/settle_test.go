package sicbo

import (
	"reflect"
	"testing"
)

func mustOption(t *testing.T, id string) BetOption {
	t.Helper()
	opt, ok := OptionByID(id)
	if !ok {
		t.Fatalf("option %q not in catalog", id)
	}
	return opt
}

func TestBigSmallWinsOnOverriddenOutcome(t *testing.T) {
	// Operator forces 4,5,6: sum 15, BIG wins. A 50,000 bet on "tai" pays
	// stake plus profit, 100,000 total.
	outcome := Outcome{D1: 4, D2: 5, D3: 6}
	win, err := WinAmount(mustOption(t, "tai"), 50000, outcome)
	if err != nil {
		t.Fatalf("WinAmount returned error: %v", err)
	}
	if win != 100000 {
		t.Fatalf("tai win = %d, want 100000", win)
	}

	win, err = WinAmount(mustOption(t, "xiu"), 50000, outcome)
	if err != nil {
		t.Fatalf("WinAmount returned error: %v", err)
	}
	if win != 0 {
		t.Fatalf("xiu win = %d, want 0", win)
	}
}

func TestTripleVoidsBigSmall(t *testing.T) {
	outcome := Outcome{D1: 6, D2: 6, D3: 6} // sum 18, triple
	for _, id := range []string{"tai", "xiu"} {
		win, err := WinAmount(mustOption(t, id), 10000, outcome)
		if err != nil {
			t.Fatalf("WinAmount returned error: %v", err)
		}
		if win != 0 {
			t.Fatalf("%s win on triple = %d, want 0", id, win)
		}
	}
}

func TestAnyTriplePayout(t *testing.T) {
	outcome := Outcome{D1: 6, D2: 6, D3: 6}
	win, err := WinAmount(mustOption(t, "any_triple"), 10000, outcome)
	if err != nil {
		t.Fatalf("WinAmount returned error: %v", err)
	}
	if win != 310000 {
		t.Fatalf("any_triple win = %d, want 310000", win)
	}
}

func TestSpecificTriplePayout(t *testing.T) {
	outcome := Outcome{D1: 4, D2: 4, D3: 4}

	win, err := WinAmount(mustOption(t, "triple_4"), 1000, outcome)
	if err != nil {
		t.Fatalf("WinAmount returned error: %v", err)
	}
	if win != 181000 {
		t.Fatalf("triple_4 win = %d, want 181000", win)
	}

	// Wrong face loses even on a triple.
	win, err = WinAmount(mustOption(t, "triple_5"), 1000, outcome)
	if err != nil {
		t.Fatalf("WinAmount returned error: %v", err)
	}
	if win != 0 {
		t.Fatalf("triple_5 win = %d, want 0", win)
	}
}

func TestTotalPayoutTable(t *testing.T) {
	tcs := []struct {
		outcome Outcome
		id      string
		win     int64
	}{
		{Outcome{1, 1, 2}, "total_4", 61000},  // 60x
		{Outcome{1, 2, 2}, "total_5", 31000},  // 30x
		{Outcome{1, 2, 3}, "total_6", 19000},  // 18x
		{Outcome{2, 2, 3}, "total_7", 13000},  // 12x
		{Outcome{2, 3, 3}, "total_8", 9000},   // 8x
		{Outcome{3, 3, 4}, "total_10", 7000},  // 6x
		{Outcome{4, 4, 4}, "total_12", 7000},  // 6x, triples do not void TOTAL
		{Outcome{5, 5, 6}, "total_16", 31000}, // 30x
		{Outcome{6, 6, 5}, "total_17", 61000}, // 60x
		{Outcome{2, 2, 3}, "total_8", 0},      // sum mismatch loses
	}

	for _, tc := range tcs {
		win, err := WinAmount(mustOption(t, tc.id), 1000, tc.outcome)
		if err != nil {
			t.Fatalf("WinAmount(%s) returned error: %v", tc.id, err)
		}
		if win != tc.win {
			t.Fatalf("%s on %+v: win = %d, want %d", tc.id, tc.outcome, win, tc.win)
		}
	}
}

func TestSinglePaysFlatPerBet(t *testing.T) {
	// Flat 1x per winning bet regardless of how many dice show the face.
	for _, outcome := range []Outcome{{5, 1, 2}, {5, 5, 2}, {5, 5, 5}} {
		win, err := WinAmount(mustOption(t, "single_5"), 1000, outcome)
		if err != nil {
			t.Fatalf("WinAmount returned error: %v", err)
		}
		if win != 2000 {
			t.Fatalf("single_5 on %+v: win = %d, want 2000", outcome, win)
		}
	}

	win, err := WinAmount(mustOption(t, "single_5"), 1000, Outcome{1, 2, 3})
	if err != nil {
		t.Fatalf("WinAmount returned error: %v", err)
	}
	if win != 0 {
		t.Fatalf("single_5 without the face: win = %d, want 0", win)
	}
}

func TestWinAmountRejectsUnknownCategory(t *testing.T) {
	opt := BetOption{ID: "bogus", Category: BetCategory("PARLAY"), Payout: 2}
	if _, err := WinAmount(opt, 1000, Outcome{1, 2, 3}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSettleRoundCreditsOncePerUser(t *testing.T) {
	outcome := Outcome{D1: 4, D2: 5, D3: 6} // sum 15, big
	bets := []LedgerEntry{
		{UserID: 1, OptionID: "tai", Amount: 50000},
		{UserID: 1, OptionID: "total_15", Amount: 1000}, // 18x -> 19000
		{UserID: 2, OptionID: "xiu", Amount: 30000},     // loses
		{UserID: 3, OptionID: "single_6", Amount: 2000}, // 1x -> 4000
	}

	credits, err := SettleRound(bets, outcome)
	if err != nil {
		t.Fatalf("SettleRound returned error: %v", err)
	}

	want := map[int64]int64{1: 119000, 3: 4000}
	if !reflect.DeepEqual(credits, want) {
		t.Fatalf("credits = %v, want %v", credits, want)
	}
	if _, ok := credits[2]; ok {
		t.Fatal("losing user must not be credited")
	}
}

func TestSettleRoundIsReentrant(t *testing.T) {
	outcome := Roll(123456)
	bets := []LedgerEntry{
		{UserID: 1, OptionID: "tai", Amount: 10000},
		{UserID: 2, OptionID: "xiu", Amount: 10000},
		{UserID: 2, OptionID: "any_triple", Amount: 500},
	}

	first, err := SettleRound(bets, outcome)
	if err != nil {
		t.Fatalf("SettleRound returned error: %v", err)
	}
	second, err := SettleRound(bets, outcome)
	if err != nil {
		t.Fatalf("SettleRound returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("settlement not re-entrant: %v vs %v", first, second)
	}
}

func TestSettleRoundBoundedByRuleTable(t *testing.T) {
	// Total credits never exceed total staked times the highest multiplier
	// in play (plus returned stakes).
	bets := []LedgerEntry{
		{UserID: 1, OptionID: "triple_4", Amount: 100},
		{UserID: 2, OptionID: "tai", Amount: 100},
		{UserID: 3, OptionID: "total_12", Amount: 100},
	}
	var staked, maxPayout int64
	for _, b := range bets {
		staked += b.Amount
		opt, _ := OptionByID(b.OptionID)
		if opt.Payout > maxPayout {
			maxPayout = opt.Payout
		}
	}

	for roundID := int64(5000); roundID < 5200; roundID++ {
		credits, err := SettleRound(bets, Roll(roundID))
		if err != nil {
			t.Fatalf("SettleRound returned error: %v", err)
		}
		var total int64
		for _, c := range credits {
			total += c
		}
		if total > staked+staked*maxPayout {
			t.Fatalf("round %d credited %d, exceeds bound %d", roundID, total, staked+staked*maxPayout)
		}
	}
}

func TestSettleRoundRejectsUnknownOption(t *testing.T) {
	_, err := SettleRound([]LedgerEntry{{UserID: 1, OptionID: "nope", Amount: 100}}, Outcome{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for unknown option")
	}
}
