package sicbo

import "testing"

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, opt := range Options {
		if seen[opt.ID] {
			t.Fatalf("duplicate option id %q", opt.ID)
		}
		seen[opt.ID] = true
	}
}

func TestCatalogSize(t *testing.T) {
	// 2 big/small + 14 totals + 6 triples + any triple + 6 singles.
	if len(Options) != 29 {
		t.Fatalf("catalog has %d options, want 29", len(Options))
	}
}

func TestCatalogTotalMultipliers(t *testing.T) {
	want := map[string]int64{
		"total_4": 60, "total_17": 60,
		"total_5": 30, "total_16": 30,
		"total_6": 18, "total_15": 18,
		"total_7": 12, "total_14": 12,
		"total_8": 8, "total_13": 8,
		"total_9": 6, "total_10": 6, "total_11": 6, "total_12": 6,
	}
	for id, payout := range want {
		opt, ok := OptionByID(id)
		if !ok {
			t.Fatalf("option %q missing", id)
		}
		if opt.Payout != payout {
			t.Fatalf("%s payout = %d, want %d", id, opt.Payout, payout)
		}
		if opt.Category != CategoryTotal {
			t.Fatalf("%s category = %s, want %s", id, opt.Category, CategoryTotal)
		}
	}
}

func TestCatalogTripleAndSingleMultipliers(t *testing.T) {
	for n := 1; n <= 6; n++ {
		opt := Options[0]
		var ok bool

		if opt, ok = OptionByID(fmtID("triple", n)); !ok || opt.Payout != 180 {
			t.Fatalf("triple_%d missing or wrong payout", n)
		}
		if opt, ok = OptionByID(fmtID("single", n)); !ok || opt.Payout != 1 {
			t.Fatalf("single_%d missing or wrong payout", n)
		}
	}

	anyTriple, ok := OptionByID("any_triple")
	if !ok || anyTriple.Payout != 30 || anyTriple.Number != AnyFace {
		t.Fatalf("any_triple missing or wrong: %+v", anyTriple)
	}
}

func TestOptionByIDUnknown(t *testing.T) {
	if _, ok := OptionByID("total_3"); ok {
		t.Fatal("total_3 should not exist, minimum sum is 4")
	}
}

func fmtID(prefix string, n int) string {
	return prefix + "_" + string(rune('0'+n))
}
