// Package sicbo implements the round lifecycle and settlement rules for the
// Tai Xiu dice game: the wall-clock round cycle, the deterministic outcome,
// the bet option catalog and the payout evaluation.
package sicbo

import "fmt"

// BetCategory selects the settlement rule for a bet option.
type BetCategory string

const (
	CategoryBigSmall BetCategory = "BIG_SMALL"
	CategoryTotal    BetCategory = "TOTAL"
	CategoryTriple   BetCategory = "TRIPLE"
	CategorySingle   BetCategory = "SINGLE"
)

// BigSmallSide is the side of a BIG_SMALL bet.
type BigSmallSide string

const (
	SideBig   BigSmallSide = "BIG"
	SideSmall BigSmallSide = "SMALL"
)

// AnyFace marks a TRIPLE option that wins on any triple rather than a
// specific face.
const AnyFace = 0

// BetOption is one selectable wager target from the static catalog.
type BetOption struct {
	ID       string       `json:"id"`
	Category BetCategory  `json:"category"`
	Label    string       `json:"label"`
	Side     BigSmallSide `json:"side,omitempty"` // BIG_SMALL only
	Number   int          `json:"number"`         // TOTAL sum, TRIPLE face (AnyFace = any), SINGLE face
	Payout   int64        `json:"payout"`
}

// Options is the full bet option catalog. Loaded once, read-only.
var Options = buildOptions()

var optionsByID = func() map[string]BetOption {
	m := make(map[string]BetOption, len(Options))
	for _, opt := range Options {
		m[opt.ID] = opt
	}
	return m
}()

func buildOptions() []BetOption {
	opts := []BetOption{
		{ID: "xiu", Category: CategoryBigSmall, Label: "XIU (4-10)", Side: SideSmall, Payout: 1},
		{ID: "tai", Category: CategoryBigSmall, Label: "TAI (11-17)", Side: SideBig, Payout: 1},
	}

	totalPayouts := map[int]int64{
		4: 60, 17: 60,
		5: 30, 16: 30,
		6: 18, 15: 18,
		7: 12, 14: 12,
		8: 8, 13: 8,
		9: 6, 10: 6, 11: 6, 12: 6,
	}
	for n := 4; n <= 17; n++ {
		opts = append(opts, BetOption{
			ID:       fmt.Sprintf("total_%d", n),
			Category: CategoryTotal,
			Label:    fmt.Sprintf("%d", n),
			Number:   n,
			Payout:   totalPayouts[n],
		})
	}

	for n := 1; n <= 6; n++ {
		opts = append(opts, BetOption{
			ID:       fmt.Sprintf("triple_%d", n),
			Category: CategoryTriple,
			Label:    fmt.Sprintf("Bao %d", n),
			Number:   n,
			Payout:   180,
		})
	}
	opts = append(opts, BetOption{
		ID:       "any_triple",
		Category: CategoryTriple,
		Label:    "Bao Bat Ky",
		Number:   AnyFace,
		Payout:   30,
	})

	for n := 1; n <= 6; n++ {
		opts = append(opts, BetOption{
			ID:       fmt.Sprintf("single_%d", n),
			Category: CategorySingle,
			Label:    fmt.Sprintf("%d", n),
			Number:   n,
			Payout:   1,
		})
	}

	return opts
}

// OptionByID looks up a catalog entry by its id.
func OptionByID(id string) (BetOption, bool) {
	opt, ok := optionsByID[id]
	return opt, ok
}
