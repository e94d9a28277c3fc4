package sicbo

import "fmt"

// LedgerEntry is one placed bet as seen by the settlement engine.
type LedgerEntry struct {
	UserID   int64
	OptionID string
	Amount   int64
}

// WinAmount evaluates one bet against the revealed outcome. A winning bet
// pays stake plus stake times the option multiplier; a losing bet pays 0.
func WinAmount(opt BetOption, amount int64, o Outcome) (int64, error) {
	won, err := wins(opt, o)
	if err != nil {
		return 0, err
	}
	if !won {
		return 0, nil
	}
	return amount + amount*opt.Payout, nil
}

// wins dispatches on the option category. Every category is handled
// explicitly; an unknown category is an error rather than a silent loss.
func wins(opt BetOption, o Outcome) (bool, error) {
	sum := o.Sum()

	switch opt.Category {
	case CategoryBigSmall:
		// A triple is a bank-wins condition for this category only.
		if o.IsTriple() {
			return false, nil
		}
		switch opt.Side {
		case SideSmall:
			return sum >= 4 && sum <= 10, nil
		case SideBig:
			return sum >= 11 && sum <= 17, nil
		default:
			return false, fmt.Errorf("bet option %q has invalid side %q", opt.ID, opt.Side)
		}

	case CategoryTotal:
		return sum == opt.Number, nil

	case CategoryTriple:
		if !o.IsTriple() {
			return false, nil
		}
		return opt.Number == AnyFace || o.D1 == opt.Number, nil

	case CategorySingle:
		// Pays the flat option multiplier once per winning bet, regardless
		// of how many dice show the face.
		return o.D1 == opt.Number || o.D2 == opt.Number || o.D3 == opt.Number, nil

	default:
		return false, fmt.Errorf("bet option %q has unknown category %q", opt.ID, opt.Category)
	}
}

// SettleRound resolves every bet of a round against the outcome and returns
// the total credit per user. Pure: recomputing from the same bet snapshot and
// outcome always yields the same credits, which is what makes settlement
// safely re-entrant.
func SettleRound(bets []LedgerEntry, o Outcome) (map[int64]int64, error) {
	credits := make(map[int64]int64)
	for _, bet := range bets {
		opt, ok := OptionByID(bet.OptionID)
		if !ok {
			return nil, fmt.Errorf("bet references unknown option %q", bet.OptionID)
		}
		win, err := WinAmount(opt, bet.Amount, o)
		if err != nil {
			return nil, err
		}
		if win > 0 {
			credits[bet.UserID] += win
		}
	}
	return credits, nil
}
