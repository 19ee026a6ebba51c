package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/game"
)

// WagerMultipliers maps targets found to the payout multiple of the wager.
// Fewer than two found pays nothing.
var WagerMultipliers = map[int]decimal.Decimal{
	2: decimal.RequireFromString("0.5"),
	3: decimal.RequireFromString("1.5"),
	4: decimal.RequireFromString("3"),
	5: decimal.RequireFromString("10"),
}

// Treasury is an in-process adapter. Buy-ins feed a pot per mode; payouts
// are drawn from the house reserve and credited as pending withdrawals.
type Treasury struct {
	mu      sync.Mutex
	house   decimal.Decimal
	pots    map[game.Kind]decimal.Decimal
	pending map[string]decimal.Decimal
	entered map[string]bool // player has an unsettled duel entry
}

// NewTreasury starts with reserve in the house account.
func NewTreasury(reserve decimal.Decimal) *Treasury {
	return &Treasury{
		house:   reserve,
		pots:    make(map[game.Kind]decimal.Decimal),
		pending: make(map[string]decimal.Decimal),
		entered: make(map[string]bool),
	}
}

func (t *Treasury) BuyIn(_ context.Context, player string, kind game.Kind, amount decimal.Decimal) error {
	if err := ValidBuyIn(kind, amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if kind == game.Duel {
		t.house = t.house.Add(amount)
		t.entered[player] = true
	} else {
		t.pots[kind] = t.pots[kind].Add(amount)
	}
	log.Debug().Str("player", player).Str("mode", string(kind)).Str("amount", amount.String()).Msg("buy-in")
	return nil
}

func (t *Treasury) Complete(_ context.Context, kind game.Kind, winner string) error {
	if kind != game.Duel {
		return fmt.Errorf("%w: %s", ErrNotGated, kind)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.entered[winner] {
		return fmt.Errorf("payments: %s has no duel entry", winner)
	}
	if t.house.LessThan(BattlePayout) {
		return ErrInsufficient
	}
	delete(t.entered, winner)
	t.house = t.house.Sub(BattlePayout)
	t.pending[winner] = t.pending[winner].Add(BattlePayout)
	return nil
}

func (t *Treasury) SettleWager(_ context.Context, player string, wager decimal.Decimal, found int) (decimal.Decimal, error) {
	if err := ValidWager(wager); err != nil {
		return decimal.Zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.house = t.house.Add(wager)
	mult, ok := WagerMultipliers[found]
	if !ok {
		return decimal.Zero, nil
	}
	payout := wager.Mul(mult)
	if t.house.LessThan(payout) {
		return decimal.Zero, ErrInsufficient
	}
	t.house = t.house.Sub(payout)
	t.pending[player] = t.pending[player].Add(payout)
	return payout, nil
}

// Pending returns what player can withdraw.
func (t *Treasury) Pending(player string) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending[player]
}

// Withdraw clears and returns player's pending balance.
func (t *Treasury) Withdraw(player string) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	amt := t.pending[player]
	if !amt.IsPositive() {
		return decimal.Zero, ErrInsufficient
	}
	delete(t.pending, player)
	return amt, nil
}

// Pot returns the collected buy-ins for kind.
func (t *Treasury) Pot(kind game.Kind) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pots[kind]
}

// House returns the reserve available for payouts.
func (t *Treasury) House() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.house
}
