// internal/payments/payments.go
//
// Pay-to-play collaborator.
// Responsibilities:
//   - Adapter: what the core signals when a gated game starts, when a duel
//     is won and when a hidden-object wager settles.
//   - Free: the ungated adapter; every call succeeds and moves nothing.
//
// The core never blocks play on an adapter error; callers log and go on.

package payments

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/game"
)

var (
	ErrInsufficient  = errors.New("payments: insufficient funds")
	ErrInvalidAmount = errors.New("payments: invalid amount")
	ErrNotGated      = errors.New("payments: mode is not pay-to-play")
)

// Buy-in tiers and the duel payout, in MON.
var (
	LowBuyIn     = decimal.RequireFromString("0.1")
	HighBuyIn    = decimal.RequireFromString("1.0")
	BattleBuyIn  = decimal.RequireFromString("1.0")
	BattlePayout = decimal.RequireFromString("1.5")
)

// Hidden-object wagers run from MinWager to MaxWager in WagerStep steps.
var (
	MinWager  = decimal.RequireFromString("0.1")
	MaxWager  = decimal.RequireFromString("1.0")
	WagerStep = decimal.RequireFromString("0.1")
)

// Adapter is the pay-to-play contract.
type Adapter interface {
	// BuyIn charges player for one gated game of kind.
	BuyIn(ctx context.Context, player string, kind game.Kind, amount decimal.Decimal) error
	// Complete signals that winner won a gated duel.
	Complete(ctx context.Context, kind game.Kind, winner string) error
	// SettleWager pays out a hidden-object wager for found targets and
	// returns the payout credited to player.
	SettleWager(ctx context.Context, player string, wager decimal.Decimal, found int) (decimal.Decimal, error)
}

// Gated reports whether kind takes a buy-in in gated play.
func Gated(kind game.Kind) bool {
	switch kind {
	case game.SequenceRecall, game.PairMatching, game.FlashRecall, game.Duel:
		return true
	}
	return false
}

// ValidBuyIn checks amount against the tiers kind accepts.
func ValidBuyIn(kind game.Kind, amount decimal.Decimal) error {
	switch kind {
	case game.Duel:
		if amount.Equal(BattleBuyIn) {
			return nil
		}
	case game.SequenceRecall, game.PairMatching, game.FlashRecall:
		if amount.Equal(LowBuyIn) || amount.Equal(HighBuyIn) {
			return nil
		}
	default:
		return ErrNotGated
	}
	return ErrInvalidAmount
}

// ValidWager checks a hidden-object wager against the wager range.
func ValidWager(amount decimal.Decimal) error {
	if amount.LessThan(MinWager) || amount.GreaterThan(MaxWager) || !amount.Mod(WagerStep).IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

// Free is the adapter used for ungated play.
type Free struct{}

func (Free) BuyIn(context.Context, string, game.Kind, decimal.Decimal) error { return nil }

func (Free) Complete(context.Context, game.Kind, string) error { return nil }

func (Free) SettleWager(context.Context, string, decimal.Decimal, int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
