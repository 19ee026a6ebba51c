package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memomu/internal/daily"
	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/leaderboard"
	"github.com/robalobadob/memomu/internal/ledger"
	"github.com/robalobadob/memomu/internal/payments"
)

// wagerMinFound is the hidden-object found count that settles a wager.
const wagerMinFound = 2

// Recorder fans a finished game out to the ledger, the leaderboard store,
// the payments adapter, the daily results and the ledger snapshot. Scores
// is required; other nil collaborators are skipped. No failure blocks play.
// Each one is logged and turned into a notice.
type Recorder struct {
	Scores    *leaderboard.Fallback
	Payments  payments.Adapter
	Daily     *daily.Store
	Snapshots *leaderboard.SnapshotStore
	Timeout   time.Duration

	// snapMu orders export and write so an older snapshot never lands last.
	snapMu sync.Mutex
}

func (r *Recorder) ledger() *ledger.Ledger { return r.Scores.Ledger() }

// Complete implements CompleteFunc.
func (r *Recorder) Complete(info Info, res game.Result) string {
	if res.Outcome == game.OutcomeAborted {
		return ""
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger := log.With().Str("session", info.ID).Str("mode", string(info.Kind)).Int("score", res.Score).Logger()
	var notices []string

	switch info.Kind {
	case game.HiddenObject:
		r.ledger().RecordHidden(info.Identity, res.Found, res.Streak)
		if info.Gated && res.Found >= wagerMinFound && r.Payments != nil && info.Wager.IsPositive() {
			payout, err := r.Payments.SettleWager(ctx, info.Player, info.Wager, res.Found)
			switch {
			case err != nil:
				logger.Warn().Err(err).Msg("wager settlement failed")
				notices = append(notices, "Wager settlement failed")
			case payout.IsPositive():
				notices = append(notices, fmt.Sprintf("You earned %s MON", payout.String()))
			}
		}
	case game.Duel:
		if res.Outcome == game.OutcomeWon {
			r.ledger().RecordDuelWin(info.Identity)
			if info.Gated && r.Payments != nil {
				if err := r.Payments.Complete(ctx, game.Duel, info.Player); err != nil {
					logger.Warn().Err(err).Msg("battle payout failed")
					notices = append(notices, "Battle payout failed")
				} else {
					notices = append(notices, fmt.Sprintf("You earned %s MON", payments.BattlePayout.String()))
				}
			}
		}
	default:
		_, notice, err := r.Scores.Save(ctx, info.Kind, res.Score, info.Identity)
		if err != nil {
			logger.Error().Err(err).Msg("score not recorded")
		}
		if notice != "" {
			notices = append(notices, notice)
		}
	}

	if info.Daily != "" && info.Player != "" && r.Daily != nil {
		err := r.Daily.Insert(ctx, daily.Result{Player: info.Player, Mode: info.Kind, Date: info.Daily, Score: res.Score})
		switch {
		case errors.Is(err, daily.ErrAlreadyPlayed):
			notices = append(notices, "Daily result already recorded")
		case err != nil:
			logger.Warn().Err(err).Msg("daily result not saved")
		}
	}

	if r.Snapshots != nil {
		if err := r.snapshot(ctx); err != nil {
			logger.Warn().Err(err).Msg("ledger snapshot failed")
		}
	}
	logger.Info().Str("outcome", string(res.Outcome)).Msg("game recorded")
	return strings.Join(notices, "; ")
}

func (r *Recorder) snapshot(ctx context.Context) error {
	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	return r.Snapshots.Save(ctx, r.ledger().Export())
}
