package leaderboard

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/ledger"
)

// Notices shown to the player when the store cannot be used. Play goes on.
const (
	NoticeOffline   = "Leaderboard unavailable: score saved locally"
	NoticeAnonymous = "Score saved locally: enter a name to publish it"
)

// Fallback writes every score to the in-process ledger first and then to
// the store. A nil store is treated as offline.
type Fallback struct {
	store  Store
	ledger *ledger.Ledger
}

// NewFallback pairs store with l.
func NewFallback(store Store, l *ledger.Ledger) *Fallback {
	return &Fallback{store: store, ledger: l}
}

// Save records score locally and publishes it when the player has a name.
// The returned notice is empty on full success.
func (f *Fallback) Save(ctx context.Context, kind game.Kind, score int, id ledger.Identity) ([]ledger.Entry, string, error) {
	local, err := f.ledger.Record(kind, score, id)
	if err != nil {
		return nil, "", err
	}
	if id.Name == "" && id.WalletID == "" {
		return local, NoticeAnonymous, nil
	}
	if f.store == nil {
		return local, NoticeOffline, nil
	}
	if err := f.store.SaveScore(ctx, kind, score, id); err != nil {
		log.Warn().Err(err).Str("mode", string(kind)).Int("score", score).Msg("leaderboard save failed")
		return local, NoticeOffline, nil
	}
	return local, "", nil
}

// HighScores reads from the store and falls back to the local ledger.
func (f *Fallback) HighScores(ctx context.Context, kind game.Kind, limit int) ([]ledger.Entry, string) {
	if f.store != nil {
		list, err := f.store.HighScores(ctx, kind, limit)
		if err == nil {
			return list, ""
		}
		log.Warn().Err(err).Str("mode", string(kind)).Msg("leaderboard read failed")
	}
	if limit <= 0 {
		limit = ledger.MaxEntries
	}
	return f.ledger.Top(kind, limit), NoticeOffline
}

// Ledger exposes the local ledger.
func (f *Fallback) Ledger() *ledger.Ledger { return f.ledger }
