package ledger

import (
	"fmt"
	"time"

	"github.com/robalobadob/memomu/internal/game"
)

// Flat is the persisted shape of any ledger record. Type is the mode's
// wire name; score records fill Score, streak records fill the counters.
type Flat struct {
	Type       string    `json:"type"`
	Score      int       `json:"score,omitempty"`
	FiveCount  int       `json:"fiveCount,omitempty"`
	FourCount  int       `json:"fourCount,omitempty"`
	WinCount   int       `json:"winCount,omitempty"`
	BestStreak int       `json:"bestStreak,omitempty"`
	Name       string    `json:"name,omitempty"`
	WalletID   string    `json:"walletId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Export flattens every ledger, score kinds first, each in rank order.
func (l *Ledger) Export() []Flat {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Flat
	for _, k := range ScoreKinds() {
		for _, e := range l.scores[k] {
			out = append(out, Flat{
				Type: string(k), Score: e.Score,
				Name: e.Name, WalletID: e.WalletID, Timestamp: e.Timestamp,
			})
		}
	}
	for _, s := range l.hidden {
		out = append(out, streakFlat(game.HiddenObject, s))
	}
	for _, s := range l.duel {
		out = append(out, streakFlat(game.Duel, s))
	}
	return out
}

func streakFlat(k game.Kind, s Streak) Flat {
	return Flat{
		Type: string(k), FiveCount: s.FiveCount, FourCount: s.FourCount,
		WinCount: s.WinCount, BestStreak: s.BestStreak,
		Name: s.Name, WalletID: s.WalletID, Timestamp: s.LastPlayed,
	}
}

// Import replaces the ledger content with records. Rankings are rebuilt,
// so records may come in any order. Nothing changes on error.
func (l *Ledger) Import(records []Flat) error {
	scores := make(map[game.Kind][]Entry)
	var hidden, duel []Streak
	for i, r := range records {
		k, err := game.ParseKind(r.Type)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		s := Streak{
			Name: r.Name, WalletID: r.WalletID,
			FiveCount: r.FiveCount, FourCount: r.FourCount,
			WinCount: r.WinCount, BestStreak: r.BestStreak, LastPlayed: r.Timestamp,
		}
		switch k {
		case game.HiddenObject:
			hidden = append(hidden, s)
		case game.Duel:
			duel = append(duel, s)
		default:
			scores[k] = append(scores[k], Entry{
				Score: r.Score, Name: r.Name, WalletID: r.WalletID, Timestamp: r.Timestamp,
			})
		}
	}
	for k, list := range scores {
		scores[k] = rankScores(list)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores = scores
	l.hidden = rankHidden(hidden)
	l.duel = rankDuel(duel)
	return nil
}
