// internal/ledger/ledger.go
//
// High-score and streak ledger shared by every session.
//
// Three shapes of ranking live here:
//   - score ledgers (sequence, pairs, flash): top 10 by score, ties ranked
//     by the earlier timestamp.
//   - the hidden-object streak ledger: one record per player with 5-of-5
//     and 4-of-5 counters and the best streak seen.
//   - the duel ledger: one record per player with a win count.
//
// Score ledgers keep MaxEntries records. Streak ledgers keep every
// player's counters so a player below the cut still accumulates, and only
// the visible ranking is cut to MaxEntries. Reads return copies and never
// reorder anything. One mutex guards all three so an update is atomic with
// respect to readers.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/memomu/internal/game"
)

// MaxEntries bounds every ranking.
const MaxEntries = 10

// ErrUnknownKind is returned for a kind the called ledger does not rank.
var ErrUnknownKind = errors.New("ledger: unknown kind")

// Identity is who a record belongs to. WalletID wins over Name when set.
type Identity struct {
	Name     string `json:"name,omitempty"`
	WalletID string `json:"walletId,omitempty"`
}

func (id Identity) matches(name, wallet string) bool {
	if wallet != "" {
		return wallet == id.WalletID
	}
	return id.WalletID == "" && name == id.Name
}

// Entry is one score record.
type Entry struct {
	Score     int       `json:"score"`
	Name      string    `json:"name,omitempty"`
	WalletID  string    `json:"walletId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Streak is one player's cumulative record in a streak ledger.
type Streak struct {
	Name       string    `json:"name,omitempty"`
	WalletID   string    `json:"walletId,omitempty"`
	FiveCount  int       `json:"fiveCount,omitempty"`
	FourCount  int       `json:"fourCount,omitempty"`
	WinCount   int       `json:"winCount,omitempty"`
	BestStreak int       `json:"bestStreak,omitempty"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// ScoreKinds are the modes ranked by plain score.
func ScoreKinds() []game.Kind {
	return []game.Kind{game.SequenceRecall, game.PairMatching, game.FlashRecall}
}

func isScoreKind(k game.Kind) bool {
	for _, s := range ScoreKinds() {
		if s == k {
			return true
		}
	}
	return false
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu     sync.RWMutex
	now    func() time.Time
	scores map[game.Kind][]Entry
	hidden []Streak
	duel   []Streak
}

// New returns an empty ledger. A nil clock means time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now, scores: make(map[game.Kind][]Entry)}
}

// Record inserts a score and returns the updated ranking for kind.
func (l *Ledger) Record(kind game.Kind, score int, id Identity) ([]Entry, error) {
	if !isScoreKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e := Entry{Score: score, Name: id.Name, WalletID: id.WalletID, Timestamp: l.now().UTC()}
	l.scores[kind] = rankScores(append(l.scores[kind], e))
	return append([]Entry(nil), l.scores[kind]...), nil
}

func rankScores(list []Entry) []Entry {
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Score != list[b].Score {
			return list[a].Score > list[b].Score
		}
		return list[a].Timestamp.Before(list[b].Timestamp)
	})
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	return list
}

// Top returns up to limit entries for kind. limit <= 0 means all.
func (l *Ledger) Top(kind game.Kind, limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.scores[kind]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return append([]Entry{}, list...)
}

// Qualifies reports whether score would enter the top-10 for kind.
func (l *Ledger) Qualifies(kind game.Kind, score int) bool {
	if !isScoreKind(kind) {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.scores[kind]
	return len(list) < MaxEntries || score > list[len(list)-1].Score
}

// RecordHidden tracks a finished hidden-object game and returns the visible
// ranking. Only games with at least game.HiddenStreakMin found are tracked;
// ok is false otherwise.
func (l *Ledger) RecordHidden(id Identity, found, streak int) (list []Streak, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if found < game.HiddenStreakMin {
		return top(l.hidden), false
	}
	s, i := find(l.hidden, id)
	switch {
	case found >= game.HiddenTargets:
		s.FiveCount++
	default:
		s.FourCount++
	}
	if streak > s.BestStreak {
		s.BestStreak = streak
	}
	s.LastPlayed = l.now().UTC()
	l.hidden = rankHidden(put(l.hidden, s, i))
	return top(l.hidden), true
}

// RecordDuelWin adds one win for id and returns the visible ranking.
func (l *Ledger) RecordDuelWin(id Identity) []Streak {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, i := find(l.duel, id)
	s.WinCount++
	s.LastPlayed = l.now().UTC()
	l.duel = rankDuel(put(l.duel, s, i))
	return top(l.duel)
}

// Streaks returns the top MaxEntries of the hidden-object or duel ledger.
func (l *Ledger) Streaks(kind game.Kind) ([]Streak, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch kind {
	case game.HiddenObject:
		return top(l.hidden), nil
	case game.Duel:
		return top(l.duel), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func find(list []Streak, id Identity) (Streak, int) {
	for i, s := range list {
		if id.matches(s.Name, s.WalletID) {
			return s, i
		}
	}
	return Streak{Name: id.Name, WalletID: id.WalletID}, -1
}

func put(list []Streak, s Streak, i int) []Streak {
	if i < 0 {
		return append(list, s)
	}
	list[i] = s
	return list
}

// top copies the visible head of a ranked streak list.
func top(list []Streak) []Streak {
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	return append([]Streak{}, list...)
}

// hiddenLess ranks players with any 5-of-5 game first, then by 5-of-5
// count, 4-of-5 count and best streak. Whoever got there first wins a tie.
func hiddenLess(a, b Streak) bool {
	if (a.FiveCount > 0) != (b.FiveCount > 0) {
		return a.FiveCount > 0
	}
	if a.FiveCount != b.FiveCount {
		return a.FiveCount > b.FiveCount
	}
	if a.FourCount != b.FourCount {
		return a.FourCount > b.FourCount
	}
	if a.BestStreak != b.BestStreak {
		return a.BestStreak > b.BestStreak
	}
	return a.LastPlayed.Before(b.LastPlayed)
}

func duelLess(a, b Streak) bool {
	if a.WinCount != b.WinCount {
		return a.WinCount > b.WinCount
	}
	return a.LastPlayed.Before(b.LastPlayed)
}

func rankHidden(list []Streak) []Streak {
	sort.SliceStable(list, func(a, b int) bool { return hiddenLess(list[a], list[b]) })
	return list
}

func rankDuel(list []Streak) []Streak {
	sort.SliceStable(list, func(a, b int) bool { return duelLess(list[a], list[b]) })
	return list
}
