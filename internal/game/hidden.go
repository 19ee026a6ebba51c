// internal/game/hidden.go
//
// Hidden-Object (Monluck): a single round on a 5x6 board with 5 copies of
// the target hidden among 25 distractors. The player has 5 reveals.
//
// The streak lives on the mode object and survives "again":
//   - all 5 found, or 4 found when reveals run out: streak + 1
//   - anything less: streak back to 0
package game

import (
	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/pool"
	"github.com/robalobadob/memomu/internal/rng"
)

const (
	PhaseHiddenSearching Phase = "searching"
	PhaseHiddenSuccess   Phase = "success"
	PhaseHiddenFailure   Phase = "failure"
)

const (
	HiddenTargets  = 5
	HiddenAttempts = 5
	// HiddenStreakMin is the found count that keeps a streak alive.
	HiddenStreakMin = 4
)

var hiddenGrid = grid.Spec{Rows: 5, Cols: 6, TileSize: 85, Gap: 10, Top: 125}

// Hidden is the Hidden-Object state machine.
type Hidden struct {
	base
	distractors *pool.Pool
	targets     map[int]bool
	found       int
	clicks      int
	streak      int
	bestStreak  int
}

func (m *Hidden) Start(cfg Config) error {
	if err := m.reset(HiddenObject, cfg, 1); err != nil {
		return err
	}
	if m.distractors == nil {
		m.distractors = pool.New(m.cfg.Rand, m.cfg.Catalog.Hidden.Distractors)
	}
	fill, err := m.distractors.Draw(hiddenGrid.Tiles()-HiddenTargets, false)
	if err != nil {
		return err
	}

	m.layout(hiddenGrid)
	m.targets = make(map[int]bool, HiddenTargets)
	for _, i := range rng.Sample(m.cfg.Rand, len(m.tiles), HiddenTargets) {
		m.targets[i] = true
	}
	next := 0
	for i := range m.tiles {
		if m.targets[i] {
			m.tiles[i].Item = m.cfg.Catalog.Hidden.Target
			continue
		}
		m.tiles[i].Item = fill[next]
		next++
	}
	m.found, m.clicks = 0, 0
	m.phase = PhaseHiddenSearching
	return nil
}

func (m *Hidden) Action(a Action) {
	switch a {
	case ActionAgain:
		if m.IsTerminal() {
			_ = m.Start(m.cfg)
		}
	case ActionMenu, ActionQuit:
		m.abort(m.found, PhaseHiddenFailure)
	}
}

// Tick is a no-op; the search has no clock.
func (m *Hidden) Tick(int64) {}

func (m *Hidden) HandleInput(idx int) {
	if m.phase != PhaseHiddenSearching || m.IsTerminal() {
		return
	}
	t, ok := m.at(idx)
	if !ok || t.Revealed {
		return
	}
	t.Revealed = true
	m.clicks++
	if m.targets[idx-1] {
		m.found++
		t.Feedback = FeedbackHit
	} else {
		t.Feedback = FeedbackMiss
	}

	switch {
	case m.found >= HiddenTargets:
		m.settle(true)
		m.phase = PhaseHiddenSuccess
		m.feedback = "YUPI! You found them all!"
	case m.clicks >= HiddenAttempts:
		m.settle(false)
		m.phase = PhaseHiddenFailure
		m.feedback = "Game Over!"
	}
}

func (m *Hidden) settle(success bool) {
	if m.found >= HiddenStreakMin {
		m.streak++
		if m.streak > m.bestStreak {
			m.bestStreak = m.streak
		}
	} else {
		m.streak = 0
	}
	outcome := OutcomeFailed
	if success {
		outcome = OutcomeSuccess
	}
	m.finish(RoundReport{Round: 1, Score: m.found, Success: success, Perfect: success}, outcome)
}

func (m *Hidden) Result() Result {
	r := m.result()
	r.Found = m.found
	r.Streak = m.streak
	r.BestStreak = m.bestStreak
	return r
}

func (m *Hidden) View() View {
	v := m.view(0)
	v.Score = m.found
	if !m.IsTerminal() {
		v.AttemptsLeft = HiddenAttempts - m.clicks
	}
	return v
}
