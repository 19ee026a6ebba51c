// internal/game/pairs.go
//
// Pair-Matching (Classic Memory).
//
// Round flow:
//   roundSetup --start--> playing --2nd tile--> matchPending --250ms--> playing
//   playing --all pairs--> roundSuccess --2000ms--> roundSetup (next round)
//   playing --30s--> roundTimeout (game over)
//
// The countdown only runs once the player sends start for the round.
// Round score is pairs found, plus floor(seconds left) * round when every
// pair was found in time.
package game

import (
	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/pool"
	"github.com/robalobadob/memomu/internal/rng"
)

const (
	PhasePairsSetup        Phase = "roundSetup"
	PhasePairsPlaying      Phase = "playing"
	PhasePairsMatchPending Phase = "matchPending"
	PhasePairsSuccess      Phase = "roundSuccess"
	PhasePairsTimeout      Phase = "roundTimeout"
	PhasePairsOver         Phase = "gameOver"
)

const (
	pairsRounds    = 5
	pairsBudgetMs  = 30000
	pairsHideMs    = 250
	pairsAdvanceMs = 2000
)

type pairsRound struct {
	rows, cols, pairs int
}

var pairsTable = [pairsRounds]pairsRound{
	{3, 4, 6},
	{4, 4, 8},
	{4, 5, 10},
	{5, 5, 12}, // one unpaired filler
	{5, 6, 15},
}

const (
	pairsHide eventKind = iota
	pairsTimeout
	pairsNext
)

// Pairs is the Pair-Matching state machine.
type Pairs struct {
	base
	images     *pool.Pool
	pairs      int
	found      int
	first      int // 0-based, -1 when no tile is open
	second     int
	roundStart int64
}

func (m *Pairs) Start(cfg Config) error {
	if err := m.reset(PairMatching, cfg, pairsRounds); err != nil {
		return err
	}
	m.images = pool.New(m.cfg.Rand, m.cfg.Catalog.Classic)
	return m.setupRound()
}

func (m *Pairs) setupRound() error {
	rc := pairsTable[m.round-1]
	spec := grid.Spec{Rows: rc.rows, Cols: rc.cols, TileSize: 80, Gap: 8, Top: 160}
	total := spec.Tiles()

	need := rc.pairs + total%2
	picks, err := m.images.Draw(need, true)
	if err != nil {
		return err
	}
	items := make([]string, 0, total)
	for _, it := range picks[:rc.pairs] {
		items = append(items, it, it)
	}
	if total%2 == 1 {
		items = append(items, picks[rc.pairs])
	}
	items = rng.Shuffle(m.cfg.Rand, items)

	m.layout(spec)
	for i := range m.tiles {
		m.tiles[i].Item = items[i]
	}
	m.pairs = rc.pairs
	m.found = 0
	m.first, m.second = -1, -1
	m.phase = PhasePairsSetup
	m.feedback = ""
	return nil
}

func (m *Pairs) Action(a Action) {
	switch a {
	case ActionStart:
		if m.phase != PhasePairsSetup || m.IsTerminal() {
			return
		}
		m.phase = PhasePairsPlaying
		m.roundStart = m.sched.Now()
		m.sched.After(pairsBudgetMs, event{kind: pairsTimeout})
	case ActionAgain:
		if m.IsTerminal() {
			_ = m.Start(m.cfg)
		}
	case ActionMenu, ActionQuit:
		m.abort(m.found, PhasePairsOver)
	}
}

func (m *Pairs) Tick(elapsedMs int64) { m.sched.Advance(elapsedMs, m.fire) }

func (m *Pairs) fire(e event) {
	switch e.kind {
	case pairsHide:
		m.tiles[m.first].Revealed = false
		m.tiles[m.second].Revealed = false
		m.first, m.second = -1, -1
		m.phase = PhasePairsPlaying
	case pairsTimeout:
		m.finish(RoundReport{Round: m.round, Score: m.found}, OutcomeFailed)
		m.phase = PhasePairsTimeout
		m.feedback = "Time's up! Game Over."
	case pairsNext:
		m.round++
		if err := m.setupRound(); err != nil {
			m.finish(RoundReport{Round: m.round}, OutcomeFailed)
			m.phase = PhasePairsOver
			m.feedback = err.Error()
		}
	}
}

func (m *Pairs) HandleInput(idx int) {
	if m.phase != PhasePairsPlaying || m.IsTerminal() {
		return
	}
	t, ok := m.at(idx)
	if !ok || t.Revealed || t.Matched {
		return
	}
	t.Revealed = true
	if m.first < 0 {
		m.first = idx - 1
		return
	}
	m.second = idx - 1

	a, b := &m.tiles[m.first], &m.tiles[m.second]
	if a.Item != b.Item {
		m.phase = PhasePairsMatchPending
		m.sched.After(pairsHideMs, event{kind: pairsHide})
		return
	}
	a.Matched, b.Matched = true, true
	a.Feedback, b.Feedback = FeedbackHit, FeedbackHit
	m.first, m.second = -1, -1
	m.found++
	if m.found == m.pairs {
		m.roundCleared()
	}
}

func (m *Pairs) roundCleared() {
	used := m.sched.Now() - m.roundStart
	bonus := 0
	if left := pairsBudgetMs - used; left > 0 {
		bonus = int(left/1000) * m.round
	}
	score := m.found + bonus
	final := m.round >= m.maxRounds
	r := RoundReport{Round: m.round, Score: score, Success: true, Terminal: final}
	if final {
		m.finish(r, OutcomeSuccess)
		m.phase = PhasePairsOver
		m.feedback = "Game Complete!"
		return
	}
	m.conclude(r)
	m.phase = PhasePairsSuccess
	m.feedback = "Round complete!"
	m.sched.After(pairsAdvanceMs, event{kind: pairsNext})
}

func (m *Pairs) Result() Result { return m.result() }

func (m *Pairs) View() View {
	live := 0
	if !m.IsTerminal() && m.phase != PhasePairsSuccess {
		live = m.found
	}
	v := m.view(live)
	switch m.phase {
	case PhasePairsSetup:
		v.TimeLeftMs = pairsBudgetMs
	case PhasePairsPlaying, PhasePairsMatchPending:
		v.TimeLeftMs = remaining(pairsBudgetMs, m.sched.Now()-m.roundStart)
	}
	return v
}
