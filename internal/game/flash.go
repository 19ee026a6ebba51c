// internal/game/flash.go
//
// Flash-Recall (MEMOMU Memory).
//
// Round n flashes n target tiles at once, hides them, then the player has
// n+1 clicks to find them all. Rounds 1-10 play on a 5x6 board, 11-20 on a
// 7x7 board with a longer flash and a larger time budget.
//
// Round end:
//   - all found with exactly n clicks: n + floor(seconds left) points.
//   - all found with extra clicks:     0 points, round still advances.
//   - click budget spent, wrong-click limit hit, or time out:
//     1 point per target found and the game ends.
package game

import (
	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/pool"
	"github.com/robalobadob/memomu/internal/rng"
)

const (
	PhaseFlashReady Phase = "ready"
	PhaseFlashShow  Phase = "show"
	PhaseFlashGuess Phase = "guess"
	PhaseFlashDone  Phase = "done"
	PhaseFlashOver  Phase = "over"
)

const (
	flashRounds    = 20
	flashAdvanceMs = 2000
	flashLeadInMs  = 900
)

var (
	flashSmall = grid.Spec{Rows: 5, Cols: 6, TileSize: 85, Gap: 10, Top: 125}
	flashLarge = grid.Spec{Rows: 7, Cols: 7, TileSize: 70, Gap: 8, Top: 100}
)

const (
	flashShow eventKind = iota
	flashHide
	flashTimeout
	flashNext
)

// flashTimeLimitMs is the guess budget for round n.
func flashTimeLimitMs(n int) int64 {
	secs := n + 2*(n-1)
	switch {
	case n <= 1:
		secs = 3
	case n > 10:
		secs += 2 + (n - 11)
	}
	return int64(secs) * 1000
}

func flashShowMs(n int) int64 {
	if n > 10 {
		return 1500
	}
	return 1200
}

func flashWrongLimit(n int) int {
	if n > 10 {
		return 3
	}
	return 2
}

// Flash is the Flash-Recall state machine.
type Flash struct {
	base
	images     *pool.Pool
	targets    map[int]bool // 0-based tile indices
	found      int
	clicks     int
	wrong      int
	guessStart int64
}

func (m *Flash) Start(cfg Config) error {
	if err := m.reset(FlashRecall, cfg, flashRounds); err != nil {
		return err
	}
	m.images = pool.New(m.cfg.Rand, m.cfg.Catalog.Flash)
	return m.setupRound()
}

func (m *Flash) setupRound() error {
	spec, items, err := m.drawBoard()
	if err != nil {
		return err
	}
	m.layout(spec)
	for i := range m.tiles {
		m.tiles[i].Item = items[i]
	}
	m.targets = make(map[int]bool, m.round)
	for _, i := range rng.Sample(m.cfg.Rand, len(m.tiles), m.round) {
		m.targets[i] = true
	}
	m.found, m.clicks, m.wrong = 0, 0, 0
	m.phase = PhaseFlashReady
	m.feedback = ""
	return nil
}

func (m *Flash) drawBoard() (grid.Spec, []string, error) {
	if m.round > 10 {
		items, err := m.images.Draw(flashLarge.Tiles(), false)
		return flashLarge, items, err
	}
	items, err := m.images.Draw(flashSmall.Tiles(), true)
	return flashSmall, items, err
}

func (m *Flash) Action(a Action) {
	switch a {
	case ActionStart:
		if m.phase == PhaseFlashReady && !m.IsTerminal() {
			m.sched.Invalidate()
			m.show()
		}
	case ActionAgain:
		if m.IsTerminal() {
			_ = m.Start(m.cfg)
		}
	case ActionMenu, ActionQuit:
		m.abort(m.found, PhaseFlashOver)
	}
}

func (m *Flash) show() {
	m.phase = PhaseFlashShow
	for i := range m.tiles {
		m.tiles[i].Revealed = m.targets[i]
		m.tiles[i].Feedback = FeedbackNone
	}
	m.sched.After(flashShowMs(m.round), event{kind: flashHide})
}

func (m *Flash) Tick(elapsedMs int64) { m.sched.Advance(elapsedMs, m.fire) }

func (m *Flash) fire(e event) {
	switch e.kind {
	case flashShow:
		if m.phase == PhaseFlashReady {
			m.show()
		}
	case flashHide:
		m.hideAll()
		m.phase = PhaseFlashGuess
		m.guessStart = m.sched.Now()
		m.sched.After(flashTimeLimitMs(m.round), event{kind: flashTimeout})
	case flashTimeout:
		if m.phase == PhaseFlashGuess {
			m.fail("Time's up!")
		}
	case flashNext:
		m.round++
		if err := m.setupRound(); err != nil {
			m.fail(err.Error())
			return
		}
		m.sched.After(flashLeadInMs, event{kind: flashShow})
	}
}

func (m *Flash) HandleInput(idx int) {
	if m.phase != PhaseFlashGuess || m.IsTerminal() {
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
		m.wrong++
		t.Feedback = FeedbackMiss
	}

	n := len(m.targets)
	switch {
	case m.found == n:
		m.cleared()
	case m.clicks >= n+1:
		m.fail("Out of clicks!")
	case m.wrong >= flashWrongLimit(m.round):
		m.fail("Too many wrong clicks!")
	}
}

func (m *Flash) cleared() {
	n := len(m.targets)
	perfect := m.clicks == n
	score := 0
	if perfect {
		left := remaining(flashTimeLimitMs(m.round), m.sched.Now()-m.guessStart)
		score = m.round + int(left/1000)
		m.feedback = "Perfect!"
	} else {
		m.feedback = "Complete! Extra clicks used, no bonus."
	}
	final := m.round >= m.maxRounds
	r := RoundReport{Round: m.round, Score: score, Success: true, Terminal: final, Perfect: perfect}
	if final {
		m.finish(r, OutcomeSuccess)
		m.phase = PhaseFlashOver
		return
	}
	m.conclude(r)
	m.phase = PhaseFlashDone
	m.sched.After(flashAdvanceMs, event{kind: flashNext})
}

func (m *Flash) fail(msg string) {
	m.finish(RoundReport{Round: m.round, Score: m.found}, OutcomeFailed)
	m.phase = PhaseFlashOver
	m.feedback = msg
}

func (m *Flash) Result() Result {
	r := m.result()
	r.Found = m.found
	return r
}

func (m *Flash) View() View {
	live := 0
	if m.phase == PhaseFlashGuess {
		live = m.found
	}
	v := m.view(live)
	if m.phase == PhaseFlashGuess {
		v.TimeLeftMs = remaining(flashTimeLimitMs(m.round), m.sched.Now()-m.guessStart)
		v.AttemptsLeft = len(m.targets) + 1 - m.clicks
	}
	return v
}

// Targets returns the 1-based indices flashed this round, in board order.
func (m *Flash) Targets() []int {
	out := make([]int, 0, len(m.targets))
	for i := range m.tiles {
		if m.targets[i] {
			out = append(out, i+1)
		}
	}
	return out
}
