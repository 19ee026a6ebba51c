// internal/game/sequence.go
//
// Sequence-Recall (Music Memory).
//
// Each round runs memorize -> deceive -> recall:
//   - memorize: the canonical item order is presented (repeated per band),
//     one tile at a time, reveal 300ms then gap 300ms. No input.
//   - deceive:  the same items in a shuffled order, same cadence. No input.
//   - recall:   every tile is clickable. A decoy or an out-of-order click
//     fails the round at once; the full order in sequence completes it.
//
// Score: 1 per correct click, plus a bonus equal to the sequence length
// when the round completes. Failure or the final round ends the game.
package game

import (
	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/pool"
	"github.com/robalobadob/memomu/internal/rng"
)

const (
	PhaseSeqReady         Phase = "ready"
	PhaseSeqMemorize      Phase = "memorize"
	PhaseSeqDeceive       Phase = "deceive"
	PhaseSeqRecall        Phase = "recall"
	PhaseSeqRoundComplete Phase = "roundComplete"
	PhaseSeqRoundFailed   Phase = "roundFailed"
	PhaseSeqOver          Phase = "over"
)

const (
	seqRounds      = 10
	seqTonalItems  = 8
	seqIntroMs     = 1000
	seqRevealMs    = 300
	seqGapMs       = 300
	seqToDeceiveMs = 500
	seqToRecallMs  = 1000
	seqAdvanceMs   = 1500
)

var seqGrid = grid.Spec{Rows: 3, Cols: 4, TileSize: 115, Gap: 28, Top: 140}

const (
	seqReveal eventKind = iota
	seqHide
	seqStartDeceive
	seqStartRecall
	seqTimeout
	seqNextRound
)

// seqItemCount is the sequence length for round n.
func seqItemCount(n int) int {
	switch {
	case n <= 1:
		return 3
	case n <= 3:
		return 4
	case n <= 7:
		return 5
	case n == 8:
		return 6
	case n == 9:
		return 7
	default:
		return 8
	}
}

// seqRepetitions is how many times the order is presented in round n.
func seqRepetitions(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 7:
		return 2
	default:
		return 3
	}
}

// seqTimeLimitMs is the recall budget for round n.
func seqTimeLimitMs(n int) int64 {
	switch {
	case n <= 3:
		return 10000
	case n <= 7:
		return 15000
	default:
		return 20000
	}
}

// Sequence is the Sequence-Recall state machine.
type Sequence struct {
	base
	pool        *pool.Pool
	sequence    []string // canonical order
	decoyOrder  []string // shuffled presentation
	playlist    []string // what is being presented right now
	byItem      map[string]int
	decoy       map[string]bool
	progressIdx int
	roundScore  int
	recallStart int64
}

func (m *Sequence) Start(cfg Config) error {
	if err := m.reset(SequenceRecall, cfg, seqRounds); err != nil {
		return err
	}
	m.pool = pool.New(m.cfg.Rand, m.cfg.Catalog.Sequence)
	return m.setupRound()
}

// setupRound draws a fresh tonal assignment and fills the 3x4 board.
func (m *Sequence) setupRound() error {
	count := seqItemCount(m.round)
	tonal, err := m.pool.Draw(seqTonalItems, true)
	if err != nil {
		return err
	}
	cues := make(map[string]int, len(tonal))
	for i, it := range tonal {
		cues[it] = i + 1
	}
	m.sequence = tonal[:count]
	m.decoyOrder = rng.Shuffle(m.cfg.Rand, m.sequence)

	decoys := m.pool.Without(tonal...)
	need := seqGrid.Tiles() - count
	if len(decoys) < need {
		return pool.ErrExhausted
	}
	items := rng.Shuffle(m.cfg.Rand, append(append([]string{}, m.sequence...), decoys[:need]...))

	m.layout(seqGrid)
	m.byItem = make(map[string]int, len(items))
	m.decoy = make(map[string]bool, need)
	for i, it := range items {
		m.tiles[i].Item = it
		m.byItem[it] = i
		if contains(m.sequence, it) {
			m.tiles[i].Cue = cues[it]
		} else {
			m.decoy[it] = true
		}
	}

	m.phase = PhaseSeqReady
	m.progressIdx = 0
	m.roundScore = 0
	m.feedback = ""
	return nil
}

func (m *Sequence) Action(a Action) {
	switch a {
	case ActionStart:
		if m.phase == PhaseSeqReady && !m.IsTerminal() {
			m.startPresentation(PhaseSeqMemorize, m.sequence)
			m.feedback = "Listen carefully and remember"
		}
	case ActionAgain:
		if m.IsTerminal() {
			_ = m.Start(m.cfg)
		}
	case ActionMenu, ActionQuit:
		m.abort(m.roundScore, PhaseSeqOver)
	}
}

func (m *Sequence) startPresentation(phase Phase, order []string) {
	m.phase = phase
	reps := seqRepetitions(m.round)
	m.playlist = make([]string, 0, len(order)*reps)
	for r := 0; r < reps; r++ {
		m.playlist = append(m.playlist, order...)
	}
	m.sched.After(seqIntroMs, event{kind: seqReveal, step: 0})
}

func (m *Sequence) Tick(elapsedMs int64) { m.sched.Advance(elapsedMs, m.fire) }

func (m *Sequence) fire(e event) {
	switch e.kind {
	case seqReveal:
		if e.step >= len(m.playlist) {
			m.hideAll()
			if m.phase == PhaseSeqMemorize {
				m.sched.After(seqToDeceiveMs, event{kind: seqStartDeceive})
			} else {
				m.sched.After(seqToRecallMs, event{kind: seqStartRecall})
			}
			return
		}
		if i, ok := m.byItem[m.playlist[e.step]]; ok {
			m.tiles[i].Highlighted = true
			m.tiles[i].Revealed = true
		}
		m.sched.After(seqRevealMs, event{kind: seqHide, step: e.step})
	case seqHide:
		m.hideAll()
		m.sched.After(seqGapMs, event{kind: seqReveal, step: e.step + 1})
	case seqStartDeceive:
		m.startPresentation(PhaseSeqDeceive, m.decoyOrder)
		m.feedback = "Don't get yourself fooled"
	case seqStartRecall:
		m.phase = PhaseSeqRecall
		m.feedback = "Now play!"
		m.playlist = nil
		for i := range m.tiles {
			m.tiles[i].Revealed = true
			m.tiles[i].Selected = false
		}
		m.recallStart = m.sched.Now()
		m.sched.After(seqTimeLimitMs(m.round), event{kind: seqTimeout})
	case seqTimeout:
		if m.phase == PhaseSeqRecall {
			m.fail("Time's up!")
		}
	case seqNextRound:
		m.round++
		if err := m.setupRound(); err != nil {
			m.fail(err.Error())
		}
	}
}

func (m *Sequence) HandleInput(idx int) {
	if m.phase != PhaseSeqRecall || m.IsTerminal() {
		return
	}
	t, ok := m.at(idx)
	if !ok || t.Selected {
		return
	}
	t.Selected = true

	if m.decoy[t.Item] {
		t.Feedback = FeedbackMiss
		m.fail("Wrong! Round ended.")
		return
	}
	if t.Item != m.sequence[m.progressIdx] {
		t.Feedback = FeedbackMiss
		m.fail("Wrong order! Round ended.")
		return
	}

	t.Feedback = FeedbackHit
	m.roundScore++
	m.progressIdx++
	if m.progressIdx == len(m.sequence) {
		m.complete()
	}
}

func (m *Sequence) complete() {
	bonus := len(m.sequence)
	m.roundScore += bonus
	final := m.round >= m.maxRounds
	r := RoundReport{Round: m.round, Score: m.roundScore, Success: true, Terminal: final, Perfect: true}
	if final {
		m.finish(r, OutcomeSuccess)
		m.phase = PhaseSeqOver
		m.feedback = "Game complete!"
		return
	}
	m.conclude(r)
	m.roundScore = 0
	m.phase = PhaseSeqRoundComplete
	m.feedback = "Perfect! Bonus points"
	m.sched.After(seqAdvanceMs, event{kind: seqNextRound})
}

func (m *Sequence) fail(msg string) {
	m.finish(RoundReport{Round: m.round, Score: m.roundScore}, OutcomeFailed)
	m.roundScore = 0
	m.phase = PhaseSeqRoundFailed
	m.feedback = msg
}

func (m *Sequence) Result() Result { return m.result() }

func (m *Sequence) View() View {
	v := m.view(m.roundScore)
	if m.phase == PhaseSeqRecall {
		v.TimeLeftMs = remaining(seqTimeLimitMs(m.round), m.sched.Now()-m.recallStart)
	}
	return v
}

// Order returns the canonical order of the current round.
func (m *Sequence) Order() []string { return append([]string(nil), m.sequence...) }

// TileOf returns the 1-based tile index holding item, or 0.
func (m *Sequence) TileOf(item string) int {
	if i, ok := m.byItem[item]; ok {
		return i + 1
	}
	return 0
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
