// internal/game/duel.go
//
// Duel (Battle): the player races a simulated opponent over 5 rounds.
//
// Timeline:
//   countdown 3000ms -> per round { flash 900ms -> click -> result 1600ms }
//
// Each round draws k in 1..5 avatar targets, placed independently on the
// player's and the opponent's 4x4 board. The opponent's move is sampled
// when the round starts (SampleOpponent) and the round resolves when its
// sampled time elapses, with whatever the player clicked by then.
// From the third round on, the non-target tiles are filled with decoys.
package game

import (
	"fmt"
	"sort"

	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/pool"
	"github.com/robalobadob/memomu/internal/rng"
)

const (
	PhaseDuelCountdown Phase = "countdown"
	PhaseDuelFlash     Phase = "flash"
	PhaseDuelClick     Phase = "click"
	PhaseDuelResult    Phase = "result"
	PhaseDuelEnd       Phase = "end"
)

const (
	duelRounds      = 5
	duelMaxTargets  = 5
	duelCountdownMs = 3000
	duelFlashMs     = 900
	duelResultMs    = 1600
	duelDecoyRound  = 3
	// ForfeitScore is credited to the opponent when the player quits.
	ForfeitScore = 99
)

var duelGrid = grid.Spec{Rows: 4, Cols: 4, TileSize: 67, Gap: 13, Top: 260}

const (
	duelBegin eventKind = iota
	duelClickPhase
	duelResolve
	duelNext
)

// Move is the opponent's pre-sampled round: which tiles and how long.
type Move struct {
	Targets []int // 1-based
	TotalMs int64
}

// SampleOpponent draws the opponent's completion time for a round with
// targets: uniform [0.5,1.1)s per tile plus uniform [0,1)s of jitter.
func SampleOpponent(src rng.Source, targets []int) Move {
	perTile := rng.Uniform(src, 0.5, 1.1)
	jitter := rng.Uniform(src, 0, 1)
	secs := perTile*float64(len(targets)) + jitter
	return Move{
		Targets: append([]int(nil), targets...),
		TotalMs: int64(secs * 1000),
	}
}

// RoundOutcome names how a duel round resolved.
type RoundOutcome string

const (
	RoundLost       RoundOutcome = "lost"
	RoundWon        RoundOutcome = "won"
	RoundFinished   RoundOutcome = "finished"
	RoundIncomplete RoundOutcome = "incomplete"
)

// Resolve scores one duel round. playerMs is the time at which the player's
// clicks first equaled the target set, or a negative value if they never did.
//
// A correct but incomplete selection scores 0-0.
func Resolve(targets, clicks []int, playerMs, opponentMs int64) (player, opponent int, out RoundOutcome) {
	want := make(map[int]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	k := len(targets)
	hits, wrong := 0, false
	for _, c := range clicks {
		if want[c] {
			hits++
		} else {
			wrong = true
		}
	}
	exact := !wrong && hits == k
	switch {
	case wrong:
		return hits, k + 1, RoundLost
	case exact && playerMs >= 0 && playerMs < opponentMs:
		return k + 2, k, RoundWon
	case exact:
		return k, k + 1, RoundFinished
	default:
		return 0, 0, RoundIncomplete
	}
}

type duelBoard struct {
	tiles   []Tile
	targets []int // 1-based, sorted
}

func (b *duelBoard) isTarget(idx int) bool {
	i := sort.SearchInts(b.targets, idx)
	return i < len(b.targets) && b.targets[i] == idx
}

// DuelMode is the Duel state machine.
type DuelMode struct {
	base
	decoys     *pool.Pool
	player     int
	opponent   int
	opp        duelBoard
	mine       duelBoard
	clicks     []int
	locked     bool
	completeAt int64
	clickStart int64
	move       Move
	pscore     int
	oscore     int
	lastResult string
}

func (m *DuelMode) Start(cfg Config) error {
	if err := m.reset(Duel, cfg, duelRounds); err != nil {
		return err
	}
	avatars := len(m.cfg.Catalog.Duel.Avatars)
	m.player = m.cfg.Avatar
	if m.player < 0 || m.player >= avatars {
		m.player = 0
	}
	m.opponent = m.cfg.Rand.Intn(avatars - 1)
	if m.opponent >= m.player {
		m.opponent++
	}
	m.decoys = pool.New(m.cfg.Rand, m.cfg.Catalog.Duel.Decoys)
	m.pscore, m.oscore = 0, 0
	m.lastResult = ""
	m.mine, m.opp = duelBoard{}, duelBoard{}
	m.phase = PhaseDuelCountdown
	m.sched.After(duelCountdownMs, event{kind: duelBegin})
	return nil
}

// Opponent returns the index of the sampled opponent avatar.
func (m *DuelMode) Opponent() int { return m.opponent }

func (m *DuelMode) Action(a Action) {
	switch a {
	case ActionAgain:
		if m.IsTerminal() {
			_ = m.Start(m.cfg)
		}
	case ActionMenu, ActionQuit:
		m.forfeit()
	}
}

// forfeit ends the match at once: player 0, opponent 99.
func (m *DuelMode) forfeit() {
	if m.IsTerminal() {
		return
	}
	m.sched.Invalidate()
	if m.progress.LastRound() >= m.round {
		m.progress.Close()
	} else {
		m.progress.Report(RoundReport{Round: m.round, Terminal: true})
	}
	m.pscore, m.oscore = 0, ForfeitScore
	m.outcome = OutcomeLost
	m.phase = PhaseDuelEnd
	m.feedback = "Forfeit"
}

func (m *DuelMode) Tick(elapsedMs int64) { m.sched.Advance(elapsedMs, m.fire) }

func (m *DuelMode) fire(e event) {
	switch e.kind {
	case duelBegin:
		if err := m.prepareRound(); err != nil {
			m.forfeit()
			m.feedback = err.Error()
		}
	case duelClickPhase:
		for i := range m.mine.tiles {
			m.mine.tiles[i].Revealed = false
		}
		for i := range m.opp.tiles {
			m.opp.tiles[i].Revealed = false
		}
		m.phase = PhaseDuelClick
		m.clickStart = m.sched.Now()
		m.sched.After(m.move.TotalMs, event{kind: duelResolve})
	case duelResolve:
		m.resolve()
	case duelNext:
		if m.round >= m.maxRounds {
			m.end()
			return
		}
		m.round++
		if err := m.prepareRound(); err != nil {
			m.forfeit()
			m.feedback = err.Error()
		}
	}
}

func (m *DuelMode) prepareRound() error {
	k := rng.IntBetween(m.cfg.Rand, 1, duelMaxTargets)
	cat := m.cfg.Catalog.Duel
	var err error
	m.mine, err = m.board(cat.Avatars[m.player].ID, k, 0)
	if err != nil {
		return err
	}
	m.opp, err = m.board(cat.Avatars[m.opponent].ID, k, m.cfg.Width/2)
	if err != nil {
		return err
	}
	m.move = SampleOpponent(m.cfg.Rand, m.opp.targets)
	m.clicks = m.clicks[:0]
	m.locked = false
	m.completeAt = -1
	m.lastResult = ""
	m.phase = PhaseDuelFlash
	m.sched.After(duelFlashMs, event{kind: duelClickPhase})
	return nil
}

// board places k avatar tiles on a fresh 4x4 grid shifted right by dx.
func (m *DuelMode) board(avatar string, k int, dx float64) (duelBoard, error) {
	cells := grid.Layout(m.cfg.Width/2, duelGrid)
	picks := rng.Sample(m.cfg.Rand, len(cells), k)
	isTarget := make(map[int]bool, k)
	b := duelBoard{tiles: make([]Tile, len(cells))}
	for _, i := range picks {
		isTarget[i] = true
		b.targets = append(b.targets, i+1)
	}
	sort.Ints(b.targets)

	var fill []string
	if m.round >= duelDecoyRound {
		need := len(cells) - k
		if m.decoys.Size() == 0 {
			return b, fmt.Errorf("duel decoys: %w", pool.ErrExhausted)
		}
		for len(fill) < need {
			fill = append(fill, m.decoys.Without()...)
		}
	}
	next := 0
	for i, c := range cells {
		c.X += dx
		t := Tile{Cell: c, Revealed: isTarget[i]}
		if isTarget[i] {
			t.Item = avatar
		} else if fill != nil {
			t.Item = fill[next]
			next++
		}
		b.tiles[i] = t
	}
	return b, nil
}

func (m *DuelMode) HandleInput(idx int) {
	if m.phase != PhaseDuelClick || m.locked || m.IsTerminal() {
		return
	}
	if idx < 1 || idx > len(m.mine.tiles) {
		return
	}
	t := &m.mine.tiles[idx-1]
	if t.Selected {
		return
	}
	t.Selected = true
	t.Revealed = true
	m.clicks = append(m.clicks, idx)
	if !m.mine.isTarget(idx) {
		t.Feedback = FeedbackMiss
		m.locked = true // one mistake ends the player's round
		return
	}
	t.Feedback = FeedbackHit
	if len(m.clicks) == len(m.mine.targets) {
		m.completeAt = m.sched.Now() - m.clickStart
	}
}

func (m *DuelMode) resolve() {
	p, o, out := Resolve(m.mine.targets, m.clicks, m.completeAt, m.move.TotalMs)
	m.pscore += p
	m.oscore += o
	switch out {
	case RoundLost:
		m.lastResult = fmt.Sprintf("YOU LOSE ROUND! You got %d pts, Opponent %d pts", p, o)
	case RoundWon:
		m.lastResult = fmt.Sprintf("YOU WIN ROUND! %d pts +1 speed +1 win", len(m.mine.targets))
	case RoundFinished:
		m.lastResult = fmt.Sprintf("YOU FINISHED! %d pts", p)
	default:
		m.lastResult = "TOO SLOW! No points"
	}
	for i := range m.mine.tiles {
		m.mine.tiles[i].Revealed = true
	}
	for i := range m.opp.tiles {
		m.opp.tiles[i].Revealed = true
		if m.opp.isTarget(i + 1) {
			m.opp.tiles[i].Feedback = FeedbackHit
		}
	}
	final := m.round >= m.maxRounds
	m.progress.Report(RoundReport{
		Round:    m.round,
		Score:    p,
		Success:  out == RoundWon || out == RoundFinished,
		Terminal: final,
	})
	m.phase = PhaseDuelResult
	m.feedback = m.lastResult
	if final {
		m.settle()
	}
	// the last round's result stays on screen before the end phase
	m.sched.After(duelResultMs, event{kind: duelNext})
}

func (m *DuelMode) settle() {
	switch {
	case m.pscore > m.oscore:
		m.outcome = OutcomeWon
	case m.pscore < m.oscore:
		m.outcome = OutcomeLost
	default:
		m.outcome = OutcomeDraw
	}
}

func (m *DuelMode) end() {
	m.phase = PhaseDuelEnd
	switch m.outcome {
	case OutcomeWon:
		m.feedback = "YOU WIN!"
	case OutcomeLost:
		m.feedback = "YOU LOSE!"
	default:
		m.feedback = "DRAW!"
	}
}

func (m *DuelMode) Result() Result {
	r := m.result()
	r.Score = m.pscore
	r.OpponentScore = m.oscore
	return r
}

func (m *DuelMode) View() View {
	v := m.view(0)
	v.Score = m.pscore
	v.Tiles = visible(m.mine.tiles)
	v.Duel = &DuelView{
		Player:        m.cfg.Catalog.AvatarName(m.player),
		Opponent:      m.cfg.Catalog.AvatarName(m.opponent),
		PlayerScore:   m.pscore,
		OpponentScore: m.oscore,
		Targets:       len(m.mine.targets),
		OpponentTiles: visible(m.opp.tiles),
		LastResult:    m.lastResult,
	}
	if m.phase == PhaseDuelClick {
		v.TimeLeftMs = remaining(m.move.TotalMs, m.sched.Now()-m.clickStart)
	}
	return v
}
