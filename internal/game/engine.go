// internal/game/engine.go
//
// Shared state-machine machinery for every mode.
// Responsibilities:
//   - Mode: the contract the session layer drives (start, input, tick).
//   - New: dispatch from Kind to a concrete mode.
//   - base: timer scheduler, progression controller and tile bookkeeping
//     embedded by every mode.
//
// Notes:
//   - Modes never read the wall clock; time only moves through Tick.
//   - Tile indices on the wire are 1-based, as produced by grid.Layout.
//   - Clicks outside the board, on resolved tiles, or during a phase that
//     does not accept input are ignored without mutating state.
package game

import (
	"fmt"

	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/timer"
)

// Mode is a single mini-game state machine.
type Mode interface {
	Kind() Kind
	Start(cfg Config) error
	HandleInput(tile int)
	Action(a Action)
	Tick(elapsedMs int64)
	IsTerminal() bool
	Result() Result
	View() View
}

// New constructs an unstarted mode for k.
func New(k Kind) (Mode, error) {
	switch k {
	case SequenceRecall:
		return &Sequence{}, nil
	case PairMatching:
		return &Pairs{}, nil
	case FlashRecall:
		return &Flash{}, nil
	case HiddenObject:
		return &Hidden{}, nil
	case Duel:
		return &DuelMode{}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", k)
	}
}

type eventKind int

// event is what modes schedule on their timer.
type event struct {
	kind eventKind
	step int
}

// base is embedded by every mode.
type base struct {
	kind      Kind
	cfg       Config
	sched     timer.Scheduler[event]
	progress  Progress
	phase     Phase
	round     int
	maxRounds int
	feedback  string
	outcome   Outcome
	tiles     []Tile
}

func (b *base) Kind() Kind { return b.kind }

// IsTerminal is true once the terminal round report was accepted.
func (b *base) IsTerminal() bool { return b.progress.Finished() }

// reset prepares b for a fresh game with cfg.
func (b *base) reset(kind Kind, cfg Config, maxRounds int) error {
	cfg, err := cfg.normalized()
	if err != nil {
		return err
	}
	b.kind = kind
	b.cfg = cfg
	b.sched.Reset()
	b.progress.Reset()
	b.round = 1
	b.maxRounds = maxRounds
	b.feedback = ""
	b.outcome = OutcomePlaying
	b.tiles = nil
	return nil
}

// layout replaces the board with empty tiles for spec.
func (b *base) layout(spec grid.Spec) {
	cells := grid.Layout(b.cfg.Width, spec)
	b.tiles = make([]Tile, len(cells))
	for i, c := range cells {
		b.tiles[i] = Tile{Cell: c}
	}
}

// at maps a 1-based wire index to a tile.
func (b *base) at(idx int) (*Tile, bool) {
	if idx < 1 || idx > len(b.tiles) {
		return nil, false
	}
	return &b.tiles[idx-1], true
}

// conclude cancels pending timers and reports the round.
func (b *base) conclude(r RoundReport) bool {
	b.sched.Invalidate()
	return b.progress.Report(r)
}

// finish reports a terminal round and records the outcome.
func (b *base) finish(r RoundReport, outcome Outcome) {
	r.Terminal = true
	if b.conclude(r) {
		b.outcome = outcome
	}
}

// abort ends the game from a menu/quit action, crediting partial.
func (b *base) abort(partial int, phase Phase) {
	if b.IsTerminal() {
		return
	}
	if b.progress.LastRound() >= b.round {
		// between rounds: the current round was already counted
		b.sched.Invalidate()
		b.progress.Close()
		b.outcome = OutcomeAborted
	} else {
		b.finish(RoundReport{Round: b.round, Score: partial}, OutcomeAborted)
	}
	b.phase = phase
	b.feedback = "Game aborted"
}

// hideAll clears transient flags without touching matched state.
func (b *base) hideAll() {
	for i := range b.tiles {
		b.tiles[i].Revealed = false
		b.tiles[i].Highlighted = false
	}
}

func (b *base) result() Result {
	return Result{
		Kind:    b.kind,
		Score:   b.progress.Total(),
		Outcome: b.outcome,
		Rounds:  b.progress.Reports(),
	}
}

// view copies the board; unrevealed items stay hidden from the client.
func (b *base) view(live int) View {
	return View{
		Kind:      b.kind,
		Phase:     b.phase,
		Round:     b.round,
		MaxRounds: b.maxRounds,
		Score:     b.progress.Total() + live,
		Feedback:  b.feedback,
		Tiles:     visible(b.tiles),
		Terminal:  b.IsTerminal(),
		Outcome:   b.outcome,
	}
}

func visible(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		if !t.Revealed && !t.Matched {
			t.Item = ""
			t.Cue = 0
		}
		out[i] = t
	}
	return out
}

func remaining(limitMs, elapsedMs int64) int64 {
	if left := limitMs - elapsedMs; left > 0 {
		return left
	}
	return 0
}
