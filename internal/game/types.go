// internal/game/types.go
//
// Core type definitions shared by the five game modes.
// Defines:
//   - Kind: the tagged union of modes (wire names match the leaderboard keys).
//   - Tile: geometry plus per-tile transient flags.
//   - RoundReport / Result: what a mode hands to scoring and the ledger.
//   - View: the snapshot a render sink paints.
//   - Config: everything a mode needs to start.

package game

import (
	"fmt"

	"github.com/robalobadob/memomu/internal/catalog"
	"github.com/robalobadob/memomu/internal/grid"
	"github.com/robalobadob/memomu/internal/rng"
)

// Kind names a game mode.
type Kind string

const (
	SequenceRecall Kind = "musicMemory"
	PairMatching   Kind = "memoryClassic"
	FlashRecall    Kind = "memoryMemomu"
	HiddenObject   Kind = "monluck"
	Duel           Kind = "battle"
)

// Kinds lists every mode in menu order.
func Kinds() []Kind {
	return []Kind{SequenceRecall, PairMatching, FlashRecall, HiddenObject, Duel}
}

// ParseKind validates a wire name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Phase is a mode-specific state name.
type Phase string

// Action is a named control input.
type Action string

const (
	ActionStart Action = "start"
	ActionMenu  Action = "menu"
	ActionQuit  Action = "quit"
	ActionAgain Action = "again"
)

// ParseAction validates a wire action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionStart, ActionMenu, ActionQuit, ActionAgain:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Feedback colors a tile after it was clicked.
type Feedback string

const (
	FeedbackNone Feedback = ""
	FeedbackHit  Feedback = "hit"
	FeedbackMiss Feedback = "miss"
)

// Outcome is the coarse result of a game.
type Outcome string

const (
	OutcomePlaying Outcome = "playing"
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
	OutcomeDraw    Outcome = "draw"
	OutcomeAborted Outcome = "aborted"
)

// Tile is one board cell. Item is "" for an empty cell.
type Tile struct {
	grid.Cell
	Item        string   `json:"item,omitempty"`
	Cue         int      `json:"cue,omitempty"` // sequence mode: note played for this item
	Revealed    bool     `json:"revealed"`
	Selected    bool     `json:"selected,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
	Matched     bool     `json:"matched,omitempty"`
	Feedback    Feedback `json:"feedback,omitempty"`
}

// RoundReport is emitted exactly once per concluded round.
type RoundReport struct {
	Round    int  `json:"round"`
	Score    int  `json:"score"`
	Success  bool `json:"success"`
	Terminal bool `json:"terminal"`
	Perfect  bool `json:"perfect,omitempty"`
}

// Result summarizes a game. Hidden-object and duel fill their extras.
type Result struct {
	Kind          Kind          `json:"kind"`
	Score         int           `json:"score"`
	Outcome       Outcome       `json:"outcome"`
	Rounds        []RoundReport `json:"rounds"`
	Found         int           `json:"found,omitempty"`
	Streak        int           `json:"streak,omitempty"`
	BestStreak    int           `json:"bestStreak,omitempty"`
	OpponentScore int           `json:"opponentScore,omitempty"`
}

// DuelView carries the second board and the running totals.
type DuelView struct {
	Player        string `json:"player"`
	Opponent      string `json:"opponent"`
	PlayerScore   int    `json:"playerScore"`
	OpponentScore int    `json:"opponentScore"`
	Targets       int    `json:"targets"`
	OpponentTiles []Tile `json:"opponentTiles"`
	LastResult    string `json:"lastResult,omitempty"`
}

// View is what the render sink observes after each update.
type View struct {
	Kind         Kind      `json:"kind"`
	Phase        Phase     `json:"phase"`
	Round        int       `json:"round"`
	MaxRounds    int       `json:"maxRounds"`
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback,omitempty"`
	TimeLeftMs   int64     `json:"timeLeftMs,omitempty"`
	AttemptsLeft int       `json:"attemptsLeft,omitempty"`
	Tiles        []Tile    `json:"tiles"`
	Duel         *DuelView `json:"duel,omitempty"`
	Terminal     bool      `json:"terminal"`
	Outcome      Outcome   `json:"outcome"`
}

// Config is passed to Start. Nil fields get defaults.
type Config struct {
	Rand    rng.Source
	Catalog *catalog.Catalog
	Width   float64 // canvas width used for layout
	Avatar  int     // duel: index of the player's avatar
}

func (c Config) normalized() (Config, error) {
	if c.Rand == nil {
		c.Rand = rng.NewTimeSeeded()
	}
	if c.Catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return c, err
		}
		c.Catalog = cat
	}
	if c.Width <= 0 {
		c.Width = grid.DefaultWidth
	}
	return c, nil
}
