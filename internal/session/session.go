// internal/session/session.go
//
// One live game driven over the wire.
// Responsibilities:
//   - Own a game.Mode and the only lock around it.
//   - Turn wall-clock time into Tick calls (the mode never reads a clock).
//   - Hand the finished game to the completion hook exactly once per game.
//
// Every public method first catches the mode up to "now", then applies the
// input, then checks for completion, all under the session mutex.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/ledger"
)

// Info is what the completion hook needs to know about the player.
// Player keys payments and daily results; Daily is the date key of a
// daily game.
type Info struct {
	ID       string          `json:"id"`
	Kind     game.Kind       `json:"mode"`
	Identity ledger.Identity `json:"identity"`
	Player   string          `json:"player"`
	Daily    string          `json:"daily,omitempty"`
	Gated    bool            `json:"gated"`
	Wager    decimal.Decimal `json:"wager"`
}

// CompleteFunc records a finished game and returns a player-facing notice.
type CompleteFunc func(info Info, res game.Result) string

// RestartFunc is consulted before "again" restarts a finished game. A
// non-nil error keeps the game finished and becomes the notice.
type RestartFunc func(info Info) error

// Snapshot is the wire state of a session.
type Snapshot struct {
	ID     string       `json:"id"`
	Mode   game.Kind    `json:"mode"`
	Daily  string       `json:"daily,omitempty"`
	View   game.View    `json:"view"`
	Result *game.Result `json:"result,omitempty"`
	Notice string       `json:"notice,omitempty"`
}

type Session struct {
	mu       sync.Mutex
	info     Info
	mode     game.Mode
	now      func() time.Time
	last     time.Time
	touched  time.Time
	recorded bool
	notice   string
	complete CompleteFunc
	restart  RestartFunc
}

// New starts mode for info. A zero info.ID gets a fresh uuid.
func New(info Info, mode game.Mode, cfg game.Config, now func() time.Time) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if err := mode.Start(cfg); err != nil {
		return nil, err
	}
	info.Kind = mode.Kind()
	t := now()
	return &Session{info: info, mode: mode, now: now, last: t, touched: t}, nil
}

func (s *Session) ID() string     { return s.info.ID }
func (s *Session) Info() Info     { return s.info }
func (s *Session) Kind() game.Kind { return s.info.Kind }

// OnComplete sets the completion hook.
func (s *Session) OnComplete(f CompleteFunc) { s.complete = f }

// OnRestart sets the restart gate.
func (s *Session) OnRestart(f RestartFunc) { s.restart = f }

// Sync advances the mode to the current time.
func (s *Session) Sync() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return s.snapshot()
}

// Input clicks the 1-based tile.
func (s *Session) Input(tile int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.mode.HandleInput(tile)
	s.settle()
	return s.snapshot()
}

// Act applies a control action.
func (s *Session) Act(a game.Action) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	if a == game.ActionAgain && s.mode.IsTerminal() {
		if s.info.Daily != "" {
			s.notice = "Daily challenge already played"
			return s.snapshot()
		}
		if s.restart != nil {
			if err := s.restart(s.info); err != nil {
				s.notice = err.Error()
				return s.snapshot()
			}
		}
	}
	s.mode.Action(a)
	s.settle()
	return s.snapshot()
}

// Idle reports how long the session has gone without a request.
func (s *Session) Idle() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.touched)
}

func (s *Session) advance() {
	t := s.now()
	s.touched = t
	if ms := t.Sub(s.last).Milliseconds(); ms > 0 {
		s.mode.Tick(ms)
		s.last = s.last.Add(time.Duration(ms) * time.Millisecond)
	}
	s.settle()
}

// settle fires the completion hook on the first update that sees a
// terminal game, and re-arms it once a restarted game is running.
func (s *Session) settle() {
	if !s.mode.IsTerminal() {
		if s.recorded {
			s.recorded = false
			s.notice = ""
		}
		return
	}
	if s.recorded {
		return
	}
	s.recorded = true
	if s.complete != nil {
		s.notice = s.complete(s.info, s.mode.Result())
	}
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:     s.info.ID,
		Mode:   s.info.Kind,
		Daily:  s.info.Daily,
		View:   s.mode.View(),
		Notice: s.notice,
	}
	if s.mode.IsTerminal() {
		r := s.mode.Result()
		snap.Result = &r
	}
	return snap
}
