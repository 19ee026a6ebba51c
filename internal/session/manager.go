package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/catalog"
	"github.com/robalobadob/memomu/internal/daily"
	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/ledger"
	"github.com/robalobadob/memomu/internal/payments"
	"github.com/robalobadob/memomu/internal/rng"
)

var ErrAlreadyPlayed = errors.New("daily challenge already played")

// Options describe a session to create.
type Options struct {
	Kind     game.Kind
	Identity ledger.Identity
	Player   string
	Daily    bool
	Avatar   int
	BuyIn    decimal.Decimal
	Wager    decimal.Decimal
}

// Manager creates sessions and wires each one to the recorder and the
// payments adapter.
type Manager struct {
	Store     Store
	Recorder  *Recorder
	Payments  payments.Adapter
	Catalog   *catalog.Catalog
	Daily     *daily.Store
	DailySalt string
	Gated     bool
	Width     float64
	Now       func() time.Time
	// Seed, when set, seeds every non-daily session. Tests use it.
	Seed func() int64
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Manager) adapter() payments.Adapter {
	if m.Payments == nil || !m.Gated {
		return payments.Free{}
	}
	return m.Payments
}

// Create starts a session for opts and saves it.
func (m *Manager) Create(ctx context.Context, opts Options) (*Session, error) {
	mode, err := game.New(opts.Kind)
	if err != nil {
		return nil, err
	}
	info := Info{
		Kind:     opts.Kind,
		Identity: opts.Identity,
		Player:   opts.Player,
		Gated:    m.Gated,
		Wager:    opts.Wager,
	}

	var src rng.Source
	switch {
	case opts.Daily:
		t := m.now()
		info.Daily = daily.DateKey(t)
		if m.Daily != nil && opts.Player != "" {
			played, err := m.Daily.AlreadyPlayed(ctx, opts.Player, opts.Kind, info.Daily)
			if err != nil {
				return nil, fmt.Errorf("daily lookup: %w", err)
			}
			if played {
				return nil, ErrAlreadyPlayed
			}
		}
		src = rng.New(daily.Seed(t, opts.Kind, m.DailySalt))
	case m.Seed != nil:
		src = rng.New(m.Seed())
	}

	if opts.Kind == game.HiddenObject && !opts.Wager.IsZero() {
		if err := payments.ValidWager(opts.Wager); err != nil {
			return nil, fmt.Errorf("wager: %w", err)
		}
	}

	if m.Gated && payments.Gated(opts.Kind) {
		amount := opts.BuyIn
		if opts.Kind == game.Duel {
			amount = payments.BattleBuyIn
		}
		if err := m.adapter().BuyIn(ctx, opts.Player, opts.Kind, amount); err != nil {
			return nil, fmt.Errorf("buy-in: %w", err)
		}
		info.Wager = amount
	}

	cfg := game.Config{Rand: src, Catalog: m.Catalog, Width: m.Width, Avatar: opts.Avatar}
	s, err := New(info, mode, cfg, m.Now)
	if err != nil {
		return nil, err
	}
	if m.Recorder != nil {
		s.OnComplete(m.Recorder.Complete)
	}
	if m.Gated && payments.Gated(opts.Kind) {
		amount := info.Wager
		s.OnRestart(func(info Info) error {
			return m.adapter().BuyIn(context.Background(), info.Player, info.Kind, amount)
		})
	}
	if err := m.Store.Save(ctx, s); err != nil {
		return nil, err
	}
	log.Info().Str("session", s.ID()).Str("mode", string(opts.Kind)).Bool("daily", opts.Daily).Msg("session created")
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.Store.Get(ctx, id)
}

// Janitor sweeps idle sessions every interval until ctx is done.
func (m *Manager) Janitor(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Store.Sweep(ctx, maxIdle); n > 0 {
				log.Debug().Int("swept", n).Msg("idle sessions removed")
			}
		}
	}
}
