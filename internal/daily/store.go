package daily

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalobadob/memomu/internal/game"
)

// ErrAlreadyPlayed is returned when a result for the day already exists.
var ErrAlreadyPlayed = errors.New("daily: already played today")

// Result is one finished daily game.
type Result struct {
	Player string    `json:"player"`
	Mode   game.Kind `json:"mode"`
	Date   string    `json:"date"`
	Score  int       `json:"score"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether player has a result for mode on date.
func (s *Store) AlreadyPlayed(ctx context.Context, player string, mode game.Kind, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player=? AND mode=? AND date=?`,
		player, string(mode), date,
	).Scan(&cnt)
	return cnt > 0, err
}

// Insert records r once. A second result for the same day is rejected
// with ErrAlreadyPlayed and the first one is kept.
func (s *Store) Insert(ctx context.Context, r Result) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player, mode, date, score) VALUES (?,?,?,?)`,
		r.Player, string(r.Mode), r.Date, r.Score,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyPlayed
	}
	return nil
}

// Leaderboard returns the best results for mode on date.
func (s *Store) Leaderboard(ctx context.Context, mode game.Kind, date string, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, score
		   FROM daily_results
		  WHERE mode=? AND date=?
		  ORDER BY score DESC, created_at ASC
		  LIMIT ?`, string(mode), date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		r := Result{Mode: mode, Date: date}
		if err := rows.Scan(&r.Player, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
