// internal/leaderboard/store.go
//
// Remote-style leaderboard store for the score modes.
// Responsibilities:
//   - Store: the contract the completion recorder writes scores through.
//   - SQLStore: sqlite implementation over the scores table.
//
// Rows are kept forever; ranking happens at read time with the same
// ordering the local ledger uses (score desc, earlier first).

package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/ledger"
)

// Store persists named high scores.
type Store interface {
	SaveScore(ctx context.Context, kind game.Kind, score int, id ledger.Identity) error
	HighScores(ctx context.Context, kind game.Kind, limit int) ([]ledger.Entry, error)
}

// SQLStore implements Store on a migrated sqlite database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore wraps db. The scores table must exist.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// SaveScore inserts one row.
func (s *SQLStore) SaveScore(ctx context.Context, kind game.Kind, score int, id ledger.Identity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores(mode, score, name, wallet_id, created_at) VALUES (?,?,?,?,?)`,
		string(kind), score, id.Name, nullable(id.WalletID), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// HighScores returns the best limit rows for kind. limit <= 0 means
// ledger.MaxEntries.
func (s *SQLStore) HighScores(ctx context.Context, kind game.Kind, limit int) ([]ledger.Entry, error) {
	if limit <= 0 {
		limit = ledger.MaxEntries
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, name, COALESCE(wallet_id, ''), created_at
		   FROM scores
		  WHERE mode = ?
		  ORDER BY score DESC, created_at ASC, id ASC
		  LIMIT ?`, string(kind), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	out := []ledger.Entry{}
	for rows.Next() {
		var (
			e  ledger.Entry
			ts string
		)
		if err := rows.Scan(&e.Score, &e.Name, &e.WalletID, &ts); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
