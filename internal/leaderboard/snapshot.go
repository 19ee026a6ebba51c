package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/memomu/internal/ledger"
)

// SnapshotStore keeps the whole local ledger in ledger_records so it
// survives restarts.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore { return &SnapshotStore{db: db} }

// Save replaces the stored snapshot with records in one transaction.
func (s *SnapshotStore) Save(ctx context.Context, records []ledger.Flat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_records`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear snapshot: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ledger_records(type, score, five_count, four_count, win_count, best_streak, name, wallet_id, timestamp)
		 VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Type, r.Score, r.FiveCount, r.FourCount, r.WinCount, r.BestStreak,
			nullable(r.Name), nullable(r.WalletID), r.Timestamp.UTC().Format(time.RFC3339Nano),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the stored snapshot in insertion order.
func (s *SnapshotStore) Load(ctx context.Context) ([]ledger.Flat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, score, five_count, four_count, win_count, best_streak,
		        COALESCE(name, ''), COALESCE(wallet_id, ''), timestamp
		   FROM ledger_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	defer rows.Close()

	var out []ledger.Flat
	for rows.Next() {
		var (
			r  ledger.Flat
			ts string
		)
		if err := rows.Scan(&r.Type, &r.Score, &r.FiveCount, &r.FourCount, &r.WinCount,
			&r.BestStreak, &r.Name, &r.WalletID, &ts); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Restore loads the snapshot into l. An empty snapshot leaves l untouched.
func (s *SnapshotStore) Restore(ctx context.Context, l *ledger.Ledger) (int, error) {
	records, err := s.Load(ctx)
	if err != nil || len(records) == 0 {
		return 0, err
	}
	if err := l.Import(records); err != nil {
		return 0, err
	}
	return len(records), nil
}
