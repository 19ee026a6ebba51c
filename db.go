// db.go
//
// Boot-time storage: open the sqlite file, apply the embedded migrations and
// bring the last ledger snapshot back into memory.

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memomu/internal/database"
	"github.com/robalobadob/memomu/internal/leaderboard"
	"github.com/robalobadob/memomu/internal/ledger"
)

func openStorage(ctx context.Context, path string, l *ledger.Ledger) (*sql.DB, *leaderboard.SnapshotStore, error) {
	db, err := database.OpenMigrated(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	snaps := leaderboard.NewSnapshotStore(db)
	n, err := snaps.Restore(ctx, l)
	if err != nil {
		// a bad snapshot costs history, not uptime
		log.Warn().Err(err).Msg("ledger snapshot not restored")
	} else {
		log.Info().Int("records", n).Msg("ledger restored")
	}
	return db, snaps, nil
}
