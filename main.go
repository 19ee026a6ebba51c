package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memomu/internal/catalog"
	"github.com/robalobadob/memomu/internal/daily"
	"github.com/robalobadob/memomu/internal/httpserver"
	"github.com/robalobadob/memomu/internal/leaderboard"
	"github.com/robalobadob/memomu/internal/ledger"
	"github.com/robalobadob/memomu/internal/payments"
	"github.com/robalobadob/memomu/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	local := ledger.New(nil)
	db, snaps, err := openStorage(ctx, cfg.DBPath, local)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	scores := leaderboard.NewFallback(leaderboard.NewSQLStore(db), local)
	dailyStore := daily.NewStore(db)

	var (
		adapter  payments.Adapter = payments.Free{}
		treasury *payments.Treasury
	)
	if cfg.gated() {
		treasury = payments.NewTreasury(cfg.HouseReserve)
		adapter = treasury
	}

	mgr := &session.Manager{
		Store: session.NewMemoryStore(),
		Recorder: &session.Recorder{
			Scores:    scores,
			Payments:  adapter,
			Daily:     dailyStore,
			Snapshots: snaps,
		},
		Payments:  adapter,
		Catalog:   cat,
		Daily:     dailyStore,
		DailySalt: cfg.DailySalt,
		Gated:     cfg.gated(),
	}
	go mgr.Janitor(ctx, time.Minute, cfg.SessionIdle)

	srv := httpserver.New(cfg.HTTP, httpserver.Deps{
		DB:       db,
		Sessions: mgr,
		Scores:   scores,
		Daily:    dailyStore,
		Treasury: treasury,
		Catalog:  cat,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(":" + cfg.Port) }()
	log.Info().Str("port", cfg.Port).Str("playMode", cfg.PlayMode).Msg("starting memomu server")

	select {
	case err := <-errc:
		log.Fatal().Err(err).Msg("server exited")
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}
}

// loadCatalog prefers an explicit YAML file over the embedded default.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
