// config.go
//
// Process configuration read from the environment (and .env via godotenv).

package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/httpserver"
)

type config struct {
	Port         string
	LogLevel     string
	DBPath       string
	CatalogFile  string
	PlayMode     string // "free" | "monad"
	DailySalt    string
	HouseReserve decimal.Decimal
	SessionIdle  time.Duration
	HTTP         httpserver.Config
}

func loadConfig() config {
	reserve, err := decimal.NewFromString(getEnv("HOUSE_RESERVE", "100"))
	if err != nil {
		reserve = decimal.NewFromInt(100)
	}
	days, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14"))
	if err != nil {
		days = 14
	}
	idle, err := time.ParseDuration(getEnv("SESSION_IDLE", "30m"))
	if err != nil {
		idle = 30 * time.Minute
	}
	return config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "./data/memomu.db"),
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		PlayMode:     strings.ToLower(getEnv("PLAY_MODE", "free")),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		HouseReserve: reserve,
		SessionIdle:  idle,
		HTTP: httpserver.Config{
			JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
			JWTExpiresDays: days,
			CookieName:     getEnv("COOKIE_NAME", "memomu_token"),
			ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
			Secure:         os.Getenv("NODE_ENV") == "production",
		},
	}
}

// gated reports whether buy-ins and payouts are live.
func (c config) gated() bool { return c.PlayMode == "monad" }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
