// internal/daily/daily.go
//
// Daily challenge.
// Responsibilities:
//   - DateKey: the UTC day a result belongs to.
//   - Seed: a deterministic per-day, per-mode RNG seed so every player gets
//     the same boards on the same day.
//   - Store: one recorded result per player, mode and day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/memomu/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns HMAC-SHA256(salt, "YYYY-MM-DD|mode") folded to an int64.
func Seed(date time.Time, kind game.Kind, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + string(kind)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
