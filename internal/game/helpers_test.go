package game

import (
	"testing"

	"github.com/robalobadob/memomu/internal/rng"
)

func testConfig(seed int64) Config {
	return Config{Rand: rng.New(seed)}
}

func started(t *testing.T, k Kind, seed int64) Mode {
	t.Helper()
	m, err := New(k)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start(testConfig(seed)); err != nil {
		t.Fatalf("start %s: %v", k, err)
	}
	return m
}

// tickUntil advances m in 50ms steps until it reaches phase.
func tickUntil(t *testing.T, m Mode, phase Phase, limitMs int64) {
	t.Helper()
	for spent := int64(0); spent <= limitMs; spent += 50 {
		if m.View().Phase == phase {
			return
		}
		m.Tick(50)
	}
	t.Fatalf("phase %q not reached within %dms (at %q)", phase, limitMs, m.View().Phase)
}
