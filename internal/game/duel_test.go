package game

import (
	"testing"

	"github.com/robalobadob/memomu/internal/rng"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name            string
		targets, clicks []int
		playerMs, oppMs int64
		wantP, wantO    int
		want            RoundOutcome
	}{
		{"faster exact set", []int{2, 5}, []int{5, 2}, 1000, 1400, 4, 2, RoundWon},
		{"exact but slower", []int{2, 5}, []int{2, 5}, 1500, 1400, 2, 3, RoundFinished},
		{"exact never timed", []int{2, 5}, []int{2, 5}, -1, 1400, 2, 3, RoundFinished},
		{"one wrong click", []int{1, 2, 3}, []int{1, 9}, -1, 2000, 1, 4, RoundLost},
		{"wrong after complete", []int{4}, []int{4, 7}, 300, 900, 1, 2, RoundLost},
		{"correct but incomplete", []int{1, 2, 3}, []int{1, 2}, -1, 2000, 0, 0, RoundIncomplete},
		{"no clicks", []int{6}, nil, -1, 700, 0, 0, RoundIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, o, out := Resolve(tc.targets, tc.clicks, tc.playerMs, tc.oppMs)
			if p != tc.wantP || o != tc.wantO || out != tc.want {
				t.Fatalf("got %d-%d %s, want %d-%d %s", p, o, out, tc.wantP, tc.wantO, tc.want)
			}
		})
	}
}

func TestSampleOpponentRange(t *testing.T) {
	src := rng.New(42)
	for k := 1; k <= 5; k++ {
		targets := make([]int, k)
		for i := range targets {
			targets[i] = i + 1
		}
		for trial := 0; trial < 500; trial++ {
			mv := SampleOpponent(src, targets)
			lo, hi := int64(500*k), int64(1100*k+1000)
			if mv.TotalMs < lo || mv.TotalMs >= hi {
				t.Fatalf("k=%d: %dms outside [%d,%d)", k, mv.TotalMs, lo, hi)
			}
			if len(mv.Targets) != k {
				t.Fatalf("move targets = %v", mv.Targets)
			}
		}
	}
}

func TestSampleOpponentDeterministic(t *testing.T) {
	a := SampleOpponent(rng.New(9), []int{3, 8})
	b := SampleOpponent(rng.New(9), []int{3, 8})
	if a.TotalMs != b.TotalMs {
		t.Fatalf("same seed gave %d and %d", a.TotalMs, b.TotalMs)
	}
}

// toClick moves a duel from wherever it is into its click phase.
func toClick(t *testing.T, m *DuelMode) {
	t.Helper()
	tickUntil(t, m, PhaseDuelClick, 10000)
}

func TestDuelOpponentIsAnotherAvatar(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		m, _ := New(Duel)
		cfg := testConfig(seed)
		cfg.Avatar = int(seed % 14)
		if err := m.Start(cfg); err != nil {
			t.Fatal(err)
		}
		d := m.(*DuelMode)
		if d.Opponent() == d.player || d.Opponent() < 0 || d.Opponent() >= 14 {
			t.Fatalf("seed %d: player %d opponent %d", seed, d.player, d.Opponent())
		}
	}
}

func TestDuelTimeline(t *testing.T) {
	m := started(t, Duel, 1).(*DuelMode)
	m.Tick(2999)
	if m.View().Phase != PhaseDuelCountdown {
		t.Fatalf("phase = %q", m.View().Phase)
	}
	m.Tick(1)
	v := m.View()
	if v.Phase != PhaseDuelFlash || v.Round != 1 {
		t.Fatalf("after countdown: phase %q round %d", v.Phase, v.Round)
	}
	if len(m.mine.targets) != len(m.opp.targets) || len(m.mine.targets) < 1 || len(m.mine.targets) > 5 {
		t.Fatalf("targets: mine %v opp %v", m.mine.targets, m.opp.targets)
	}
	for _, tl := range m.mine.tiles {
		if !m.mine.isTarget(tl.Index) && tl.Item != "" {
			t.Fatal("round 1 board has a decoy")
		}
	}
	m.Tick(899)
	if m.View().Phase != PhaseDuelFlash {
		t.Fatal("flash ended early")
	}
	m.Tick(1)
	if m.View().Phase != PhaseDuelClick {
		t.Fatalf("phase = %q, want click", m.View().Phase)
	}
	m.Tick(m.move.TotalMs)
	if m.View().Phase != PhaseDuelResult {
		t.Fatalf("phase = %q, want result", m.View().Phase)
	}
	m.Tick(1600)
	if v := m.View(); v.Round != 2 || v.Phase != PhaseDuelFlash {
		t.Fatalf("round %d phase %q", v.Round, v.Phase)
	}
}

func TestDuelPerfectRoundBeatsOpponent(t *testing.T) {
	m := started(t, Duel, 2).(*DuelMode)
	toClick(t, m)
	k := len(m.mine.targets)
	for _, idx := range m.mine.targets {
		m.HandleInput(idx)
	}
	m.Tick(m.move.TotalMs)
	v := m.View()
	if v.Duel.PlayerScore != k+2 || v.Duel.OpponentScore != k {
		t.Fatalf("k=%d: %d-%d", k, v.Duel.PlayerScore, v.Duel.OpponentScore)
	}
	if v.Duel.LastResult == "" {
		t.Fatal("no result text")
	}
}

func TestDuelMistakeLocksBoard(t *testing.T) {
	m := started(t, Duel, 3).(*DuelMode)
	toClick(t, m)
	k := len(m.mine.targets)
	miss := 0
	for i := 1; i <= 16; i++ {
		if !m.mine.isTarget(i) {
			miss = i
			break
		}
	}
	m.HandleInput(miss)
	for _, idx := range m.mine.targets {
		m.HandleInput(idx)
	}
	if len(m.clicks) != 1 {
		t.Fatalf("clicks after mistake = %v", m.clicks)
	}
	m.Tick(m.move.TotalMs)
	if m.pscore != 0 || m.oscore != k+1 {
		t.Fatalf("k=%d: %d-%d", k, m.pscore, m.oscore)
	}
}

func TestDuelFullMatchWon(t *testing.T) {
	m := started(t, Duel, 4).(*DuelMode)
	for round := 1; round <= 5; round++ {
		toClick(t, m)
		if round >= 3 {
			for _, tl := range m.mine.tiles {
				if tl.Item == "" {
					t.Fatalf("round %d: empty tile on a decoy board", round)
				}
			}
		}
		for _, idx := range m.mine.targets {
			m.HandleInput(idx)
		}
		m.Tick(m.move.TotalMs)
		if round < 5 && m.IsTerminal() {
			t.Fatalf("terminal after round %d", round)
		}
	}
	if !m.IsTerminal() {
		t.Fatal("not terminal after 5 rounds")
	}
	r := m.Result()
	if r.Outcome != OutcomeWon || r.Score <= r.OpponentScore || len(r.Rounds) != 5 {
		t.Fatalf("result = %+v", r)
	}
	if !r.Rounds[4].Terminal {
		t.Fatal("last round not terminal")
	}
	m.Tick(1600)
	if m.View().Phase != PhaseDuelEnd {
		t.Fatalf("phase = %q", m.View().Phase)
	}
}

func TestDuelQuitForfeits(t *testing.T) {
	m := started(t, Duel, 5).(*DuelMode)
	toClick(t, m)
	for _, idx := range m.mine.targets {
		m.HandleInput(idx)
	}
	m.Tick(m.move.TotalMs) // round 1 scored
	m.Action(ActionQuit)
	r := m.Result()
	if !m.IsTerminal() || r.Score != 0 || r.OpponentScore != ForfeitScore || r.Outcome != OutcomeLost {
		t.Fatalf("result = %+v", r)
	}
	m.Tick(5000)
	if m.View().Round != 1 {
		t.Fatal("match kept running after forfeit")
	}
}

func TestDuelViewHidesOpponentDuringClick(t *testing.T) {
	m := started(t, Duel, 6).(*DuelMode)
	toClick(t, m)
	for _, tl := range m.View().Duel.OpponentTiles {
		if tl.Item != "" {
			t.Fatal("opponent board visible during click")
		}
	}
	if m.View().TimeLeftMs != m.move.TotalMs {
		t.Fatalf("time left = %d", m.View().TimeLeftMs)
	}
}
