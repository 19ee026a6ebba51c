package game

import "testing"

// flashAtRound jumps a started game to round n and runs its flash.
func flashAtRound(t *testing.T, seed int64, n int) *Flash {
	t.Helper()
	m := started(t, FlashRecall, seed).(*Flash)
	m.round = n
	if err := m.setupRound(); err != nil {
		t.Fatal(err)
	}
	m.Action(ActionStart)
	if m.View().Phase != PhaseFlashShow {
		t.Fatalf("phase = %q, want show", m.View().Phase)
	}
	m.Tick(flashShowMs(n))
	if m.View().Phase != PhaseFlashGuess {
		t.Fatalf("phase = %q, want guess", m.View().Phase)
	}
	return m
}

func firstMiss(m *Flash) int {
	for i := range m.tiles {
		if !m.targets[i] {
			return i + 1
		}
	}
	return 0
}

func TestFlashTimeLimits(t *testing.T) {
	cases := map[int]int64{1: 3000, 2: 4000, 3: 7000, 10: 28000, 11: 33000, 12: 37000, 20: 69000}
	for n, want := range cases {
		if got := flashTimeLimitMs(n); got != want {
			t.Errorf("round %d: %dms, want %dms", n, got, want)
		}
	}
}

func TestFlashShowRevealsTargetsOnly(t *testing.T) {
	m := started(t, FlashRecall, 1).(*Flash)
	m.Action(ActionStart)
	shown := 0
	for i, tl := range m.View().Tiles {
		if tl.Revealed != m.targets[i] {
			t.Fatalf("tile %d revealed=%v target=%v", i+1, tl.Revealed, m.targets[i])
		}
		if tl.Revealed {
			shown++
		}
	}
	if shown != 1 {
		t.Fatalf("round 1 flashed %d tiles", shown)
	}
	m.Tick(1199)
	if m.View().Phase != PhaseFlashShow {
		t.Fatal("flash ended early")
	}
}

func TestFlashPerfectRoundScoresRoundPlusTimeLeft(t *testing.T) {
	m := flashAtRound(t, 2, 3)
	m.Tick(3000)
	for _, idx := range m.Targets() {
		m.HandleInput(idx)
	}
	r := m.Result()
	if r.Score != 7 {
		t.Fatalf("score = %d, want 3 + 4 = 7", r.Score)
	}
	if !r.Rounds[0].Perfect || m.View().Phase != PhaseFlashDone {
		t.Fatalf("round = %+v phase = %q", r.Rounds[0], m.View().Phase)
	}
}

func TestFlashExtraClickScoresZeroButAdvances(t *testing.T) {
	m := flashAtRound(t, 3, 3)
	m.HandleInput(firstMiss(m))
	for _, idx := range m.Targets() {
		m.HandleInput(idx)
	}
	if m.IsTerminal() || m.Result().Score != 0 {
		t.Fatalf("terminal=%v score=%d", m.IsTerminal(), m.Result().Score)
	}
	m.Tick(2000)
	if v := m.View(); v.Round != 4 || v.Phase != PhaseFlashReady {
		t.Fatalf("round %d phase %q", v.Round, v.Phase)
	}
	m.Tick(900)
	if m.View().Phase != PhaseFlashShow {
		t.Fatalf("next flash did not start, phase %q", m.View().Phase)
	}
}

func TestFlashWrongClickLimitEndsGame(t *testing.T) {
	m := flashAtRound(t, 4, 5)
	m.HandleInput(m.Targets()[0])
	misses := 0
	for i := range m.tiles {
		if !m.targets[i] {
			m.HandleInput(i + 1)
			misses++
			if misses == 2 {
				break
			}
		}
	}
	if !m.IsTerminal() || m.Result().Score != 1 {
		t.Fatalf("terminal=%v score=%d", m.IsTerminal(), m.Result().Score)
	}
}

func TestFlashTimeoutCreditsFound(t *testing.T) {
	m := flashAtRound(t, 5, 4)
	targets := m.Targets()
	m.HandleInput(targets[0])
	m.HandleInput(targets[1])
	m.Tick(flashTimeLimitMs(4))
	if !m.IsTerminal() || m.Result().Score != 2 || m.Result().Outcome != OutcomeFailed {
		t.Fatalf("result = %+v", m.Result())
	}
}

func TestFlashLargeBoardAfterRoundTen(t *testing.T) {
	m := flashAtRound(t, 6, 11)
	if len(m.tiles) != 49 || len(m.Targets()) != 11 {
		t.Fatalf("tiles=%d targets=%d", len(m.tiles), len(m.Targets()))
	}
	seen := map[string]bool{}
	for _, tl := range m.tiles {
		if seen[tl.Item] {
			t.Fatalf("item %q repeated on the board", tl.Item)
		}
		seen[tl.Item] = true
	}
}

func TestFlashClicksIgnoredDuringShow(t *testing.T) {
	m := started(t, FlashRecall, 7).(*Flash)
	m.Action(ActionStart)
	m.HandleInput(m.Targets()[0])
	if m.found != 0 || m.clicks != 0 {
		t.Fatal("click during show was counted")
	}
}
