package game

import "testing"

func TestProgressRefusesDoubleReports(t *testing.T) {
	var p Progress
	if !p.Report(RoundReport{Round: 1, Score: 6, Success: true}) {
		t.Fatal("first report refused")
	}
	if p.Report(RoundReport{Round: 1, Score: 6, Success: true}) {
		t.Fatal("same round counted twice")
	}
	if !p.Report(RoundReport{Round: 2, Score: 3, Terminal: true}) {
		t.Fatal("terminal report refused")
	}
	if p.Report(RoundReport{Round: 3, Score: 100}) {
		t.Fatal("report after finish accepted")
	}
	if p.Total() != 9 || !p.Finished() || len(p.Reports()) != 2 {
		t.Fatalf("total=%d finished=%v reports=%d", p.Total(), p.Finished(), len(p.Reports()))
	}
}

func TestProgressCloseAndReset(t *testing.T) {
	var p Progress
	p.Report(RoundReport{Round: 1, Score: 4})
	if p.LastRound() != 1 {
		t.Fatalf("last round = %d", p.LastRound())
	}
	if !p.Close() {
		t.Fatal("close refused")
	}
	if !p.Finished() || p.Total() != 4 {
		t.Fatal("close changed the total or did not finish")
	}
	rs := p.Reports()
	if len(rs) != 2 || rs[1].Round != 2 || !rs[1].Terminal || rs[1].Score != 0 {
		t.Fatalf("reports = %+v", rs)
	}
	if p.Close() {
		t.Fatal("second close accepted")
	}
	p.Reset()
	if p.Finished() || p.Total() != 0 || p.LastRound() != 0 {
		t.Fatal("reset left state behind")
	}
}

func TestNewCoversEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		m, err := New(k)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if err := m.Start(testConfig(1)); err != nil {
			t.Fatalf("%s start: %v", k, err)
		}
		if m.Kind() != k || m.IsTerminal() {
			t.Fatalf("%s: kind %s terminal %v", k, m.Kind(), m.IsTerminal())
		}
	}
	if _, err := New("tetris"); err == nil {
		t.Fatal("unknown kind accepted")
	}
	if _, err := ParseKind("monluck"); err != nil {
		t.Fatal(err)
	}
	if a, err := ParseAction("again"); err != nil || a != ActionAgain {
		t.Fatalf("ParseAction = %q, %v", a, err)
	}
	if _, err := ParseAction("jump"); err == nil {
		t.Fatal("unknown action accepted")
	}
}

// A timer scheduled for a finished round must not touch the next one.
func TestStaleAdvanceDoesNotSkipRound(t *testing.T) {
	m := startPairs(t, 11)
	for _, p := range pairIndexes(m) {
		m.HandleInput(p[0])
		m.HandleInput(p[1])
	}
	m.Action(ActionMenu)
	m.Action(ActionAgain)
	m.Tick(2000)
	if v := m.View(); v.Round != 1 || v.Phase != PhasePairsSetup {
		t.Fatalf("restart disturbed by stale timer: round %d phase %q", v.Round, v.Phase)
	}
}
