package timer

import (
	"reflect"
	"testing"
)

func TestAdvanceFiresInDeadlineThenScheduleOrder(t *testing.T) {
	var s Scheduler[string]
	s.After(300, "c")
	s.After(100, "a")
	s.After(300, "d")
	s.After(200, "b")

	var got []string
	s.Advance(1000, func(e string) { got = append(got, e) })
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if s.Now() != 1000 {
		t.Fatalf("now = %d, want 1000", s.Now())
	}
}

func TestAdvanceDoesNotFireEarly(t *testing.T) {
	var s Scheduler[int]
	s.After(500, 1)
	fired := 0
	s.Advance(499, func(int) { fired++ })
	if fired != 0 {
		t.Fatal("fired before deadline")
	}
	s.Advance(1, func(int) { fired++ })
	if fired != 1 {
		t.Fatal("did not fire at deadline")
	}
}

func TestChainedEventsUseDeadlineAsNow(t *testing.T) {
	var s Scheduler[int]
	var at []int64
	s.After(300, 0)
	s.Advance(5000, func(step int) {
		at = append(at, s.Now())
		if step < 3 {
			s.After(300, step+1)
		}
	})
	want := []int64{300, 600, 900, 1200}
	if !reflect.DeepEqual(at, want) {
		t.Fatalf("fired at %v, want %v", at, want)
	}
}

func TestInvalidateDiscardsStaleEvents(t *testing.T) {
	var s Scheduler[string]
	s.After(100, "round1-advance")
	s.Invalidate()
	s.After(200, "round2-advance")

	var got []string
	s.Advance(1000, func(e string) { got = append(got, e) })
	if !reflect.DeepEqual(got, []string{"round2-advance"}) {
		t.Fatalf("got %v", got)
	}
}

func TestInvalidateFromHandler(t *testing.T) {
	var s Scheduler[string]
	s.After(100, "end-round")
	s.After(150, "timeout")
	var got []string
	s.Advance(1000, func(e string) {
		got = append(got, e)
		if e == "end-round" {
			s.Invalidate()
		}
	})
	if !reflect.DeepEqual(got, []string{"end-round"}) {
		t.Fatalf("got %v", got)
	}
}

func TestReset(t *testing.T) {
	var s Scheduler[int]
	s.After(10, 1)
	s.Advance(5, func(int) {})
	gen := s.Gen()
	s.Reset()
	if s.Pending() != 0 || s.Now() != 0 || s.Gen() == gen {
		t.Fatalf("reset left state: pending=%d now=%d gen=%d", s.Pending(), s.Now(), s.Gen())
	}
}
