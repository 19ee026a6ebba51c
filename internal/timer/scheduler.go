// internal/timer/scheduler.go
//
// Deadline scheduler that replaces fire-and-forget callbacks.
//
// Every pending event carries an absolute deadline (engine milliseconds)
// and the generation it was scheduled under. Advance walks engine time
// forward and fires due events in deadline order, ties in scheduling
// order. While an event fires, Now() equals that event's deadline, so a
// handler that schedules a follow-up delay gets exact timing even when the
// caller advances time in coarse steps.
//
// Invalidate bumps the generation: anything scheduled before it is
// discarded when its deadline arrives. Modes call it whenever a round or
// phase is left so a stale timer can never touch newer state.
package timer

import "sort"

// Token identifies the generation an event was scheduled under.
type Token uint64

type entry[E any] struct {
	at    int64
	seq   uint64
	gen   Token
	event E
}

// Scheduler is single-threaded; the owning mode serializes access.
type Scheduler[E any] struct {
	now     int64
	gen     Token
	seq     uint64
	pending []entry[E]
}

// Now returns the current engine time in milliseconds.
func (s *Scheduler[E]) Now() int64 { return s.now }

// Gen returns the current generation token.
func (s *Scheduler[E]) Gen() Token { return s.gen }

// Pending reports how many events are queued, including stale ones.
func (s *Scheduler[E]) Pending() int { return len(s.pending) }

// After schedules ev to fire delayMs from now under the current generation.
func (s *Scheduler[E]) After(delayMs int64, ev E) Token {
	if delayMs < 0 {
		delayMs = 0
	}
	s.seq++
	s.pending = append(s.pending, entry[E]{at: s.now + delayMs, seq: s.seq, gen: s.gen, event: ev})
	return s.gen
}

// Invalidate makes every pending event stale and returns the new token.
func (s *Scheduler[E]) Invalidate() Token {
	s.gen++
	return s.gen
}

// Reset drops all pending events, invalidates, and rewinds time to zero.
func (s *Scheduler[E]) Reset() {
	s.pending = nil
	s.now = 0
	s.Invalidate()
}

// Advance moves time forward by elapsedMs, firing due events through fire.
// Events scheduled by fire itself are considered in the same pass.
func (s *Scheduler[E]) Advance(elapsedMs int64, fire func(E)) {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	target := s.now + elapsedMs
	for {
		i, ok := s.next(target)
		if !ok {
			break
		}
		e := s.pending[i]
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		s.now = e.at
		if e.gen != s.gen {
			continue // stale
		}
		fire(e.event)
	}
	s.now = target
}

// next finds the earliest due entry at or before target.
func (s *Scheduler[E]) next(target int64) (int, bool) {
	if len(s.pending) == 0 {
		return 0, false
	}
	sort.SliceStable(s.pending, func(a, b int) bool {
		if s.pending[a].at != s.pending[b].at {
			return s.pending[a].at < s.pending[b].at
		}
		return s.pending[a].seq < s.pending[b].seq
	})
	if s.pending[0].at > target {
		return 0, false
	}
	return 0, true
}
