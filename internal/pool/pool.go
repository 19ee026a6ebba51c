// internal/pool/pool.go
//
// Content pool manager: a finite set of item ids with a "recently used"
// marker that keeps consecutive rounds visually varied.
//
// Draw policy:
//   - Ids never repeat within one draw.
//   - With excludeRecent, recently used ids are skipped unless fewer than
//     count eligible ids remain; then the marker is cleared and the whole
//     pool is eligible again (recycling).
//   - Asking for more ids than the pool holds is a configuration error and
//     fails fast with ErrExhausted instead of clamping.
package pool

import (
	"errors"
	"fmt"

	"github.com/robalobadob/memomu/internal/rng"
)

// ErrExhausted is returned when a draw asks for more ids than exist.
var ErrExhausted = errors.New("pool exhausted")

// Pool is owned by a single game mode; it is not safe for concurrent use.
type Pool struct {
	items  []string
	recent map[string]struct{}
	src    rng.Source
}

// New builds a pool over a copy of items. Duplicate ids are collapsed.
func New(src rng.Source, items []string) *Pool {
	seen := make(map[string]struct{}, len(items))
	uniq := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok || it == "" {
			continue
		}
		seen[it] = struct{}{}
		uniq = append(uniq, it)
	}
	return &Pool{items: uniq, recent: make(map[string]struct{}), src: src}
}

// Size reports how many distinct ids the pool holds.
func (p *Pool) Size() int { return len(p.items) }

// Items returns a copy of every id in catalog order.
func (p *Pool) Items() []string {
	return append([]string(nil), p.items...)
}

// Recent reports how many ids are currently marked recently used.
func (p *Pool) Recent() int { return len(p.recent) }

// Reset clears the recently used marker.
func (p *Pool) Reset() { p.recent = make(map[string]struct{}) }

// Draw returns count distinct ids in random order and marks them recently used.
func (p *Pool) Draw(count int, excludeRecent bool) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("draw %d: negative count", count)
	}
	if count > len(p.items) {
		return nil, fmt.Errorf("draw %d of %d: %w", count, len(p.items), ErrExhausted)
	}

	eligible := p.items
	if excludeRecent {
		fresh := make([]string, 0, len(p.items))
		for _, it := range p.items {
			if _, used := p.recent[it]; !used {
				fresh = append(fresh, it)
			}
		}
		if len(fresh) < count {
			p.Reset()
		} else {
			eligible = fresh
		}
	}

	out := rng.Shuffle(p.src, eligible)[:count]
	for _, it := range out {
		p.recent[it] = struct{}{}
	}
	return out, nil
}

// Without returns the ids not in exclude, shuffled. It does not touch the
// recently used marker.
func (p *Pool) Without(exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	rest := make([]string, 0, len(p.items))
	for _, it := range p.items {
		if _, ok := skip[it]; !ok {
			rest = append(rest, it)
		}
	}
	return rng.Shuffle(p.src, rest)
}
