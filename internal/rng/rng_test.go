package rng

import (
	"sort"
	"testing"
)

func TestShufflePermutation(t *testing.T) {
	src := New(42)
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	orig := append([]int(nil), in...)

	for trial := 0; trial < 100; trial++ {
		out := Shuffle(src, in)
		if len(out) != len(in) {
			t.Fatalf("length changed: %d != %d", len(out), len(in))
		}
		sorted := append([]int(nil), out...)
		sort.Ints(sorted)
		for i := range sorted {
			if sorted[i] != orig[i] {
				t.Fatalf("not a permutation: %v", out)
			}
		}
	}
	for i := range in {
		if in[i] != orig[i] {
			t.Fatalf("input mutated: %v", in)
		}
	}
}

func TestShuffleEmptyAndSingleton(t *testing.T) {
	src := New(1)
	if out := Shuffle(src, []string{}); len(out) != 0 {
		t.Errorf("expected empty, got %v", out)
	}
	if out := Shuffle(src, []string{"a"}); len(out) != 1 || out[0] != "a" {
		t.Errorf("expected [a], got %v", out)
	}
}

func TestShuffleUniformPositions(t *testing.T) {
	src := New(7)
	const trials = 60000
	in := []int{0, 1, 2}
	var counts [3][3]int
	for i := 0; i < trials; i++ {
		out := Shuffle(src, in)
		for pos, v := range out {
			counts[pos][v]++
		}
	}
	want := trials / 3
	tol := want / 20 // 5%
	for pos := range counts {
		for v, c := range counts[pos] {
			if c < want-tol || c > want+tol {
				t.Errorf("position %d value %d: count %d outside %d±%d", pos, v, c, want, tol)
			}
		}
	}
}

func TestSampleDistinct(t *testing.T) {
	src := New(3)
	for k := 0; k <= 16; k++ {
		got := Sample(src, 16, k)
		if len(got) != k {
			t.Fatalf("k=%d: got %d indices", k, len(got))
		}
		seen := map[int]bool{}
		for _, v := range got {
			if v < 0 || v >= 16 || seen[v] {
				t.Fatalf("k=%d: bad or duplicate index %d in %v", k, v, got)
			}
			seen[v] = true
		}
	}
	if got := Sample(src, 3, 10); len(got) != 3 {
		t.Errorf("expected clamp to 3, got %d", len(got))
	}
}

func TestUniformAndIntBetween(t *testing.T) {
	src := New(9)
	for i := 0; i < 1000; i++ {
		if f := Uniform(src, 0.5, 1.1); f < 0.5 || f >= 1.1 {
			t.Fatalf("uniform out of range: %v", f)
		}
		if n := IntBetween(src, 1, 5); n < 1 || n > 5 {
			t.Fatalf("int out of range: %d", n)
		}
	}
}
