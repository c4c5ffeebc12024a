package tick

import (
	"sync"
	"testing"
)

func withManual(t *testing.T) *Manual {
	t.Helper()
	prev := src
	m := &Manual{}
	SetSource(m)
	t.Cleanup(func() { src = prev })
	return m
}

func TestMsFloorDivision(t *testing.T) {
	m := withManual(t)

	cases := []struct {
		us   uint64
		want uint32
	}{
		{0, 0},
		{1, 0},
		{999, 0},
		{1000, 1},
		{1500, 1},
		{1999, 1},
		{5000, 5},
		{123456, 123},
		{2000000, 2000},
	}
	for _, c := range cases {
		m.Set(c.us)
		if got := Ms(); got != c.want {
			t.Errorf("Ms() at %dus = %d, want %d", c.us, got, c.want)
		}
	}
}

func TestMsIdempotentWithoutElapsedTime(t *testing.T) {
	m := withManual(t)
	m.Set(777_777)

	a := Ms()
	b := Ms()
	if a != b {
		t.Fatalf("two reads at the same counter value differ: %d vs %d", a, b)
	}
}

func TestMsMonotonicWhileSourceAdvances(t *testing.T) {
	m := withManual(t)

	prev := Ms()
	for i := 0; i < 5000; i++ {
		m.Advance(137) // deliberately not a multiple of 1000
		cur := Ms()
		if cur < prev {
			t.Fatalf("tick ran backward: %d -> %d after %d advances", prev, cur, i+1)
		}
		prev = cur
	}
	// 5000 * 137us = 685ms; the tick must not run faster than real time.
	if prev > 685 {
		t.Fatalf("tick ran fast: got %dms after 685000us", prev)
	}
}

// The 32-bit millisecond output is allowed to drop discontinuously when
// the underlying counter passes the output's representable range. Only
// unsigned deltas are meaningful across that boundary.
func TestMsOutputWrapIsDocumentedDiscontinuity(t *testing.T) {
	m := withManual(t)

	const edge = (uint64(1) << 32) * 1000 // us at which uint32 ms wraps
	m.Set(edge - 1000)
	before := Ms()
	if before != 1<<32-1 {
		t.Fatalf("expected max tick before wrap, got %d", before)
	}

	m.Advance(1000)
	after := Ms()
	if after >= before {
		t.Fatalf("expected discontinuous drop at wrap, got %d -> %d", before, after)
	}
	// Delta arithmetic survives the wrap.
	if d := after - before; d != 1 {
		t.Fatalf("unsigned delta across wrap = %d, want 1", d)
	}
}

func TestMsConcurrentReaders(t *testing.T) {
	m := withManual(t)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := Ms()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cur := Ms()
				if cur < prev {
					t.Errorf("reader observed backward tick %d -> %d", prev, cur)
					return
				}
				prev = cur
			}
		}()
	}

	for i := 0; i < 100_000; i++ {
		m.Advance(11)
	}
	close(stop)
	wg.Wait()
}
