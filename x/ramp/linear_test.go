package ramp

import (
	"testing"
	"time"
)

func TestLinearLandsOnTarget(t *testing.T) {
	var levels []uint16
	tick := func(time.Duration) bool { return true }
	set := func(l uint16) { levels = append(levels, l) }

	Linear(0, 200, 255, 100, 8, tick, set)

	if len(levels) == 0 {
		t.Fatal("no steps applied")
	}
	if got := levels[len(levels)-1]; got != 200 {
		t.Errorf("final level = %d, want 200", got)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] < levels[i-1] {
			t.Errorf("ramp not monotonic at step %d: %v", i, levels)
			break
		}
	}
}

func TestLinearSnapsWithoutSteps(t *testing.T) {
	var got uint16
	Linear(10, 90, 255, 0, 0, func(time.Duration) bool { return true }, func(l uint16) { got = l })
	if got != 90 {
		t.Errorf("snap level = %d, want 90", got)
	}
}

func TestLinearClampsToTop(t *testing.T) {
	var got uint16
	Linear(0, 300, 255, 0, 0, func(time.Duration) bool { return true }, func(l uint16) { got = l })
	if got != 255 {
		t.Errorf("clamped level = %d, want 255", got)
	}
}

func TestLinearStopsWhenCancelled(t *testing.T) {
	calls := 0
	tick := func(time.Duration) bool {
		calls++
		return calls < 3
	}
	var last uint16 = 1
	Linear(0, 100, 255, 80, 8, tick, func(l uint16) { last = l })
	if last == 100 {
		t.Error("ramp completed despite cancellation")
	}
}
