package timex

import "testing"

func TestFrameIntervalMs(t *testing.T) {
	if got := FrameIntervalMs(25); got != 40 {
		t.Errorf("25fps = %dms, want 40", got)
	}
	if got := FrameIntervalMs(0); got != 1000 {
		t.Errorf("0fps coerced: %dms, want 1000", got)
	}
}

func TestPeriodFromHz(t *testing.T) {
	if got := PeriodFromHz(125); got != 8_000_000 {
		t.Errorf("125Hz = %dns, want 8ms", got)
	}
	if got := PeriodFromHz(0); got != 1_000_000_000 {
		t.Errorf("0Hz coerced: %dns", got)
	}
}

func TestDeltaAcrossWrap(t *testing.T) {
	const then = ^uint32(0) - 5 // 6ms before wrap
	const now = 10
	if got := DeltaMs(then, now); got != 16 {
		t.Errorf("delta across wrap = %d, want 16", got)
	}
	if !Elapsed(then, now, 16) {
		t.Error("Elapsed(16) across wrap = false")
	}
	if Elapsed(then, now, 17) {
		t.Error("Elapsed(17) across wrap = true")
	}
}
