package timex

// Tick arithmetic helpers. Ticks here are the 32-bit millisecond values
// from the tick package; deltas must be computed unsigned so they stay
// correct across the counter wrap.

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// FrameIntervalMs returns the frame period in milliseconds for a target
// frame rate. fps==0 is coerced to 1.
func FrameIntervalMs(fps uint32) uint32 {
	if fps == 0 {
		fps = 1
	}
	return 1000 / fps
}

// DeltaMs returns now-then in milliseconds, correct across wraparound of
// the 32-bit tick.
func DeltaMs(then, now uint32) uint32 {
	return now - then
}

// Elapsed reports whether at least d milliseconds passed between then and
// now, wrap-safe.
func Elapsed(then, now, d uint32) bool {
	return now-then >= d
}
