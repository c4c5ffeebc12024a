package ramp

import (
	"time"

	"displaycode-go/x/mathx"
)

// Step applies the new logical level in [0..top] (e.g. a backlight PWM
// duty).
type Step func(level uint16)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// Linear drives a caller-paced integer ramp from cur to to over
// durationMs in the given number of steps, distributing rounding error so
// the final step lands exactly on the target. steps==0 or durationMs==0
// snaps immediately.
func Linear(cur, to, top uint16, durationMs uint32, steps uint16, tick Tick, set Step) {
	if steps == 0 || durationMs == 0 {
		set(mathx.Min(to, top))
		return
	}
	d := int32(to) - int32(cur)
	st := int32(steps)
	acc := int32(0)
	cur32 := int32(cur)

	stepDurMs := durationMs / uint32(steps)
	if stepDurMs == 0 {
		stepDurMs = 1
	}
	stepDur := time.Duration(stepDurMs) * time.Millisecond

	for i := uint16(1); i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		acc += d
		inc := acc / st
		if inc != 0 {
			acc -= inc * st
			cur32 = mathx.Clamp(cur32+inc, 0, int32(top))
			set(uint16(cur32))
		}
	}
	if !tick(stepDur) {
		return
	}
	set(mathx.Min(to, top))
}
