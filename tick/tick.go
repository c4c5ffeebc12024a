// Package tick adapts a monotonic microsecond time source to the
// millisecond tick the render loop polls on every iteration.
//
// The adapter is stateless: every read recomputes from the absolute
// microsecond value, so truncation never accumulates. The 32-bit
// millisecond value wraps after ~49.7 days; callers must only compute
// deltas, never treat the value as absolute time. Unsigned delta
// arithmetic stays correct across the wrap.
package tick

// Source is a monotonic microsecond counter. Implementations must be
// safe for concurrent readers and must never decrease except at
// wraparound.
type Source interface {
	// Micros returns elapsed microseconds since an arbitrary epoch
	// (typically boot or first use).
	Micros() uint64
}

// Ambient source. Swapped once during boot wiring (or per test); not
// safe to swap while another goroutine is polling.
var src Source = newSysSource()

// SetSource replaces the ambient microsecond source. Call before the
// first poll. A nil source is ignored.
func SetSource(s Source) {
	if s != nil {
		src = s
	}
}

// Ms returns the current tick in whole milliseconds: the ambient
// source's microsecond value floor-divided by 1000, truncated to 32
// bits. It never blocks, never allocates and cannot fail. This is the
// zero-argument hook the frame timing code polls.
func Ms() uint32 {
	return uint32(src.Micros() / 1000)
}

// Micros exposes the ambient source's raw value for callers that need
// sub-millisecond deltas.
func Micros() uint64 {
	return src.Micros()
}
