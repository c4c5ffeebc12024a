package tick

import (
	"sync/atomic"
	"time"
)

// sysSource derives microseconds from the runtime monotonic clock.
// Epoch is package initialisation, which on device targets is close
// enough to boot that uptime reads stay meaningful.
type sysSource struct {
	base time.Time
}

func newSysSource() *sysSource {
	return &sysSource{base: time.Now()}
}

func (s *sysSource) Micros() uint64 {
	return uint64(time.Since(s.base) / time.Microsecond)
}

// Manual is a hand-driven source for tests and host simulation.
// The zero value starts at zero microseconds.
type Manual struct {
	us atomic.Uint64
}

// Micros implements Source.
func (m *Manual) Micros() uint64 { return m.us.Load() }

// Advance moves the counter forward by us microseconds.
func (m *Manual) Advance(us uint64) { m.us.Add(us) }

// Set jumps the counter to an absolute value. Moving it backwards
// models counter wraparound only; normal operation never decreases.
func (m *Manual) Set(us uint64) { m.us.Store(us) }
