// Package conf is the device build configuration resolved once at boot.
//
// Each field replaces one compile-time selection of the graphics stack's
// configuration header: a named field with an enumerated effect instead of
// a preprocessor flag. Nothing here has runtime behaviour beyond Resolve;
// consumers read the resolved value and specialise themselves.
package conf

import "errors"

// ColorDepth selects the framebuffer pixel format.
type ColorDepth uint8

const (
	// RGB565 is 16-bit 5-6-5, what the panel accepts natively.
	RGB565 ColorDepth = iota
	// RGB888 is 24-bit; requires per-pixel conversion before flush.
	RGB888
)

// TickSource selects where the renderer's millisecond tick comes from.
type TickSource uint8

const (
	// TickInternal lets the graphics stack keep its own tick, bumped by a
	// periodic interrupt the platform must provide.
	TickInternal TickSource = iota
	// TickAdapter polls the tick package's Ms hook, which derives the tick
	// from the platform's monotonic microsecond counter. The default.
	TickAdapter
)

// MemBackend selects the allocation backend for drawing buffers.
type MemBackend uint8

const (
	// MemInternal draws from a fixed internal pool of HeapBudget bytes.
	MemInternal MemBackend = iota
	// MemCapability delegates to the platform's capability allocator so
	// large buffers land in external RAM. The allocator itself is platform
	// firmware, not part of this repo.
	MemCapability
)

// FontSet selects which glyph sets are linked in.
type FontSet uint8

const (
	FontBuiltin5x7 FontSet = iota // the primitives' builtin glyphs only
	FontMontserrat16
)

// FSBackend selects the asset filesystem.
type FSBackend uint8

const (
	FSNone FSBackend = iota // assets are embedded
	FSStdio
)

// LogLevel gates diagnostic output on device paths.
type LogLevel uint8

const (
	LogOff LogLevel = iota
	LogError
	LogInfo
	LogDebug
)

// Config is the full selection table.
type Config struct {
	HorRes     int
	VerRes     int
	ColorDepth ColorDepth
	Tick       TickSource
	Mem        MemBackend
	HeapBudget int // bytes, only meaningful for MemInternal
	Fonts      FontSet
	FS         FSBackend
	Log        LogLevel
}

// Default mirrors the shipped device selection: 360x360 round panel,
// RGB565, custom tick adapter, capability allocator with a 64 KiB internal
// budget, montserrat-16, no filesystem, logging off.
func Default() Config {
	return Config{
		HorRes:     360,
		VerRes:     360,
		ColorDepth: RGB565,
		Tick:       TickAdapter,
		Mem:        MemCapability,
		HeapBudget: 64 * 1024,
		Fonts:      FontMontserrat16,
		FS:         FSNone,
		Log:        LogOff,
	}
}

var (
	ErrBadResolution = errors.New("conf: resolution must be positive")
	ErrBadBudget     = errors.New("conf: internal heap budget must be positive")
)

// Validate rejects selections the rest of the firmware cannot honour.
func (c Config) Validate() error {
	if c.HorRes <= 0 || c.VerRes <= 0 {
		return ErrBadResolution
	}
	if c.Mem == MemInternal && c.HeapBudget <= 0 {
		return ErrBadBudget
	}
	return nil
}

// resolved is set once by Resolve and never written again.
var resolved = Default()

// Resolve validates and installs the boot configuration. Call once before
// services start; later Get calls return the installed value.
func Resolve(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	resolved = c
	return nil
}

// Get returns the resolved configuration.
func Get() Config { return resolved }

// Logs reports whether output at level l is enabled. Callers gate their
// diagnostic prints on it so a LogOff build stays quiet on the wire.
func Logs(l LogLevel) bool { return l != LogOff && resolved.Log >= l }
