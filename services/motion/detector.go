package motion

import (
	"displaycode-go/types"
)

// Default thresholds. Tuned on the bench: a deliberate shake crosses
// both accel and gyro thresholds, picking the phone up crosses neither.
const (
	defaultAccelThreshMG  = 800   // jerk between consecutive samples
	defaultGyroThreshCDPS = 12000 // 120 deg/s
	defaultTiltThreshDeg  = 45
	defaultPollMs         = 100
	shakeTriggerCount     = 12 // agitated samples before we call it shaking
	stableRecoveryCount   = 10 // calm samples before shaking clears
)

// Reading is one IMU sample in fixed-point units.
type Reading struct {
	Accel types.AccelMilli
	// Gyro rates in centi-degrees/second.
	GyroX, GyroY, GyroZ int32
}

// Detector turns a stream of IMU readings into motion states. It is
// pure: no clocks, no goroutines, one Update per sample.
type Detector struct {
	cfg types.MotionConfig

	prev     types.AccelMilli
	havePrev bool

	shakeCount  int
	stableCount int
	state       types.MotionState
	tiltDeg     int32
}

// NewDetector applies defaults for any zero threshold.
func NewDetector(cfg types.MotionConfig) *Detector {
	if cfg.AccelThreshMG == 0 {
		cfg.AccelThreshMG = defaultAccelThreshMG
	}
	if cfg.GyroThreshCDPS == 0 {
		cfg.GyroThreshCDPS = defaultGyroThreshCDPS
	}
	if cfg.TiltThreshDeg == 0 {
		cfg.TiltThreshDeg = defaultTiltThreshDeg
	}
	if cfg.PollMs == 0 {
		cfg.PollMs = defaultPollMs
	}
	return &Detector{cfg: cfg, state: types.MotionStill}
}

// State returns the current motion state.
func (d *Detector) State() types.MotionState { return d.state }

// TiltDeg returns the last computed tilt angle from vertical.
func (d *Detector) TiltDeg() int16 { return int16(d.tiltDeg) }

// Update consumes one reading and returns the resulting state and
// whether it changed.
func (d *Detector) Update(r Reading) (types.MotionState, bool) {
	agitated := false
	if d.havePrev {
		jerk := abs32(r.Accel.X-d.prev.X) + abs32(r.Accel.Y-d.prev.Y) + abs32(r.Accel.Z-d.prev.Z)
		agitated = jerk > d.cfg.AccelThreshMG
	}
	d.prev = r.Accel
	d.havePrev = true

	gyroMag := abs32(r.GyroX) + abs32(r.GyroY) + abs32(r.GyroZ)
	if gyroMag > d.cfg.GyroThreshCDPS {
		agitated = true
	}

	if agitated {
		d.shakeCount++
		d.stableCount = 0
	} else {
		d.stableCount++
		if d.stableCount >= stableRecoveryCount {
			d.shakeCount = 0
		}
	}

	horiz := isqrt(int64(r.Accel.X)*int64(r.Accel.X) + int64(r.Accel.Y)*int64(r.Accel.Y))
	d.tiltDeg = atanDeg(horiz, abs32(r.Accel.Z))

	prev := d.state
	switch {
	case d.shakeCount >= shakeTriggerCount:
		d.state = types.MotionShaking
	case d.state == types.MotionShaking && d.shakeCount > 0:
		// shaking latches until the recovery count clears shakeCount
	case d.tiltDeg > int32(d.cfg.TiltThreshDeg):
		d.state = types.MotionTilting
	default:
		d.state = types.MotionStill
	}
	return d.state, d.state != prev
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// isqrt is integer sqrt by Newton iteration, exact floor for v >= 0.
func isqrt(v int64) int32 {
	if v <= 0 {
		return 0
	}
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return int32(x)
}

// atanDeg approximates atan2(y, x) in degrees for y, x >= 0, range
// 0..90. Error stays under one degree, plenty for a tilt threshold.
func atanDeg(y, x int32) int32 {
	if y == 0 {
		return 0
	}
	if x == 0 {
		return 90
	}
	if y > x {
		return 90 - atanDeg(x, y)
	}
	// atan(r) ~ 45r + 15.7r(1-r) for r in [0,1], here in Q10.
	r := int64(y) * 1024 / int64(x)
	deg := 45*r + 16*r*(1024-r)/1024
	return int32(deg / 1024)
}
