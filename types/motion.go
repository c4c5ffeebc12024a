package types

// MotionState is the classified posture of the device, retained on
// "motion/state".
type MotionState string

const (
	MotionStill   MotionState = "still"
	MotionShaking MotionState = "shaking"
	MotionTilting MotionState = "tilting"
)

// MotionEvent is the payload published on every state transition.
type MotionEvent struct {
	State      MotionState `json:"state"`
	TiltDeg    int16       `json:"tilt_deg,omitempty"` // whole degrees from vertical
	TS         uint32      `json:"ts_ms"`
	AccelMilli AccelMilli  `json:"accel_mg"`
}

// AccelMilli is an acceleration triple in milli-g.
type AccelMilli struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

// MotionConfig is the "config/motion" section.
type MotionConfig struct {
	PollMs         uint32 `json:"poll_ms"`          // sample period, default 100
	AccelThreshMG  int32  `json:"accel_thresh_mg"`  // shake delta threshold
	GyroThreshCDPS int32  `json:"gyro_thresh_cdps"` // centi-deg/s threshold
	TiltThreshDeg  int16  `json:"tilt_thresh_deg"`  // tilt angle threshold
}
