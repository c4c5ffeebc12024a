package motion

import (
	"testing"

	"displaycode-go/types"
)

func restingReading() Reading {
	return Reading{Accel: types.AccelMilli{X: 0, Y: 0, Z: 1000}}
}

func feed(d *Detector, r Reading, n int) (types.MotionState, bool) {
	var state types.MotionState
	var changed bool
	for i := 0; i < n; i++ {
		state, changed = d.Update(r)
	}
	return state, changed
}

func TestDetector_StaysStillAtRest(t *testing.T) {
	d := NewDetector(types.MotionConfig{})
	state, _ := feed(d, restingReading(), 50)
	if state != types.MotionStill {
		t.Fatalf("state = %q after resting samples, want still", state)
	}
}

func TestDetector_ShakeRequiresSustainedAgitation(t *testing.T) {
	d := NewDetector(types.MotionConfig{})
	d.Update(restingReading())

	// Alternate accel direction so every sample jerks past the threshold.
	flip := func(i int) Reading {
		r := restingReading()
		if i%2 == 0 {
			r.Accel.X = 900
		} else {
			r.Accel.X = -900
		}
		return r
	}

	for i := 0; i < shakeTriggerCount-1; i++ {
		if state, _ := d.Update(flip(i)); state == types.MotionShaking {
			t.Fatalf("shaking after only %d agitated samples", i+1)
		}
	}
	state, changed := d.Update(flip(shakeTriggerCount - 1))
	if state != types.MotionShaking || !changed {
		t.Fatalf("state = %q (changed=%v), want shaking transition", state, changed)
	}
}

func TestDetector_ShakeClearsAfterRecovery(t *testing.T) {
	d := NewDetector(types.MotionConfig{})
	d.Update(restingReading())
	gyro := restingReading()
	gyro.GyroX = 20000
	feed(d, gyro, shakeTriggerCount)
	if d.State() != types.MotionShaking {
		t.Fatal("precondition: detector should be shaking")
	}

	// Still shaking until the recovery count is reached.
	state, _ := feed(d, restingReading(), stableRecoveryCount-1)
	if state != types.MotionShaking {
		t.Fatalf("state = %q before recovery count, want shaking", state)
	}
	state, changed := d.Update(restingReading())
	if state != types.MotionStill || !changed {
		t.Fatalf("state = %q (changed=%v), want still transition", state, changed)
	}
}

func TestDetector_TiltBeyondThreshold(t *testing.T) {
	d := NewDetector(types.MotionConfig{})
	d.Update(restingReading())

	// 60 degrees from vertical: horizontal 866mg, vertical 500mg.
	tilted := Reading{Accel: types.AccelMilli{X: 866, Y: 0, Z: 500}}
	state, _ := feed(d, tilted, 3)
	if state != types.MotionTilting {
		t.Fatalf("state = %q at 60 degrees, want tilting", state)
	}
	if got := d.TiltDeg(); got < 58 || got > 62 {
		t.Errorf("TiltDeg = %d, want about 60", got)
	}

	// 30 degrees stays inside the default 45 degree threshold.
	upright := Reading{Accel: types.AccelMilli{X: 500, Y: 0, Z: 866}}
	state, _ = feed(d, upright, 3)
	if state != types.MotionStill {
		t.Fatalf("state = %q at 30 degrees, want still", state)
	}
	if got := d.TiltDeg(); got < 28 || got > 32 {
		t.Errorf("TiltDeg = %d, want about 30", got)
	}
}

func TestDetector_ShakingOverridesTilt(t *testing.T) {
	d := NewDetector(types.MotionConfig{})
	d.Update(restingReading())

	shakeTilted := Reading{
		Accel: types.AccelMilli{X: 866, Y: 0, Z: 500},
		GyroX: 20000,
	}
	state, _ := feed(d, shakeTilted, shakeTriggerCount+1)
	if state != types.MotionShaking {
		t.Fatalf("state = %q while shaking tilted, want shaking", state)
	}
}

func TestAtanDeg(t *testing.T) {
	cases := []struct {
		y, x, want int32
	}{
		{0, 1000, 0},
		{1000, 0, 90},
		{1000, 1000, 45},
		{577, 1000, 30},
		{1732, 1000, 60},
	}
	for _, c := range cases {
		got := atanDeg(c.y, c.x)
		if got < c.want-1 || got > c.want+1 {
			t.Errorf("atanDeg(%d, %d) = %d, want %d +-1", c.y, c.x, got, c.want)
		}
	}
}

func TestIsqrt(t *testing.T) {
	cases := []struct {
		v    int64
		want int32
	}{
		{0, 0}, {1, 1}, {4, 2}, {15, 3}, {16, 4}, {1000000, 1000},
	}
	for _, c := range cases {
		if got := isqrt(c.v); got != c.want {
			t.Errorf("isqrt(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}
