package graphics

import "displaycode-go/tick"

// FrameAnimation advances through a fixed frame sequence at a configured
// rate. Each frame is raw RGB565 pixel data; Update is polled from the
// render loop and reports whether the current frame changed. Timing is
// taken from the microsecond tick source so pacing does not drift with
// render cost.
type FrameAnimation struct {
	frames       [][]byte
	current      int
	frameDurUs   uint64
	lastUpdateUs uint64
	loop         bool
	finished     bool

	// nowUs is swappable for tests; defaults to the ambient tick source.
	nowUs func() uint64
}

// NewFrameAnimation creates an animation with the given per-frame
// duration in milliseconds.
func NewFrameAnimation(frameDurMs uint32) *FrameAnimation {
	a := &FrameAnimation{
		frameDurUs: uint64(frameDurMs) * 1000,
		loop:       true,
		nowUs:      tick.Micros,
	}
	a.lastUpdateUs = a.nowUs()
	return a
}

// WithFPS creates an animation running at the given frame rate.
func WithFPS(fps uint32) *FrameAnimation {
	if fps == 0 {
		fps = 1
	}
	return NewFrameAnimation(1000 / fps)
}

// AddFrame appends one frame of raw RGB565 data.
func (a *FrameAnimation) AddFrame(data []byte) {
	a.frames = append(a.frames, data)
}

// SetLoop selects looping (default) or one-shot playback.
func (a *FrameAnimation) SetLoop(loop bool) { a.loop = loop }

// SetFPS changes the playback rate.
func (a *FrameAnimation) SetFPS(fps uint32) {
	if fps == 0 {
		fps = 1
	}
	a.frameDurUs = uint64(1000/fps) * 1000
}

// Update advances the animation if a frame period elapsed and reports
// whether the visible frame changed.
func (a *FrameAnimation) Update() bool {
	if a.finished || len(a.frames) == 0 {
		return false
	}
	now := a.nowUs()
	if now-a.lastUpdateUs < a.frameDurUs {
		return false
	}
	a.lastUpdateUs = now
	a.current++
	if a.current >= len(a.frames) {
		if a.loop {
			a.current = 0
		} else {
			a.current = len(a.frames) - 1
			a.finished = true
		}
	}
	return true
}

// CurrentFrame returns the visible frame data, or nil if none were added.
func (a *FrameAnimation) CurrentFrame() []byte {
	if len(a.frames) == 0 {
		return nil
	}
	return a.frames[a.current]
}

// CurrentIndex returns the visible frame index.
func (a *FrameAnimation) CurrentIndex() int { return a.current }

// FrameCount returns the number of frames added.
func (a *FrameAnimation) FrameCount() int { return len(a.frames) }

// Finished reports one-shot completion.
func (a *FrameAnimation) Finished() bool { return a.finished }

// Reset rewinds to the first frame and restarts the clock.
func (a *FrameAnimation) Reset() {
	a.current = 0
	a.lastUpdateUs = a.nowUs()
	a.finished = false
}

// JumpTo moves to a specific frame and restarts the clock from it.
func (a *FrameAnimation) JumpTo(i int) {
	if i < 0 || i >= len(a.frames) {
		return
	}
	a.current = i
	a.lastUpdateUs = a.nowUs()
	a.finished = false
}
