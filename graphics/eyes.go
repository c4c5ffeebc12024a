package graphics

import "displaycode-go/x/mathx"

// Eyes renders the idle face: two round eyes with pupils and highlights,
// with blink and gaze-offset support. Geometry follows the device's
// 360x360 layout (40px eyes, 120px apart, centered).
type Eyes struct {
	p *Primitives

	Size    int // eyeball radius
	Spacing int // distance between eye centers
}

func NewEyes(p *Primitives) *Eyes {
	return &Eyes{p: p, Size: 40, Spacing: 120}
}

// Draw renders both eyes looking straight ahead.
func (e *Eyes) Draw() {
	e.DrawOffset(0, 0)
}

// DrawOffset renders both eyes with the pupils shifted by (dx, dy);
// use dx=-Size/4 for a leftward glance.
func (e *Eyes) DrawOffset(dx, dy int) {
	cx, cy := e.p.w/2, e.p.h/2
	e.drawOne(cx-e.Spacing/2, cy, dx, dy)
	e.drawOne(cx+e.Spacing/2, cy, dx, dy)
}

func (e *Eyes) drawOne(cx, cy, dx, dy int) {
	pupil := e.Size / 2
	highlight := e.Size / 4

	e.p.FillCircle(cx, cy, e.Size, Blue)
	px, py := cx+dx, cy+dy
	e.p.FillCircle(px, py, pupil, Black)
	e.p.FillCircle(px-pupil/3, py-pupil/3, highlight, White)
}

// DrawBlink renders both eyes with the vertical extent scaled by
// openness in [0..65535] (Q16): full squash at 0, fully open at max.
func (e *Eyes) DrawBlink(openness uint16) {
	cx, cy := e.p.w/2, e.p.h/2
	ry := int(mathx.LerpU16(2, uint16(e.Size), openness))
	for _, ex := range []int{cx - e.Spacing/2, cx + e.Spacing/2} {
		e.p.FillEllipse(ex, cy, e.Size, ry, Blue)
		if ry > e.Size/2 {
			e.p.FillEllipse(ex, cy, e.Size/2, ry/2, Black)
		}
	}
}
