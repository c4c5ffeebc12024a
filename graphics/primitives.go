// Package graphics draws the device's screens onto any displayer. It is
// deliberately primitive-level: shapes, glyphs and raw bitmap blits. No
// widget tree, no layout engine.
package graphics

import (
	"image/color"

	"tinygo.org/x/drivers"

	"displaycode-go/x/mathx"
)

// Primitives wraps a displayer with clipped drawing operations. All
// coordinates are screen pixels; operations outside the panel are
// silently clipped.
type Primitives struct {
	d    drivers.Displayer
	w, h int
}

func NewPrimitives(d drivers.Displayer) *Primitives {
	x, y := d.Size()
	return &Primitives{d: d, w: int(x), h: int(y)}
}

// Size returns the target dimensions in pixels.
func (p *Primitives) Size() (int, int) { return p.w, p.h }

// Flush pushes buffered pixels to the panel.
func (p *Primitives) Flush() error { return p.d.Display() }

func (p *Primitives) setPixel(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return
	}
	p.d.SetPixel(int16(x), int16(y), c)
}

// FillScreen paints every pixel.
func (p *Primitives) FillScreen(c color.RGBA) {
	p.FillRect(Rect{0, 0, p.w, p.h}, c)
}

// FillRect paints a filled rectangle, clipped to the screen.
func (p *Primitives) FillRect(r Rect, c color.RGBA) {
	x0 := mathx.Max(r.X, 0)
	y0 := mathx.Max(r.Y, 0)
	x1 := mathx.Min(r.X+r.W, p.w)
	y1 := mathx.Min(r.Y+r.H, p.h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p.d.SetPixel(int16(x), int16(y), c)
		}
	}
}

// DrawRect paints a one-pixel rectangle outline.
func (p *Primitives) DrawRect(r Rect, c color.RGBA) {
	p.DrawHLine(r.X, r.Y, r.W, c)
	p.DrawHLine(r.X, r.Y+r.H-1, r.W, c)
	p.DrawVLine(r.X, r.Y, r.H, c)
	p.DrawVLine(r.X+r.W-1, r.Y, r.H, c)
}

func (p *Primitives) DrawHLine(x, y, w int, c color.RGBA) {
	for i := 0; i < w; i++ {
		p.setPixel(x+i, y, c)
	}
}

func (p *Primitives) DrawVLine(x, y, h int, c color.RGBA) {
	for i := 0; i < h; i++ {
		p.setPixel(x, y+i, c)
	}
}

// DrawLine draws with Bresenham's algorithm.
func (p *Primitives) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := mathx.Abs(x1 - x0)
	dy := -mathx.Abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		p.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws a one-pixel circle outline (midpoint algorithm).
func (p *Primitives) DrawCircle(cx, cy, r int, c color.RGBA) {
	if r < 0 {
		return
	}
	x, y, err := r, 0, 1-r
	for x >= y {
		p.setPixel(cx+x, cy+y, c)
		p.setPixel(cx+y, cy+x, c)
		p.setPixel(cx-y, cy+x, c)
		p.setPixel(cx-x, cy+y, c)
		p.setPixel(cx-x, cy-y, c)
		p.setPixel(cx-y, cy-x, c)
		p.setPixel(cx+y, cy-x, c)
		p.setPixel(cx+x, cy-y, c)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// FillCircle paints a filled circle as horizontal spans.
func (p *Primitives) FillCircle(cx, cy, r int, c color.RGBA) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		dx := 0
		for dx*dx+dy*dy <= r*r {
			dx++
		}
		dx--
		p.DrawHLine(cx-dx, cy+dy, 2*dx+1, c)
	}
}

// FillEllipse paints a filled axis-aligned ellipse; used for blink
// frames where the eye collapses vertically.
func (p *Primitives) FillEllipse(cx, cy, rx, ry int, c color.RGBA) {
	if rx < 0 || ry <= 0 {
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		// dx = rx * sqrt(1 - (dy/ry)^2), in integer arithmetic
		rem := ry*ry - dy*dy
		dx := 0
		for dx*dx*ry*ry <= rx*rx*rem {
			dx++
		}
		dx--
		p.DrawHLine(cx-dx, cy+dy, 2*dx+1, c)
	}
}

// DrawText renders the builtin 5x7 font with its top-left at (x, y).
func (p *Primitives) DrawText(x, y int, s string, c color.RGBA) {
	cx := x
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\n' {
			cx = x
			y += TextLineHeight
			continue
		}
		g := glyph(ch)
		for col := 0; col < 5; col++ {
			bits := g[col]
			for row := 0; row < 7; row++ {
				if bits&(1<<row) != 0 {
					p.setPixel(cx+col, y+row, c)
				}
			}
		}
		cx += TextCharWidth
	}
}

// TextWidth returns the rendered width of a single-line string.
func TextWidth(s string) int {
	return len(s) * TextCharWidth
}

// DrawTextCentered renders s horizontally centered at row y.
func (p *Primitives) DrawTextCentered(y int, s string, c color.RGBA) {
	p.DrawText((p.w-TextWidth(s))/2, y, s, c)
}

// DrawBitmapRGB565 blits raw big-endian RGB565 pixel data of the given
// dimensions with its top-left at (x, y).
func (p *Primitives) DrawBitmapRGB565(x, y, w, h int, data []byte) {
	if len(data) < w*h*2 {
		return
	}
	i := 0
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			v := uint16(data[i])<<8 | uint16(data[i+1])
			i += 2
			p.setPixel(x+col, y+row, FromRGB565(v))
		}
	}
}

// DrawBitmapAtGrid blits a bitmap centered in a grid cell.
func (p *Primitives) DrawBitmapAtGrid(pos GridPosition, w, h int, data []byte) {
	cx, cy := pos.Center()
	p.DrawBitmapRGB565(cx-w/2, cy-h/2, w, h, data)
}
