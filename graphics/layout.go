package graphics

// Layout constants for the 360x360 round panel. The usable surface is
// treated as a 3x3 grid of 120px cells; screens place content by grid
// cell rather than raw coordinates.

const (
	ScreenWidth  = 360
	ScreenHeight = 360

	ScreenCenterX = ScreenWidth / 2
	ScreenCenterY = ScreenHeight / 2

	GridSize = 120

	MarginSmall  = 10
	MarginMedium = 20
	MarginLarge  = 30

	// Builtin 5x7 font cell, including 1px spacing.
	TextCharWidth  = 6
	TextLineHeight = 10
)

// Rect is an inclusive-origin, exclusive-extent screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// ContentArea is the screen minus the medium margin on all sides.
func ContentArea() Rect {
	return Rect{
		X: MarginMedium,
		Y: MarginMedium,
		W: ScreenWidth - 2*MarginMedium,
		H: ScreenHeight - 2*MarginMedium,
	}
}

// GridPosition names a cell of the 3x3 layout grid.
type GridPosition uint8

const (
	TopLeft GridPosition = iota
	TopCenter
	TopRight
	MiddleLeft
	MiddleCenter
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

// Cell returns the cell's rectangle.
func (p GridPosition) Cell() Rect {
	col := int(p) % 3
	row := int(p) / 3
	return Rect{X: col * GridSize, Y: row * GridSize, W: GridSize, H: GridSize}
}

// Origin returns the cell's top-left corner.
func (p GridPosition) Origin() (int, int) {
	c := p.Cell()
	return c.X, c.Y
}

// Center returns the cell's midpoint.
func (p GridPosition) Center() (int, int) {
	return p.Cell().Center()
}
