package collision

import "math"

// DefaultBoxSize is the edge length of one broad-phase grid cell in world units.
const DefaultBoxSize = 128.0

// Vec is a world position or a movement direction. Layer separates shapes
// that never interact; it is compared for equality only.
type Vec struct {
	X     float64
	Y     float64
	Layer int32
}

// Add returns v translated by d (layer included).
func (v Vec) Add(d Vec) Vec {
	return Vec{X: v.X + d.X, Y: v.Y + d.Y, Layer: v.Layer + d.Layer}
}

// Size is the width/height extent of a shape. Both components are >= 0.
type Size struct {
	W float64
	H float64
}

func clampSize(s Size) Size {
	if s.W < 0 || math.IsNaN(s.W) {
		s.W = 0
	}
	if s.H < 0 || math.IsNaN(s.H) {
		s.H = 0
	}
	return s
}

// CellKey identifies one BoxSize×BoxSize grid cell.
type CellKey struct {
	X int32
	Y int32
}

// Cell coordinates are kept one step inside the int32 range so a range
// loop ending at maxCell always terminates.
const (
	minCell = math.MinInt32 + 1
	maxCell = math.MaxInt32 - 1
)

func toCell(v, boxSize float64) int32 {
	c := math.Ceil(v / boxSize)
	switch {
	case math.IsNaN(c):
		return 0
	case c < minCell:
		return minCell
	case c > maxCell:
		return maxCell
	}
	return int32(c)
}

// finite reports whether d can be applied as a movement.
func finite(d Vec) bool {
	return !math.IsNaN(d.X) && !math.IsNaN(d.Y) && !math.IsInf(d.X, 0) && !math.IsInf(d.Y, 0)
}

// CellsOf returns every grid cell spanned by the shape's bounding box,
// inclusive on both ends. A zero-size shape still occupies one cell.
func CellsOf(s Shape, boxSize float64) []CellKey {
	if boxSize <= 0 {
		boxSize = DefaultBoxSize
	}
	x0, x1 := toCell(s.MinX(), boxSize), toCell(s.MaxX(), boxSize)
	y0, y1 := toCell(s.MinY(), boxSize), toCell(s.MaxY(), boxSize)
	n := (int(x1) - int(x0) + 1) * (int(y1) - int(y0) + 1)
	if n <= 0 || n > 1024 {
		n = 1024
	}
	cells := make([]CellKey, 0, n)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			cells = append(cells, CellKey{X: cx, Y: cy})
		}
	}
	return cells
}

// boxInside reports whether a's bounding box lies within b's.
func boxInside(a, b Shape) bool {
	return a.MinX() >= b.MinX() && a.MaxX() <= b.MaxX() &&
		a.MinY() >= b.MinY() && a.MaxY() <= b.MaxY()
}

func sameBox(a, b Shape) bool {
	return a.MinX() == b.MinX() && a.MaxX() == b.MaxX() &&
		a.MinY() == b.MinY() && a.MaxY() == b.MaxY()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
