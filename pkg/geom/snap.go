package geom

import "math"

// Snap rounds p to the nearest multiple of cell on each axis.
// A non-positive cell disables snapping and returns p unchanged.
func Snap(p Point, cell float64) Point {
	if cell <= 0 {
		return p
	}
	return Point{X: snap(p.X, cell), Y: snap(p.Y, cell)}
}

// SnapSize rounds s to the nearest multiple of cell on each axis, never
// producing a dimension smaller than one cell.
func SnapSize(s Size, cell float64) Size {
	if cell <= 0 {
		return s
	}
	return Size{Width: math.Max(cell, snap(s.Width, cell)), Height: math.Max(cell, snap(s.Height, cell))}
}

func snap(v, cell float64) float64 {
	// Adding 0 normalizes -0 so snapped values format as "0".
	return math.Round(v/cell)*cell + 0
}
