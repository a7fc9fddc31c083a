package geom

import "math"

// Point is a 2D coordinate in document space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) (dx, dy float64) { return p.X - q.X, p.Y - q.Y }

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h float64) Size { return Size{Width: w, Height: h} }

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Max returns the component-wise maximum of s and min.
// It is used to clamp resize requests to a per-type minimum.
func (s Size) Max(min Size) Size {
	return Size{Width: math.Max(s.Width, min.Width), Height: math.Max(s.Height, min.Height)}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// RectAt builds the rectangle occupied by an item of size s positioned at p.
func RectAt(p Point, s Size) Rect { return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height} }

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Position returns the top-left corner.
func (r Rect) Position() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// IsDegenerate reports whether the rectangle has no positive area.
func (r Rect) IsDegenerate() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether o lies fully inside r. Shared edges count as inside.
func (r Rect) Contains(o Rect) bool {
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Top() >= r.Top() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r or on its boundary.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// OverlapsX reports whether the horizontal extents of r and o intersect.
// Rectangles that only touch are not overlapping.
func (r Rect) OverlapsX(o Rect) bool { return r.Left() < o.Right() && o.Left() < r.Right() }

// OverlapsY reports whether the vertical extents of r and o intersect.
// Rectangles that only touch are not overlapping.
func (r Rect) OverlapsY(o Rect) bool { return r.Top() < o.Bottom() && o.Top() < r.Bottom() }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	left, top := math.Min(r.Left(), o.Left()), math.Min(r.Top(), o.Top())
	right, bottom := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Inset returns r shrunk by d on every side; a negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}
