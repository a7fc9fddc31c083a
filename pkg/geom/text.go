package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePoint parses an "x y" text pair.
func ParsePoint(s string) (Point, error) {
	a, b, err := parsePair(s)
	if err != nil {
		return Point{}, fmt.Errorf("parse point %q: %w", s, err)
	}
	return Point{X: a, Y: b}, nil
}

// ParseSize parses a "w h" text pair. Negative dimensions are rejected.
func ParseSize(s string) (Size, error) {
	a, b, err := parsePair(s)
	if err != nil {
		return Size{}, fmt.Errorf("parse size %q: %w", s, err)
	}
	if a < 0 || b < 0 {
		return Size{}, fmt.Errorf("parse size %q: negative dimension", s)
	}
	return Size{Width: a, Height: b}, nil
}

// String formats the point as an "x y" text pair.
func (p Point) String() string { return formatPair(p.X, p.Y) }

// String formats the size as a "w h" text pair.
func (s Size) String() string { return formatPair(s.Width, s.Height) }

func parsePair(s string) (float64, float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want 2 fields, got %d", len(fields))
	}
	a, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, 0, fmt.Errorf("values must be finite")
	}
	return a, b, nil
}

// formatPair uses the shortest representation that round-trips, so "10 10"
// stays "10 10" and "10.5 20" stays "10.5 20".
func formatPair(a, b float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64) + " " + strconv.FormatFloat(b, 'f', -1, 64)
}
