// Package geom provides the planar geometry used by the panelboard editor.
//
// All values are in document (canvas) units. The editor's persisted format
// stores positions and sizes as space-separated text pairs ("x y" and
// "w h"); [ParsePoint], [ParseSize], [Point.String] and [Size.String]
// convert between the two representations.
//
// # Rectangles
//
// [Rect] is an axis-aligned box anchored at its top-left corner. The
// relationship helpers ([Rect.Contains], [Rect.OverlapsX],
// [Rect.OverlapsY]) are what membership resolution and distance
// annotation are built on:
//
//	panel := geom.R(0, 0, 250, 350)
//	breaker := geom.R(10, 10, 60, 100)
//	panel.Contains(breaker) // true
//
// # Grid Snapping
//
// [Snap] rounds a point to the nearest multiple of a grid cell size. A cell
// size of zero (or less) disables snapping.
package geom
