// ABOUTME: Grid snapping helpers for pointer positions and box corners.
// ABOUTME: Each coordinate rounds independently to the nearest grid multiple.
package geom

import "math"

// Snap rounds v to the nearest multiple of grid. A non-positive grid is a
// no-op so callers can pass a disabled grid size straight through.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint rounds both coordinates of p independently to the grid.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}
