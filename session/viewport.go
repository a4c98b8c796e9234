// ABOUTME: Viewport is the pan offset and visible extent used for render culling.
// ABOUTME: Deliberately not part of document state; it never enters the operation log.
package session

import "github.com/scrawl-app/scrawl/geom"

// Viewport describes the visible window onto the infinite canvas.
type Viewport struct {
	Offset geom.Point
	Width  float64
	Height float64
}

// Pan shifts the viewport offset by delta.
func (v *Viewport) Pan(delta geom.Point) {
	v.Offset = v.Offset.Add(delta)
}

// Bounds returns the visible extent as a rectangle in canvas coordinates.
func (v Viewport) Bounds() geom.Rect {
	return geom.Rect{X: v.Offset.X, Y: v.Offset.Y, Width: v.Width, Height: v.Height}
}

// Visible reports whether an element bounding box intersects the viewport.
// A zero-sized viewport is treated as unbounded so headless callers see
// everything.
func (v Viewport) Visible(box geom.Rect) bool {
	if v.Width <= 0 || v.Height <= 0 {
		return true
	}
	return v.Bounds().Intersects(box)
}
