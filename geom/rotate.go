// ABOUTME: Incremental rotation-delta computation for the rotate gesture.
// ABOUTME: Returns signed degrees between two pointer positions about a pivot.
package geom

import "math"

// RotationDelta returns the signed angular difference, in degrees, between
// the polar angles of prev and cur about pivot. The result is normalized to
// (-180, 180] so an incremental rotate gesture never jumps a full turn when
// the pointer crosses the negative x axis.
func RotationDelta(pivot, prev, cur Point) float64 {
	prevAngle := math.Atan2(prev.Y-pivot.Y, prev.X-pivot.X)
	curAngle := math.Atan2(cur.Y-pivot.Y, cur.X-pivot.X)
	delta := (curAngle - prevAngle) * 180 / math.Pi
	for delta > 180 {
		delta -= 360
	}
	for delta <= -180 {
		delta += 360
	}
	return delta
}
