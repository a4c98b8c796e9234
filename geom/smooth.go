// ABOUTME: Catmull-Rom spline smoothing for simplified freehand strokes.
// ABOUTME: Emits a fixed number of interpolated points per segment with clamped end neighbors.
package geom

// smoothSteps is the number of interpolated points generated per segment.
const smoothSteps = 10

// Smooth interpolates a polyline with a piecewise Catmull-Rom spline.
// Every consecutive point pair becomes smoothSteps interpolated points, and
// the final input point is appended, so len(out) == smoothSteps*(len(in)-1)+1
// for inputs of two or more points. Neighbors missing at the path ends are
// clamped by duplicating the nearest endpoint, which keeps the curve from
// overshooting.
func Smooth(points []Point) []Point {
	if len(points) < 2 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	out := make([]Point, 0, smoothSteps*(len(points)-1)+1)
	for i := 0; i < len(points)-1; i++ {
		p0 := points[clampIndex(i-1, len(points))]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[clampIndex(i+2, len(points))]

		for step := 0; step < smoothSteps; step++ {
			t := float64(step) / float64(smoothSteps)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	out = append(out, points[len(points)-1])
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// catmullRom evaluates the uniform Catmull-Rom cubic through p1..p2 at t in [0,1).
func catmullRom(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	return Point{
		X: 0.5 * (2*p1.X +
			(-p0.X+p2.X)*t +
			(2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 +
			(-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * (2*p1.Y +
			(-p0.Y+p2.Y)*t +
			(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 +
			(-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}
