// ABOUTME: Ramer-Douglas-Peucker polyline simplification for freehand strokes.
// ABOUTME: Endpoints are always kept; output is never longer than the input.
package geom

// Simplify reduces a polyline with the Ramer-Douglas-Peucker algorithm.
// Points whose perpendicular deviation from the chord between the current
// segment endpoints is within tolerance are dropped. The first and last
// points are always retained, so the result of re-simplifying with the same
// tolerance is stable.
func Simplify(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	simplifyRange(points, 0, len(points)-1, tolerance, keep)

	out := make([]Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// simplifyRange marks the point of maximum deviation in (first, last) as kept
// and recurses on both halves when the deviation exceeds tolerance.
func simplifyRange(points []Point, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}

	maxDist := 0.0
	maxIdx := first
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(points[i], points[first], points[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist > tolerance {
		keep[maxIdx] = true
		simplifyRange(points, first, maxIdx, tolerance, keep)
		simplifyRange(points, maxIdx, last, tolerance, keep)
	}
}

// perpendicularDistance returns the distance from p to the line through a and b.
// A degenerate chord (a == b) falls back to point distance.
func perpendicularDistance(p, a, b Point) float64 {
	chord := b.Sub(a)
	length := chord.Length()
	if length == 0 {
		return p.Distance(a)
	}
	// Area of the parallelogram divided by the base length.
	cross := chord.X*(p.Y-a.Y) - chord.Y*(p.X-a.X)
	if cross < 0 {
		cross = -cross
	}
	return cross / length
}
