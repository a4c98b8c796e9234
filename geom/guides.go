// ABOUTME: Alignment-guide detection between a candidate box and the other elements.
// ABOUTME: Guides are transient render hints computed during create/drag/resize previews.
package geom

import "math"

// GuideThreshold is the pixel distance within which two edges are
// considered aligned.
const GuideThreshold = 5.0

// GuideAxis identifies the orientation of an alignment guide line.
type GuideAxis string

const (
	// GuideVertical is a vertical guide produced by matching x values.
	GuideVertical GuideAxis = "vertical"
	// GuideHorizontal is a horizontal guide produced by matching y values.
	GuideHorizontal GuideAxis = "horizontal"
)

// Guide is a single alignment hint segment. For a vertical guide, At is the
// shared x value and Start/End span the guide along y; for a horizontal
// guide the axes swap.
type Guide struct {
	Axis  GuideAxis
	At    float64
	Start float64
	End   float64
}

// AlignmentGuides compares the candidate box against every other box and
// emits one guide per matching edge pair. Corresponding values are compared:
// left against left, right against right, centerX against centerX, and the
// same for top/bottom/centerY. A match within GuideThreshold produces a
// guide at the other box's value spanning the union of both boxes along the
// perpendicular axis.
func AlignmentGuides(candidate Rect, others []Rect) []Guide {
	var guides []Guide
	for _, o := range others {
		union := candidate.Union(o)

		xPairs := [][2]float64{
			{candidate.Left(), o.Left()},
			{candidate.Right(), o.Right()},
			{candidate.CenterX(), o.CenterX()},
		}
		for _, pair := range xPairs {
			if math.Abs(pair[0]-pair[1]) < GuideThreshold {
				guides = append(guides, Guide{
					Axis:  GuideVertical,
					At:    pair[1],
					Start: union.Top(),
					End:   union.Bottom(),
				})
			}
		}

		yPairs := [][2]float64{
			{candidate.Top(), o.Top()},
			{candidate.Bottom(), o.Bottom()},
			{candidate.CenterY(), o.CenterY()},
		}
		for _, pair := range yPairs {
			if math.Abs(pair[0]-pair[1]) < GuideThreshold {
				guides = append(guides, Guide{
					Axis:  GuideHorizontal,
					At:    pair[1],
					Start: union.Left(),
					End:   union.Right(),
				})
			}
		}
	}
	return guides
}
