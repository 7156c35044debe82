package floor

import (
	"errors"
	"math"

	"arena-vision/pkg/geometry"
)

// ErrInconsistentIntersection reports that the line/viewport intersection
// produced an impossible point count. A line crossing a convex rectangle
// meets its border at exactly 0 or 2 points, so anything else is a geometry
// or precision defect, distinct from the normal "line misses the viewport"
// outcome.
var ErrInconsistentIntersection = errors.New("inconsistent line/viewport intersection")

// cornerEps deduplicates intersections landing on the same viewport corner
// through two different edge tests.
const cornerEps = 1e-9

// Boundary is an accepted arena edge: the two crossing points of the fitted
// line with the viewport border and their midpoint, in normalized-frame
// pixel coordinates.
type Boundary struct {
	P1     geometry.Point2D `json:"p1"`
	P2     geometry.Point2D `json:"p2"`
	Center geometry.Point2D `json:"center"`
	Line   geometry.Line    `json:"line"`
}

// IntersectViewport computes where the line crosses the border of a
// size.Width x size.Height viewport. ok is false when the line misses the
// viewport entirely, which is a normal outcome.
//
// Lines are split into a general and a near-vertical regime: once |A|
// reaches |B|*height the slope/intercept form loses too much precision and
// the x-intercept form is used instead, treating the residual B/A cross term
// as the only tilt.
func IntersectViewport(line geometry.Line, size geometry.Size) (p1, p2 geometry.Point2D, ok bool, err error) {
	w := float64(size.Width)
	h := float64(size.Height)

	if line.NearVertical(h) {
		x0 := line.XIntercept()
		if x0 < 0 || x0 > w {
			return geometry.Point2D{}, geometry.Point2D{}, false, nil
		}
		p1 = geometry.NewPoint2D(x0, 0)
		p2 = geometry.NewPoint2D(x0-(line.B/line.A)*h, h)
		return p1, p2, true, nil
	}

	slope, intercept := line.Slope()
	var points []geometry.Point2D

	// Top edge, y = 0.
	if x := -intercept / slope; x >= 0 && x <= w {
		points = append(points, geometry.NewPoint2D(x, 0))
	}
	// Bottom edge, y = h.
	if x := (h - intercept) / slope; x >= 0 && x <= w {
		points = append(points, geometry.NewPoint2D(x, h))
	}
	// Left edge, x = 0.
	if y := intercept; y >= 0 && y <= h {
		points = append(points, geometry.NewPoint2D(0, y))
	}
	// Right edge, x = w.
	if y := slope*w + intercept; y >= 0 && y <= h {
		points = append(points, geometry.NewPoint2D(w, y))
	}

	points = dedupeCorners(points)

	switch len(points) {
	case 0:
		return geometry.Point2D{}, geometry.Point2D{}, false, nil
	case 2:
		return points[0], points[1], true, nil
	default:
		return geometry.Point2D{}, geometry.Point2D{}, false, ErrInconsistentIntersection
	}
}

// NewBoundary builds the reported boundary from two viewport crossings.
// The center is the arithmetic midpoint and therefore always lies on the
// segment between the two points.
func NewBoundary(line geometry.Line, p1, p2 geometry.Point2D) *Boundary {
	return &Boundary{
		P1:     p1,
		P2:     p2,
		Center: p1.Midpoint(p2),
		Line:   line,
	}
}

func dedupeCorners(points []geometry.Point2D) []geometry.Point2D {
	out := points[:0]
	for _, p := range points {
		dup := false
		for _, q := range out {
			if math.Abs(p.X-q.X) <= cornerEps && math.Abs(p.Y-q.Y) <= cornerEps {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
