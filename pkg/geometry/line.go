package geometry

import "math"

// Line represents a line in general form A*x + B*y + C = 0.
type Line struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// NewLine creates a line from its general-form coefficients.
func NewLine(a, b, c float64) Line {
	return Line{A: a, B: b, C: c}
}

// Eval returns the signed value A*x + B*y + C at the given point.
// The sign tells which side of the line the point falls on.
func (l Line) Eval(p Point2D) float64 {
	return l.A*p.X + l.B*p.Y + l.C
}

// IsDegenerate returns true when both direction coefficients vanish and the
// line equation no longer describes a line.
func (l Line) IsDegenerate() bool {
	return l.A == 0 && l.B == 0
}

// Slope returns the slope and intercept of the y = slope*x + intercept form.
// Only meaningful when B is nonzero.
func (l Line) Slope() (slope, intercept float64) {
	return -l.A / l.B, -l.C / l.B
}

// XIntercept returns the x coordinate where the line crosses y = 0.
// Only meaningful when A is nonzero.
func (l Line) XIntercept() float64 {
	return -l.C / l.A
}

// NearVertical reports whether the line should be treated as vertical for a
// viewport of the given height. The comparison mirrors the precision guard
// used when intersecting the line with the viewport: once |A| dominates
// |B|*height the slope/intercept form is numerically unusable.
func (l Line) NearVertical(height float64) bool {
	return math.Abs(l.A) >= math.Abs(l.B*height)
}
