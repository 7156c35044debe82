package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPointOps(t *testing.T) {
	p := NewPoint2D(3, 4)
	q := NewPoint2D(0, 0)

	if got := p.Distance(q); !almostEqual(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := p.Add(q); got != p {
		t.Errorf("Add identity = %v, want %v", got, p)
	}
	if got := p.Sub(p); got != (Point2D{}) {
		t.Errorf("Sub self = %v, want origin", got)
	}
	if got := p.Scale(2); got != (Point2D{X: 6, Y: 8}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestMidpoint(t *testing.T) {
	tests := []struct {
		p, q, want Point2D
	}{
		{NewPoint2D(0, 0), NewPoint2D(10, 0), NewPoint2D(5, 0)},
		{NewPoint2D(-2, -2), NewPoint2D(2, 2), NewPoint2D(0, 0)},
		{NewPoint2D(1, 1), NewPoint2D(1, 1), NewPoint2D(1, 1)},
	}
	for _, tt := range tests {
		got := tt.p.Midpoint(tt.q)
		if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) {
			t.Errorf("Midpoint(%v, %v) = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 10, 20)

	tests := []struct {
		p    Point2D
		want bool
	}{
		{NewPoint2D(5, 10), true},
		{NewPoint2D(0, 0), true},   // corners inclusive
		{NewPoint2D(10, 20), true}, // far corner inclusive
		{NewPoint2D(-0.1, 5), false},
		{NewPoint2D(5, 20.1), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if c := r.Center(); c != (Point2D{X: 5, Y: 10}) {
		t.Errorf("Center = %v", c)
	}
}

func TestLineEval(t *testing.T) {
	// x = 5, positive side to the right.
	l := NewLine(1, 0, -5)

	if got := l.Eval(NewPoint2D(5, 100)); !almostEqual(got, 0) {
		t.Errorf("Eval on line = %v, want 0", got)
	}
	if got := l.Eval(NewPoint2D(8, 0)); got <= 0 {
		t.Errorf("Eval right of line = %v, want positive", got)
	}
	if got := l.Eval(NewPoint2D(2, 0)); got >= 0 {
		t.Errorf("Eval left of line = %v, want negative", got)
	}
}

func TestLineNearVertical(t *testing.T) {
	tests := []struct {
		line   Line
		height float64
		want   bool
	}{
		{NewLine(1, 0, 0), 100, true},    // vertical
		{NewLine(0, 1, -5), 100, false},  // horizontal
		{NewLine(1, 1, 0), 100, false},   // diagonal, |a| < |b|*h
		{NewLine(100, 1, 0), 100, true},  // boundary case |a| == |b|*h
		{NewLine(101, 1, 0), 100, true},  // just past
		{NewLine(99, 1, 0), 100, false},  // just under
		{NewLine(-100, 1, 0), 100, true}, // sign-insensitive
	}
	for _, tt := range tests {
		if got := tt.line.NearVertical(tt.height); got != tt.want {
			t.Errorf("NearVertical(%+v, %v) = %v, want %v", tt.line, tt.height, got, tt.want)
		}
	}
}

func TestLineSlopeForms(t *testing.T) {
	// y = 2x + 3 as 2x - y + 3 = 0.
	l := NewLine(2, -1, 3)
	slope, intercept := l.Slope()
	if !almostEqual(slope, 2) || !almostEqual(intercept, 3) {
		t.Errorf("Slope() = %v, %v, want 2, 3", slope, intercept)
	}

	// x = 7.
	v := NewLine(1, 0, -7)
	if got := v.XIntercept(); !almostEqual(got, 7) {
		t.Errorf("XIntercept = %v, want 7", got)
	}
}

func TestLineDegenerate(t *testing.T) {
	if !NewLine(0, 0, 3).IsDegenerate() {
		t.Error("0x + 0y + 3 = 0 should be degenerate")
	}
	if NewLine(0, 1, 3).IsDegenerate() {
		t.Error("horizontal line should not be degenerate")
	}
}

func TestCentroid(t *testing.T) {
	points := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := Centroid(points); got != (Point2D{X: 5, Y: 5}) {
		t.Errorf("Centroid = %v, want (5,5)", got)
	}
	if got := Centroid(nil); got != (Point2D{}) {
		t.Errorf("Centroid(nil) = %v, want origin", got)
	}
}
