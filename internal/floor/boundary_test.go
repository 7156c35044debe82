package floor

import (
	"errors"
	"math"
	"testing"

	"arena-vision/pkg/geometry"
)

var viewport = geometry.Size{Width: 48, Height: 48}

func TestIntersectViewportVertical(t *testing.T) {
	p1, p2, ok, err := IntersectViewport(geometry.NewLine(1, 0, -7), viewport)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if p1 != geometry.NewPoint2D(7, 0) || p2 != geometry.NewPoint2D(7, 48) {
		t.Errorf("crossings = %v, %v, want (7,0), (7,48)", p1, p2)
	}

	// Vertical line left of the viewport misses it.
	_, _, ok, err = IntersectViewport(geometry.NewLine(1, 0, 5), viewport)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("x = -5 must miss the viewport")
	}
}

func TestIntersectViewportHorizontalMidline(t *testing.T) {
	p1, p2, ok, err := IntersectViewport(geometry.NewLine(0, 1, -24), viewport)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	want1 := geometry.NewPoint2D(0, 24)
	want2 := geometry.NewPoint2D(48, 24)
	if !(p1 == want1 && p2 == want2) && !(p1 == want2 && p2 == want1) {
		t.Errorf("crossings = %v, %v, want %v, %v", p1, p2, want1, want2)
	}
}

func TestIntersectViewportParallelOutside(t *testing.T) {
	// y = height + 10: parallel to the top/bottom edges and fully outside.
	// This is an absent boundary, not an inconsistency.
	_, _, ok, err := IntersectViewport(geometry.NewLine(0, 1, -58), viewport)
	if err != nil {
		t.Fatalf("parallel-outside line must not error: %v", err)
	}
	if ok {
		t.Error("parallel-outside line must not cross")
	}
}

func TestIntersectViewportCornerDedup(t *testing.T) {
	// The main diagonal passes through (0,0) and (48,48); each corner
	// satisfies two edge tests and must be reported once.
	p1, p2, ok, err := IntersectViewport(geometry.NewLine(48, -48, 0), viewport)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	want1 := geometry.NewPoint2D(0, 0)
	want2 := geometry.NewPoint2D(48, 48)
	if !(p1 == want1 && p2 == want2) && !(p1 == want2 && p2 == want1) {
		t.Errorf("crossings = %v, %v, want the two corners", p1, p2)
	}
}

func TestIntersectViewportBranchContinuity(t *testing.T) {
	// Two steep lines through x = 24, one on each side of the regime
	// switch. Their crossings must agree closely.
	h := float64(viewport.Height)
	below := geometry.NewLine(0.99*h, 1, -0.99*h*24)
	above := geometry.NewLine(1.01*h, 1, -1.01*h*24)

	if below.NearVertical(h) || !above.NearVertical(h) {
		t.Fatal("test lines do not straddle the regime switch")
	}

	b1, b2, ok, err := IntersectViewport(below, viewport)
	if err != nil || !ok {
		t.Fatalf("below: ok=%v err=%v", ok, err)
	}
	a1, a2, ok, err := IntersectViewport(above, viewport)
	if err != nil || !ok {
		t.Fatalf("above: ok=%v err=%v", ok, err)
	}

	if b1.Distance(a1) > 0.1 || b2.Distance(a2) > 0.1 {
		t.Errorf("regimes disagree: (%v, %v) vs (%v, %v)", b1, b2, a1, a2)
	}
}

func TestIntersectViewportCrossingsOnBorder(t *testing.T) {
	lines := []geometry.Line{
		geometry.NewLine(1, 0, -24),
		geometry.NewLine(0, 1, -10),
		geometry.NewLine(1, 1, -48),
		geometry.NewLine(3, -1, -20),
		geometry.NewLine(-2, 5, -60),
	}
	rect := geometry.NewRect(0, 0, float64(viewport.Width), float64(viewport.Height))
	for _, line := range lines {
		p1, p2, ok, err := IntersectViewport(line, viewport)
		if err != nil {
			t.Fatalf("%+v: %v", line, err)
		}
		if !ok {
			continue
		}
		for _, p := range []geometry.Point2D{p1, p2} {
			if !rect.Contains(p) {
				t.Errorf("%+v: crossing %v outside the viewport", line, p)
			}
			if got := math.Abs(line.Eval(p)); got > 1e-6*(math.Abs(line.A)+math.Abs(line.B))*48 {
				t.Errorf("%+v: crossing %v off the line by %v", line, p, got)
			}
		}
		if p1.Distance(p2) <= cornerEps {
			t.Errorf("%+v: crossings coincide at %v", line, p1)
		}
	}
}

func TestNewBoundaryCenter(t *testing.T) {
	line := geometry.NewLine(0, 1, -24)
	p1 := geometry.NewPoint2D(0, 24)
	p2 := geometry.NewPoint2D(48, 24)

	b := NewBoundary(line, p1, p2)
	if b.Center != p2.Add(p1.Sub(p2).Scale(0.5)) {
		t.Errorf("Center = %v, want segment midpoint", b.Center)
	}
	rect := geometry.NewRect(0, 0, 48, 48)
	if !rect.Contains(b.Center) {
		t.Errorf("Center %v outside the viewport", b.Center)
	}
}

func TestErrInconsistentIntersectionIdentity(t *testing.T) {
	err := ErrInconsistentIntersection
	if !errors.Is(err, ErrInconsistentIntersection) {
		t.Fatal("sentinel must match itself through errors.Is")
	}
}
