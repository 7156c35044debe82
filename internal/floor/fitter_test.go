package floor

import (
	"math"
	"testing"

	"arena-vision/pkg/geometry"
)

var testLayout = PatchLayout{KernelSize: 9, Stride: 2, AverageSize: 4}

// splitGrid builds a rows x cols grid whose rightmost antiCols columns are
// labeled antifloor.
func splitGrid(t *testing.T, rows, cols, antiCols int) (*LabelGrid, []geometry.Point2D) {
	t.Helper()
	labels := make([]int, rows*cols)
	for row := 0; row < rows; row++ {
		for col := cols - antiCols; col < cols; col++ {
			labels[row*cols+col] = 1
		}
	}
	grid, err := NewLabelGrid(rows, cols, labels)
	if err != nil {
		t.Fatal(err)
	}
	return grid, testLayout.PatchCenters(rows, cols)
}

func TestFitBoundarySingleClassAbsent(t *testing.T) {
	for _, anti := range []int{0, 4} {
		grid, points := splitGrid(t, 4, 4, anti)
		_, found, err := FitBoundary(points, grid, 0.025)
		if err != nil {
			t.Fatalf("antiCols=%d: %v", anti, err)
		}
		if found {
			t.Errorf("antiCols=%d: single-class grid must yield no boundary", anti)
		}
	}
}

func TestFitBoundaryVerticalSplit(t *testing.T) {
	grid, points := splitGrid(t, 4, 4, 2)
	line, found, err := FitBoundary(points, grid, 0.025)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("two-class grid must yield a boundary")
	}

	// Columns sit at x = 7, 18, 29, 40; the separator must fall between
	// the floor columns and the antifloor columns and be near-vertical.
	if line.B != 0 && math.Abs(line.A) < math.Abs(line.B)*10 {
		t.Errorf("separator (%v, %v) is not near-vertical", line.A, line.B)
	}
	x0 := line.XIntercept()
	if x0 < 18 || x0 > 29 {
		t.Errorf("separator crosses at x=%v, want between 18 and 29", x0)
	}

	// The antifloor side must be the positive side.
	for i, p := range points {
		v := line.Eval(p)
		if grid.Labels[i] == 1 && v <= 0 {
			t.Errorf("antifloor patch %v on non-positive side (%v)", p, v)
		}
		if grid.Labels[i] == 0 && v >= 0 {
			t.Errorf("floor patch %v on non-negative side (%v)", p, v)
		}
	}
}

func TestFitBoundaryHorizontalSplit(t *testing.T) {
	// Bottom two rows antifloor.
	labels := make([]int, 16)
	for i := 8; i < 16; i++ {
		labels[i] = 1
	}
	grid, err := NewLabelGrid(4, 4, labels)
	if err != nil {
		t.Fatal(err)
	}
	points := testLayout.PatchCenters(4, 4)

	line, found, err := FitBoundary(points, grid, 0.025)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected a boundary")
	}
	if line.NearVertical(47) {
		t.Errorf("horizontal split produced a near-vertical line %+v", line)
	}
	// y = -C/B must fall between the rows at y=18 and y=29.
	_, intercept := line.Slope()
	if intercept < 18 || intercept > 29 {
		t.Errorf("separator crosses at y=%v, want between 18 and 29", intercept)
	}
}

func TestFitBoundaryDeterministic(t *testing.T) {
	grid, points := splitGrid(t, 4, 4, 2)

	first, found, err := FitBoundary(points, grid, 0.025)
	if err != nil || !found {
		t.Fatalf("fit failed: found=%v err=%v", found, err)
	}
	for i := 0; i < 5; i++ {
		line, found, err := FitBoundary(points, grid, 0.025)
		if err != nil || !found {
			t.Fatalf("refit %d failed: found=%v err=%v", i, found, err)
		}
		if line != first {
			t.Fatalf("refit %d produced %+v, first was %+v", i, line, first)
		}
	}
}

func TestFitBoundaryCountMismatch(t *testing.T) {
	grid, points := splitGrid(t, 4, 4, 2)
	if _, _, err := FitBoundary(points[:3], grid, 0.025); err == nil {
		t.Error("mismatched point/label counts must error")
	}
}
