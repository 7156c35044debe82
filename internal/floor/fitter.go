package floor

import (
	"fmt"

	"arena-vision/internal/classifier"
	"arena-vision/pkg/geometry"
)

// FitBoundary trains a linear separator between floor- and antifloor-labeled
// patch centers and returns it as a line in pixel space.
//
// The returned bool is false when no separator exists: a grid where every
// patch carries the same label has no boundary to fit. That is a normal
// outcome, not an error.
//
// The fit itself is the deterministic regularized least-squares classifier
// from the classifier package, so the same points, labels and lambda always
// yield the same line.
func FitBoundary(points []geometry.Point2D, grid *LabelGrid, lambda float64) (geometry.Line, bool, error) {
	if len(points) != len(grid.Labels) {
		return geometry.Line{}, false, fmt.Errorf(
			"point/label count mismatch: %d vs %d", len(points), len(grid.Labels))
	}

	sum := grid.Sum()
	if sum == 0 || sum == len(grid.Labels) {
		return geometry.Line{}, false, nil
	}

	samples := make([][]float64, len(points))
	for i, p := range points {
		samples[i] = []float64{p.X, p.Y}
	}

	model, err := classifier.TrainLinear(samples, grid.Labels, lambda)
	if err != nil {
		return geometry.Line{}, false, fmt.Errorf("fit boundary separator: %w", err)
	}

	// The decision function w.x + b is positive on the antifloor side, so
	// the weights are directly the line coefficients.
	line := geometry.NewLine(model.Weights[0], model.Weights[1], model.Bias)
	if line.IsDegenerate() {
		return geometry.Line{}, false, nil
	}
	return line, true, nil
}
