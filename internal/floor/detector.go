package floor

import (
	"fmt"
	"image"

	"arena-vision/pkg/geometry"
)

// FeatureGrid holds one texture feature vector per patch cell, flattened
// row-major, as produced by the feature extractor.
type FeatureGrid struct {
	Rows    int
	Cols    int
	Vectors [][]float64
}

// FeatureExtractor turns a normalized frame into a grid of feature vectors.
// Implementations must use the same patch geometry the detector is
// configured with.
type FeatureExtractor interface {
	Extract(frame image.Image) (*FeatureGrid, error)
}

// PatchClassifier labels a single feature vector: 0 floor, 1 antifloor.
// Implementations must be safe for concurrent read-only use; one loaded
// model may serve several camera streams.
type PatchClassifier interface {
	Predict(features []float64) int
}

// Result is the per-frame outcome. Exactly one of three states holds:
// the frame was skipped, the frame yielded no boundary (Reject says why),
// or Boundary is set.
type Result struct {
	Skipped  bool
	Reject   RejectReason
	Boundary *Boundary

	// Diagnostics for the debug renderer; nil/empty on skipped frames.
	Normalized *image.RGBA
	Grid       *LabelGrid
	Points     []geometry.Point2D
	Line       *geometry.Line
}

// Detector runs the full boundary pipeline for one camera stream. All
// per-frame state is owned by the ProcessFrame call; the extractor and
// classifier are shared read-only.
type Detector struct {
	settings  Settings
	layout    PatchLayout
	extractor FeatureExtractor
	clf       PatchClassifier
}

// NewDetector validates the settings and builds a detector.
func NewDetector(settings Settings, extractor FeatureExtractor, clf PatchClassifier) (*Detector, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("floor detector settings: %w", err)
	}
	if extractor == nil || clf == nil {
		return nil, fmt.Errorf("floor detector needs an extractor and a classifier")
	}
	return &Detector{
		settings: settings,
		layout: PatchLayout{
			KernelSize:  settings.KernelSize,
			Stride:      settings.Stride,
			AverageSize: settings.AverageSize,
		},
		extractor: extractor,
		clf:       clf,
	}, nil
}

// Settings returns the detector configuration.
func (d *Detector) Settings() Settings { return d.settings }

// ProcessFrame runs the pipeline on one raw frame at the given camera
// altitude. A frame that produces no boundary is a normal outcome and is
// reported through Result, not through the error. The error is reserved for
// extraction failures and internal-consistency defects.
func (d *Detector) ProcessFrame(frame image.Image, height float64) (Result, error) {
	normalized, ok := NormalizeFrame(frame, height, d.settings.MinHeight, d.settings.TargetSize)
	if !ok {
		return Result{Skipped: true, Reject: ReasonSkipped}, nil
	}

	features, err := d.extractor.Extract(normalized)
	if err != nil {
		return Result{}, fmt.Errorf("extract features: %w", err)
	}

	labels := make([]int, len(features.Vectors))
	for i, v := range features.Vectors {
		labels[i] = d.clf.Predict(v)
	}
	grid, err := NewLabelGrid(features.Rows, features.Cols, labels)
	if err != nil {
		return Result{}, fmt.Errorf("build label grid: %w", err)
	}

	points := d.layout.PatchCenters(grid.Rows, grid.Cols)

	res := Result{
		Normalized: normalized,
		Grid:       grid,
		Points:     points,
	}

	line, found, err := FitBoundary(points, grid, d.settings.BoundaryRegularization)
	if err != nil {
		return Result{}, err
	}
	if !found {
		res.Reject = ReasonSingleClass
		return res, nil
	}
	res.Line = &line

	if reason := ValidateEdge(line, points, grid, d.settings); reason != ReasonNone {
		res.Reject = reason
		return res, nil
	}

	p1, p2, crosses, err := IntersectViewport(line, d.settings.TargetSize)
	if err != nil {
		// Geometry defect, not an absent boundary; keep the diagnostics
		// so the frame can still be rendered.
		return res, err
	}
	if !crosses {
		res.Reject = ReasonOutsideImage
		return res, nil
	}

	res.Boundary = NewBoundary(line, p1, p2)
	return res, nil
}
