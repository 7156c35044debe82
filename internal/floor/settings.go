// Package floor implements the arena boundary detection pipeline: frame
// normalization, patch grid geometry, per-frame boundary line fitting,
// edge validation, and line/viewport intersection.
package floor

import (
	"fmt"

	"arena-vision/pkg/geometry"
)

// Settings holds the tunable parameters of the boundary pipeline.
type Settings struct {
	// MinHeight is the camera altitude (meters) below which frames are
	// skipped. Also the reference altitude for the footprint crop.
	MinHeight float64 `json:"min_height"`

	// TargetSize is the normalized frame size fed to the feature extractor.
	TargetSize geometry.Size `json:"target_size"`

	// Feature grid geometry. Must match the patch classifier's training
	// configuration or predicted labels land on the wrong patch centers.
	KernelSize  int `json:"kernel_size"`
	Stride      int `json:"stride"`
	AverageSize int `json:"average_size"`

	// BoundaryRegularization is the fixed regularization constant of the
	// per-frame line fit.
	BoundaryRegularization float64 `json:"boundary_regularization"`

	// Edge validation thresholds.
	MinAntiFloorPatches         int     `json:"min_anti_floor_patches"`
	MinAntiFloorAppearanceRatio float64 `json:"min_anti_floor_appearance_ratio"`
	MinAntiFloorOnEdge          int     `json:"min_anti_floor_on_edge"`
}

// DefaultSettings returns the parameters tuned for the bottom camera.
func DefaultSettings() Settings {
	return Settings{
		MinHeight:  1.0,
		TargetSize: geometry.NewSize(256, 256),

		KernelSize:  9,
		Stride:      2,
		AverageSize: 4,

		// Matches the heavily regularized per-frame fit of the original
		// tuning; the separator only needs the coarse split direction.
		BoundaryRegularization: 0.025,

		MinAntiFloorPatches:         4,
		MinAntiFloorAppearanceRatio: 0.6,
		MinAntiFloorOnEdge:          2,
	}
}

// WithGeometry returns a copy of the settings with the feature grid geometry
// replaced, typically taken from a loaded patch model.
func (s Settings) WithGeometry(kernelSize, stride, averageSize int, target geometry.Size) Settings {
	s.KernelSize = kernelSize
	s.Stride = stride
	s.AverageSize = averageSize
	s.TargetSize = target
	return s
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if s.MinHeight <= 0 {
		return fmt.Errorf("min_height must be positive, got %v", s.MinHeight)
	}
	if s.TargetSize.Width <= 0 || s.TargetSize.Height <= 0 {
		return fmt.Errorf("invalid target size %dx%d", s.TargetSize.Width, s.TargetSize.Height)
	}
	if s.KernelSize <= 0 || s.Stride <= 0 || s.AverageSize <= 0 {
		return fmt.Errorf("invalid patch geometry: kernel=%d stride=%d average=%d",
			s.KernelSize, s.Stride, s.AverageSize)
	}
	if s.BoundaryRegularization <= 0 {
		return fmt.Errorf("boundary_regularization must be positive, got %v",
			s.BoundaryRegularization)
	}
	if s.MinAntiFloorPatches < 1 {
		return fmt.Errorf("min_anti_floor_patches must be at least 1, got %d",
			s.MinAntiFloorPatches)
	}
	if s.MinAntiFloorAppearanceRatio < 0 || s.MinAntiFloorAppearanceRatio > 1 {
		return fmt.Errorf("min_anti_floor_appearance_ratio must be in [0,1], got %v",
			s.MinAntiFloorAppearanceRatio)
	}
	if s.MinAntiFloorOnEdge < 0 {
		return fmt.Errorf("min_anti_floor_on_edge must not be negative, got %d",
			s.MinAntiFloorOnEdge)
	}
	return nil
}
