// Package roomba detects roomba ground robots by their red or green top
// plates, which stand out against the peppered arena floor. It is a simpler,
// independent detector running beside the boundary pipeline.
package roomba

import (
	"fmt"

	"arena-vision/pkg/colorutil"
)

// Params holds the HSV slices and shape gates of the blob detector.
type Params struct {
	// Three hue slices: green plates plus red plates on both sides of the
	// hue wraparound.
	Green   colorutil.HSVRange `json:"green"`
	RedLow  colorutil.HSVRange `json:"red_low"`
	RedHigh colorutil.HSVRange `json:"red_high"`

	// Morphological open applied to the combined mask.
	MorphologySize       int `json:"morphology_size"`
	MorphologyIterations int `json:"morphology_iterations"`

	// Contour gates: blob area in pixels and maximum elongation of the
	// oriented box.
	MinArea   float64 `json:"min_area"`
	MaxArea   float64 `json:"max_area"`
	MaxAspect float64 `json:"max_aspect"`

	// Corner sampling window scale used to disambiguate plate orientation.
	CornerScale float64 `json:"corner_scale"`
}

// DefaultParams returns the slices tuned for the arena plates. The
// saturation/value floors assume reasonably lit frames; significantly darker
// footage needs lower floors.
func DefaultParams() Params {
	return Params{
		Green:   colorutil.HSVRange{HMin: 30, HMax: 90, SMin: 100, SMax: 255, VMin: 20, VMax: 255},
		RedLow:  colorutil.HSVRange{HMin: 0, HMax: 8, SMin: 100, SMax: 255, VMin: 20, VMax: 255},
		RedHigh: colorutil.HSVRange{HMin: 165, HMax: 179, SMin: 100, SMax: 255, VMin: 20, VMax: 255},

		MorphologySize:       3,
		MorphologyIterations: 2,

		MinArea:   2000,
		MaxArea:   15000,
		MaxAspect: 4,

		CornerScale: 0.2,
	}
}

// Validate checks the parameters for internal consistency.
func (p Params) Validate() error {
	if p.MorphologySize < 1 || p.MorphologyIterations < 0 {
		return fmt.Errorf("invalid morphology: size=%d iterations=%d",
			p.MorphologySize, p.MorphologyIterations)
	}
	if p.MinArea <= 0 || p.MaxArea < p.MinArea {
		return fmt.Errorf("invalid area gate: min=%v max=%v", p.MinArea, p.MaxArea)
	}
	if p.MaxAspect < 1 {
		return fmt.Errorf("max_aspect must be at least 1, got %v", p.MaxAspect)
	}
	if p.CornerScale <= 0 || p.CornerScale >= 1 {
		return fmt.Errorf("corner_scale must be in (0,1), got %v", p.CornerScale)
	}
	return nil
}
