package floor

import (
	"arena-vision/pkg/geometry"
)

// RejectReason explains why a frame produced no boundary. It is diagnostic
// only; downstream consumers need only "boundary or no boundary".
type RejectReason int

const (
	// ReasonNone means the boundary was accepted.
	ReasonNone RejectReason = iota
	// ReasonSkipped means the frame was not processed (low or unknown altitude).
	ReasonSkipped
	// ReasonSingleClass means every patch carried the same label.
	ReasonSingleClass
	// ReasonFewAntiFloorPatches means too few patches fell on the antifloor
	// side of the fitted line.
	ReasonFewAntiFloorPatches
	// ReasonLowAppearanceRatio means the antifloor side of the line poorly
	// matched the actual antifloor labels.
	ReasonLowAppearanceRatio
	// ReasonNotOnEdge means the supporting antifloor patches never reached
	// the border of the grid; a real arena edge must touch the frame border.
	ReasonNotOnEdge
	// ReasonOutsideImage means the fitted line misses the visible viewport.
	ReasonOutsideImage
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "accepted"
	case ReasonSkipped:
		return "skipped"
	case ReasonSingleClass:
		return "single class"
	case ReasonFewAntiFloorPatches:
		return "insufficient antifloor patches"
	case ReasonLowAppearanceRatio:
		return "low appearance ratio"
	case ReasonNotOnEdge:
		return "not on image edge"
	case ReasonOutsideImage:
		return "outside image"
	default:
		return "unknown"
	}
}

// ValidateEdge decides whether a fitted line represents a real arena edge
// rather than classification noise. The three checks reject early in order:
//
//  1. Enough patches must fall on the antifloor side of the line.
//  2. Enough of those must actually be labeled antifloor.
//  3. Enough of the true-positive patches must sit on the grid border.
//
// Raising any threshold can only turn an accept into a reject.
func ValidateEdge(line geometry.Line, points []geometry.Point2D, grid *LabelGrid, s Settings) RejectReason {
	classified := 0
	for _, p := range points {
		if line.Eval(p) > 0 {
			classified++
		}
	}
	if classified < s.MinAntiFloorPatches {
		return ReasonFewAntiFloorPatches
	}

	truePositive := 0
	for i, p := range points {
		if line.Eval(p) > 0 && grid.Labels[i] == 1 {
			truePositive++
		}
	}
	if float64(truePositive)/float64(classified) < s.MinAntiFloorAppearanceRatio {
		return ReasonLowAppearanceRatio
	}

	onEdge := 0
	for i, p := range points {
		if grid.IsEdge(i) && line.Eval(p) > 0 && grid.Labels[i] == 1 {
			onEdge++
		}
	}
	if onEdge < s.MinAntiFloorOnEdge {
		return ReasonNotOnEdge
	}

	return ReasonNone
}
