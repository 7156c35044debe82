// Package colorutil provides shared color utilities for the arena vision node.
package colorutil

import (
	"image/color"
	"math"
)

// Overlay colors used by the debug renderer.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// HSVRange describes an inclusive HSV slice in OpenCV ranges
// (H 0-180, S 0-255, V 0-255).
type HSVRange struct {
	HMin float64 `json:"h_min"`
	HMax float64 `json:"h_max"`
	SMin float64 `json:"s_min"`
	SMax float64 `json:"s_max"`
	VMin float64 `json:"v_min"`
	VMax float64 `json:"v_max"`
}

// Contains reports whether the HSV triple falls inside the range.
func (r HSVRange) Contains(h, s, v float64) bool {
	return h >= r.HMin && h <= r.HMax &&
		s >= r.SMin && s <= r.SMax &&
		v >= r.VMin && v <= r.VMax
}

// ContainsRGB converts the RGB triple (0-255) to HSV and tests the range.
func (r HSVRange) ContainsRGB(red, green, blue float64) bool {
	return r.Contains(RGBToHSV(red, green, blue))
}
