package colorutil

import (
	"math"
	"testing"
)

func close(a, b float64) bool {
	return math.Abs(a-b) < 0.5
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"white", 255, 255, 255, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 128},
	}
	for _, tt := range tests {
		h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
		if !close(h, tt.h) || !close(s, tt.s) || !close(v, tt.v) {
			t.Errorf("%s: RGBToHSV = (%.1f, %.1f, %.1f), want (%.1f, %.1f, %.1f)",
				tt.name, h, s, v, tt.h, tt.s, tt.v)
		}
	}
}

func TestHSVRangeContains(t *testing.T) {
	green := HSVRange{HMin: 30, HMax: 90, SMin: 100, SMax: 255, VMin: 20, VMax: 255}

	if !green.Contains(60, 200, 128) {
		t.Error("mid-green HSV should be inside the green slice")
	}
	if green.Contains(10, 200, 128) {
		t.Error("red hue should be outside the green slice")
	}
	if green.Contains(60, 50, 128) {
		t.Error("washed-out green should be outside the slice")
	}

	if !green.ContainsRGB(0, 255, 0) {
		t.Error("pure green RGB should be inside the green slice")
	}
	if green.ContainsRGB(255, 0, 0) {
		t.Error("pure red RGB should be outside the green slice")
	}
}
