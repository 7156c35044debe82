package roomba

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"arena-vision/pkg/geometry"
)

var frame640 = geometry.Size{Width: 640, Height: 480}

func TestPixelToRayCenter(t *testing.T) {
	ray := PixelToRay(geometry.NewPoint2D(320, 240), frame640, 94)
	if math.Abs(ray.X) > 1e-9 || math.Abs(ray.Y) > 1e-9 {
		t.Errorf("center pixel ray = %v, want straight down the axis", ray)
	}
	if ray.Z != -1 {
		t.Errorf("ray Z = %v, want -1", ray.Z)
	}
}

func TestPixelToRayCorner(t *testing.T) {
	// With a 90 degree diagonal AOV the frame corner sits 45 degrees off
	// axis: the radial component equals the focal component.
	square := geometry.Size{Width: 480, Height: 480}
	ray := PixelToRay(geometry.NewPoint2D(480, 480), square, 90)

	radial := math.Hypot(ray.X, ray.Y)
	if math.Abs(radial-1) > 1e-9 {
		t.Errorf("corner radial = %v, want 1", radial)
	}
	// Bottom-right corner: positive pixel offsets, negated by the focal
	// sign, so both camera-frame components point negative.
	if ray.X >= 0 || ray.Y >= 0 {
		t.Errorf("corner ray = %v, want both components negative", ray)
	}
}

func TestPixelToRayMonotonicRadius(t *testing.T) {
	prev := 0.0
	for _, x := range []float64{320, 400, 480, 560, 640} {
		ray := PixelToRay(geometry.NewPoint2D(x, 240), frame640, 94)
		r := math.Hypot(ray.X, ray.Y)
		if r < prev {
			t.Fatalf("radial component shrank moving off axis: %v after %v", r, prev)
		}
		prev = r
	}
}

func TestGroundPositionStraightDown(t *testing.T) {
	pos, err := GroundPosition(r3.Vec{Z: 1.065}, r3.Vec{Z: -1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pos.X) > 1e-9 || math.Abs(pos.Y) > 1e-9 || math.Abs(pos.Z-plateHeight) > 1e-9 {
		t.Errorf("pos = %v, want (0, 0, %v)", pos, plateHeight)
	}
}

func TestGroundPositionObliqueRay(t *testing.T) {
	// Two meters above the plate plane, ray 45 degrees forward: the hit is
	// two meters ahead.
	pos, err := GroundPosition(r3.Vec{X: 1, Y: 0, Z: 2 + plateHeight}, r3.Vec{X: 1, Z: -1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pos.X-3) > 1e-9 || math.Abs(pos.Y) > 1e-9 {
		t.Errorf("pos = %v, want (3, 0, %v)", pos, plateHeight)
	}
}

func TestGroundPositionDegenerateRays(t *testing.T) {
	if _, err := GroundPosition(r3.Vec{Z: 2}, r3.Vec{X: 1}); err == nil {
		t.Error("ray parallel to the ground accepted")
	}
	if _, err := GroundPosition(r3.Vec{Z: 2}, r3.Vec{Z: 1}); err == nil {
		t.Error("upward ray accepted")
	}
}
