package roomba

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"arena-vision/pkg/geometry"
)

// plateHeight is the height of the roomba top plate above the ground plane
// in meters.
const plateHeight = 0.065

// PixelToRay converts pixel coordinates to a camera-frame viewing ray for a
// downward camera with the given diagonal angle of view (degrees). The ray
// points out of the lens along -Z; its length is not meaningful.
func PixelToRay(p geometry.Point2D, frame geometry.Size, diagonalAOV float64) r3.Vec {
	cols := float64(frame.Width)
	rows := float64(frame.Height)

	pixX := p.X - cols*0.5
	pixY := p.Y - rows*0.5
	pixR := math.Hypot(pixX, pixY)

	// Focal length in pixels from the diagonal angle of view.
	maxPhi := diagonalAOV * math.Pi / 180 / 2
	pixFocal := math.Hypot(rows, cols) * 0.5 / math.Tan(maxPhi)
	theta := math.Atan2(pixY, pixX)

	const cameraFocal = -1.0
	cameraRadius := cameraFocal * pixR / pixFocal

	return r3.Vec{
		X: cameraRadius * math.Cos(theta),
		Y: cameraRadius * math.Sin(theta),
		Z: cameraFocal,
	}
}

// GroundPosition intersects a world-frame ray from the camera position with
// the horizontal plane of the roomba plate and returns the plate position.
// Fails when the ray is parallel to the ground or points upward.
func GroundPosition(cameraPos, ray r3.Vec) (r3.Vec, error) {
	if ray.Z == 0 {
		return r3.Vec{}, fmt.Errorf("ray parallel to ground")
	}
	scale := -(cameraPos.Z - plateHeight) / ray.Z
	if scale < 0 {
		return r3.Vec{}, fmt.Errorf("ray does not reach the ground")
	}
	pos := r3.Add(cameraPos, r3.Scale(scale, ray))
	pos.Z = plateHeight
	return pos, nil
}
