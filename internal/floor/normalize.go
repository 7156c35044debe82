package floor

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"arena-vision/pkg/geometry"
)

// NormalizeFrame crops the frame so that the same real-world ground footprint
// is kept regardless of camera altitude, then resizes to the target size with
// bilinear interpolation.
//
// ok is false when height < minHeight; low-altitude frames are skipped
// without touching the image. The crop margin is computed per axis and taken
// symmetrically from both sides, so the crop stays centered.
func NormalizeFrame(frame image.Image, height, minHeight float64, target geometry.Size) (*image.RGBA, bool) {
	if height < minHeight {
		return nil, false
	}

	bounds := frame.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	ratio := height / minHeight
	marginX := cropMargin(w, ratio)
	marginY := cropMargin(h, ratio)

	crop := image.Rect(
		bounds.Min.X+marginX,
		bounds.Min.Y+marginY,
		bounds.Max.X-marginX,
		bounds.Max.Y-marginY,
	)

	dst := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), frame, crop, xdraw.Src, nil)
	return dst, true
}

// cropMargin returns the per-side margin, in whole pixels, removed from one
// axis. Truncation happens before the halving, matching the integer pixel
// arithmetic of the footprint contract.
func cropMargin(dim int, ratio float64) int {
	d := float64(dim)
	return int(d-math.Min(d/ratio, d)) / 2
}
