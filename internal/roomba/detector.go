package roomba

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"arena-vision/pkg/colorutil"
	"arena-vision/pkg/geometry"
)

// Detector finds roomba plates in BGR frames. Per-frame Mats are created and
// released inside Detect; the detector itself is stateless apart from its
// parameters.
type Detector struct {
	params Params
}

// NewDetector validates the parameters and builds a detector.
func NewDetector(params Params) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("roomba detector params: %w", err)
	}
	return &Detector{params: params}, nil
}

// Params returns the detector configuration.
func (d *Detector) Params() Params { return d.params }

// Detect thresholds the frame to the plate colors, cleans the mask, and
// returns an oriented box per plate-sized blob.
func (d *Detector) Detect(frame gocv.Mat) ([]Blob, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	mask := gocv.NewMat()
	defer mask.Close()
	d.thresholdFrame(frame, &mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var blobs []Blob
	for i := 0; i < contours.Size(); i++ {
		contour := pointsOf(contours.At(i))
		m, ok := momentsOf(contour)
		if !ok {
			continue
		}
		if m.Area < d.params.MinArea || m.Area > d.params.MaxArea {
			continue
		}

		blob := orientedBox(contour, m)
		if blob.Height > blob.Width*d.params.MaxAspect ||
			blob.Width > blob.Height*d.params.MaxAspect {
			continue
		}

		d.orientBlob(frame, &blob)
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

// thresholdFrame builds the binary plate mask: the union of the three HSV
// slices, cleaned with a morphological open.
func (d *Detector) thresholdFrame(frame gocv.Mat, dst *gocv.Mat) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	combined := gocv.NewMatWithSize(frame.Rows(), frame.Cols(), gocv.MatTypeCV8U)
	defer combined.Close()
	combined.SetTo(gocv.NewScalar(0, 0, 0, 0))

	slice := gocv.NewMat()
	defer slice.Close()
	for _, r := range []colorutil.HSVRange{d.params.Green, d.params.RedLow, d.params.RedHigh} {
		gocv.InRangeWithScalar(hsv,
			gocv.NewScalar(r.HMin, r.SMin, r.VMin, 0),
			gocv.NewScalar(r.HMax, r.SMax, r.VMax, 0),
			&slice)
		gocv.BitwiseOr(combined, slice, &combined)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect,
		image.Pt(d.params.MorphologySize, d.params.MorphologySize))
	defer kernel.Close()
	gocv.MorphologyExWithParams(combined, dst, gocv.MorphOpen, kernel,
		d.params.MorphologyIterations, gocv.BorderConstant)
}

// orientBlob resolves the 180-degree ambiguity of the oriented box by color:
// when only the two rear corner windows match the plate colors the box is
// facing backwards and is flipped.
func (d *Detector) orientBlob(frame gocv.Mat, blob *Blob) {
	scale := d.params.CornerScale
	rads := blob.Angle * math.Pi / 180

	offX := geometry.Point2D{X: math.Cos(rads), Y: math.Sin(rads)}.
		Scale(blob.Width * (1 - scale) / 2)
	offY := geometry.Point2D{X: -math.Sin(rads), Y: math.Cos(rads)}.
		Scale(blob.Height * (1 - scale) / 2)

	var corners [2][2]bool
	for i := -1; i != 3; i += 2 {
		for j := -1; j != 3; j += 2 {
			center := blob.Center.
				Add(offX.Scale(float64(i))).
				Add(offY.Scale(float64(j)))
			r, g, b, ok := meanBGRWindow(frame, center,
				blob.Width*scale/2, blob.Height*scale/2)
			if !ok {
				continue
			}
			corners[(i+1)/2][(j+1)/2] = d.params.Green.ContainsRGB(r, g, b) ||
				d.params.RedLow.ContainsRGB(r, g, b) ||
				d.params.RedHigh.ContainsRGB(r, g, b)
		}
	}

	if !corners[0][0] && !corners[0][1] && corners[1][0] && corners[1][1] {
		blob.Angle = math.Mod(blob.Angle+180, 360)
	}
}

// meanBGRWindow averages the frame colors over an axis-aligned window and
// returns them as RGB. ok is false when the window misses the frame.
func meanBGRWindow(frame gocv.Mat, center geometry.Point2D, halfW, halfH float64) (r, g, b float64, ok bool) {
	x0 := int(math.Max(center.X-halfW, 0))
	y0 := int(math.Max(center.Y-halfH, 0))
	x1 := int(math.Min(center.X+halfW, float64(frame.Cols()-1)))
	y1 := int(math.Min(center.Y+halfH, float64(frame.Rows()-1)))
	if x1 < x0 || y1 < y0 {
		return 0, 0, 0, false
	}

	var sumB, sumG, sumR float64
	count := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			v := frame.GetVecbAt(y, x)
			sumB += float64(v[0])
			sumG += float64(v[1])
			sumR += float64(v[2])
			count++
		}
	}
	n := float64(count)
	return sumR / n, sumG / n, sumB / n, true
}

func pointsOf(pv gocv.PointVector) []geometry.Point2D {
	out := make([]geometry.Point2D, pv.Size())
	for i := 0; i < pv.Size(); i++ {
		p := pv.At(i)
		out[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}
