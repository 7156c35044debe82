package roomba

import (
	"math"

	"arena-vision/pkg/geometry"
)

// Blob is one detected roomba plate: an oriented bounding box in pixel
// coordinates. Angle is in degrees; after orientation disambiguation it
// points from the plate toward the front of the robot.
type Blob struct {
	Center geometry.Point2D `json:"center"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Angle  float64          `json:"angle"`
}

// contourMoments holds the polygon moments needed for the shape gates and
// the principal axes. Computed in pure Go from the contour outline so the
// result does not depend on the OpenCV rasterization of the contour.
type contourMoments struct {
	Area             float64 // m00
	CentroidX        float64
	CentroidY        float64
	Nu20, Nu11, Nu02 float64 // normalized central second moments
}

// momentsOf computes polygon moments of a closed contour via the shoelace
// integrals. Winding order does not matter; the area is reported positive.
func momentsOf(contour []geometry.Point2D) (contourMoments, bool) {
	n := len(contour)
	if n < 3 {
		return contourMoments{}, false
	}

	var m00, m10, m01, m20, m11, m02 float64
	for i := 0; i < n; i++ {
		p := contour[i]
		q := contour[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		m00 += cross
		m10 += (p.X + q.X) * cross
		m01 += (p.Y + q.Y) * cross
		m20 += (p.X*p.X + p.X*q.X + q.X*q.X) * cross
		m02 += (p.Y*p.Y + p.Y*q.Y + q.Y*q.Y) * cross
		m11 += (p.X*q.Y + 2*p.X*p.Y + 2*q.X*q.Y + q.X*p.Y) * cross
	}
	m00 /= 2
	m10 /= 6
	m01 /= 6
	m20 /= 12
	m02 /= 12
	m11 /= 24

	if m00 == 0 {
		return contourMoments{}, false
	}
	if m00 < 0 {
		m00, m10, m01, m20, m11, m02 = -m00, -m10, -m01, -m20, -m11, -m02
	}

	cx := m10 / m00
	cy := m01 / m00
	mu20 := m20 - cx*m10
	mu02 := m02 - cy*m01
	mu11 := m11 - cx*m01

	return contourMoments{
		Area:      m00,
		CentroidX: cx,
		CentroidY: cy,
		Nu20:      mu20 / (m00 * m00),
		Nu11:      mu11 / (m00 * m00),
		Nu02:      mu02 / (m00 * m00),
	}, true
}

// principalAxes returns the unit eigenvectors of the covariance
// [[nu20, nu11], [nu11, nu02]], minor axis first, matching an ascending
// eigenvalue sort. The major axis is always perpendicular to the minor.
func (m contourMoments) principalAxes() (minor, major geometry.Point2D) {
	a, b, d := m.Nu20, m.Nu11, m.Nu02

	// Diagonal covariance: axes are the coordinate axes.
	if math.Abs(b) < 1e-12 {
		if a <= d {
			return geometry.Point2D{X: 1}, geometry.Point2D{Y: 1}
		}
		return geometry.Point2D{Y: 1}, geometry.Point2D{X: 1}
	}

	tr := a + d
	det := a*d - b*b
	disc := math.Sqrt(math.Max(tr*tr/4-det, 0))
	l1 := tr/2 - disc // smaller eigenvalue

	// (a-l1)x + b y = 0 with b != 0 has the nonzero solution (b, l1-a).
	norm := math.Hypot(b, l1-a)
	minor = geometry.Point2D{X: b / norm, Y: (l1 - a) / norm}
	major = geometry.Point2D{X: -minor.Y, Y: minor.X}
	return minor, major
}

// orientedBox builds the minimal box aligned to the contour's principal axes.
func orientedBox(contour []geometry.Point2D, m contourMoments) Blob {
	minor, major := m.principalAxes()

	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, p := range contour {
		u := minor.X*p.X + minor.Y*p.Y
		v := major.X*p.X + major.Y*p.Y
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	cu := (minU + maxU) / 2
	cv := (minV + maxV) / 2
	center := geometry.Point2D{
		X: minor.X*cu + major.X*cv,
		Y: minor.Y*cu + major.Y*cv,
	}

	return Blob{
		Center: center,
		Width:  maxU - minU,
		Height: maxV - minV,
		Angle:  -math.Atan2(major.X, major.Y) * 180 / math.Pi,
	}
}
