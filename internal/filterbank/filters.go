// Package filterbank generates the RFS texture filter bank and applies it to
// normalized frames, producing one feature vector per patch cell.
package filterbank

import (
	"fmt"
	"math"
)

// Filter is a single square convolution kernel.
type Filter struct {
	Size   int
	Kernel []float64 // row-major, Size*Size values
}

// At returns the kernel value at (row, col).
func (f Filter) At(row, col int) float64 {
	return f.Kernel[row*f.Size+col]
}

// Generate builds the RFS filter bank: an oriented edge filter and an
// oriented bar filter for every (sigma, orientation) pair, plus one Gaussian
// and one Laplacian-of-Gaussian at the coarsest sigma. Orientations are
// spread evenly over half a turn.
//
// Every filter is zero-mean and L1-normalized, so filter responses are
// comparable across scales.
func Generate(kernelSize int, sigmas []float64, nOrientations int) ([]Filter, error) {
	if kernelSize < 3 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("kernel size must be odd and at least 3, got %d", kernelSize)
	}
	if len(sigmas) == 0 {
		return nil, fmt.Errorf("at least one sigma is required")
	}
	if nOrientations < 1 {
		return nil, fmt.Errorf("at least one orientation is required, got %d", nOrientations)
	}

	filters := make([]Filter, 0, len(sigmas)*nOrientations*2+2)
	for _, sigma := range sigmas {
		if sigma <= 0 {
			return nil, fmt.Errorf("sigma must be positive, got %v", sigma)
		}
		for o := 0; o < nOrientations; o++ {
			angle := math.Pi * float64(o) / float64(nOrientations)
			filters = append(filters,
				anisotropic(kernelSize, sigma, angle, 1), // edge
				anisotropic(kernelSize, sigma, angle, 2), // bar
			)
		}
	}

	coarse := sigmas[len(sigmas)-1]
	filters = append(filters, gaussian(kernelSize, coarse), logFilter(kernelSize, coarse))
	return filters, nil
}

// anisotropic builds an oriented derivative-of-Gaussian filter. The
// derivative of the given order is taken across the orientation axis while
// the support along the axis is stretched 3x, giving the elongated edge/bar
// responses of the RFS set.
func anisotropic(size int, sigma, angle float64, order int) Filter {
	f := Filter{Size: size, Kernel: make([]float64, size*size)}
	half := float64(size-1) / 2
	sin, cos := math.Sincos(angle)

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			x := float64(col) - half
			y := float64(row) - half
			// Rotate into the filter frame.
			u := cos*x + sin*y
			v := -sin*x + cos*y
			f.Kernel[row*size+col] = gauss1d(3*sigma, u, 0) * gauss1d(sigma, v, order)
		}
	}
	return normalize(f)
}

// gaussian builds an isotropic Gaussian filter.
func gaussian(size int, sigma float64) Filter {
	f := Filter{Size: size, Kernel: make([]float64, size*size)}
	half := float64(size-1) / 2
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			x := float64(col) - half
			y := float64(row) - half
			f.Kernel[row*size+col] = gauss1d(sigma, x, 0) * gauss1d(sigma, y, 0)
		}
	}
	return normalize(f)
}

// logFilter builds a Laplacian-of-Gaussian filter.
func logFilter(size int, sigma float64) Filter {
	f := Filter{Size: size, Kernel: make([]float64, size*size)}
	half := float64(size-1) / 2
	s2 := sigma * sigma
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			x := float64(col) - half
			y := float64(row) - half
			r2 := x*x + y*y
			g := math.Exp(-r2/(2*s2)) / (2 * math.Pi * s2)
			f.Kernel[row*size+col] = g * (r2 - 2*s2) / (s2 * s2)
		}
	}
	return normalize(f)
}

// gauss1d evaluates a 1D Gaussian or one of its first two derivatives.
func gauss1d(sigma, x float64, order int) float64 {
	s2 := sigma * sigma
	g := math.Exp(-x*x/(2*s2)) / math.Sqrt(2*math.Pi*s2)
	switch order {
	case 0:
		return g
	case 1:
		return -g * x / s2
	default:
		return g * (x*x - s2) / (s2 * s2)
	}
}

// normalize shifts the kernel to zero mean and scales it to unit L1 norm.
func normalize(f Filter) Filter {
	n := len(f.Kernel)
	mean := 0.0
	for _, v := range f.Kernel {
		mean += v
	}
	mean /= float64(n)

	sumAbs := 0.0
	for i := range f.Kernel {
		f.Kernel[i] -= mean
		sumAbs += math.Abs(f.Kernel[i])
	}
	if sumAbs > 0 {
		for i := range f.Kernel {
			f.Kernel[i] /= sumAbs
		}
	}
	return f
}
