package filterbank

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"arena-vision/internal/floor"
	"arena-vision/pkg/geometry"
)

// Applicator convolves normalized frames with a filter bank and pools the
// responses into per-patch feature vectors. One Applicator serves one camera
// stream; it reuses its kernel Mats across frames and is not safe for
// concurrent use.
type Applicator struct {
	kernels     []gocv.Mat
	kernelSize  int
	stride      int
	averageSize int
	target      geometry.Size
}

// NewApplicator uploads the filter bank into OpenCV kernels.
func NewApplicator(filters []Filter, target geometry.Size, stride, averageSize int) (*Applicator, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("empty filter bank")
	}
	if stride < 1 || averageSize < 1 {
		return nil, fmt.Errorf("invalid sampling: stride=%d average=%d", stride, averageSize)
	}
	size := filters[0].Size
	rows, cols := gridDims(target, size, stride, averageSize)
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("target %dx%d too small for kernel=%d stride=%d average=%d",
			target.Width, target.Height, size, stride, averageSize)
	}

	a := &Applicator{
		kernelSize:  size,
		stride:      stride,
		averageSize: averageSize,
		target:      target,
	}
	for i, f := range filters {
		if f.Size != size {
			a.Close()
			return nil, fmt.Errorf("filter %d has size %d, want %d", i, f.Size, size)
		}
		k := gocv.NewMatWithSize(size, size, gocv.MatTypeCV32F)
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				k.SetFloatAt(row, col, float32(f.At(row, col)))
			}
		}
		a.kernels = append(a.kernels, k)
	}
	return a, nil
}

// GridSize returns the label grid dimensions this applicator produces.
func (a *Applicator) GridSize() (rows, cols int) {
	return gridDims(a.target, a.kernelSize, a.stride, a.averageSize)
}

// Extract convolves the frame with every filter and average-pools the
// responses into one feature vector per patch cell, row-major.
// The frame must already be normalized to the configured target size.
func (a *Applicator) Extract(frame image.Image) (*floor.FeatureGrid, error) {
	b := frame.Bounds()
	if b.Dx() != a.target.Width || b.Dy() != a.target.Height {
		return nil, fmt.Errorf("frame is %dx%d, want normalized %dx%d",
			b.Dx(), b.Dy(), a.target.Width, a.target.Height)
	}

	rgb, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer rgb.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(rgb, &gray, gocv.ColorRGBToGray)

	input := gocv.NewMat()
	defer input.Close()
	gray.ConvertToWithParams(&input, gocv.MatTypeCV32F, 1.0/255.0, 0)

	rows, cols := a.GridSize()
	convRows := (a.target.Height-a.kernelSize)/a.stride + 1
	convCols := (a.target.Width-a.kernelSize)/a.stride + 1
	half := a.kernelSize / 2

	vectors := make([][]float64, rows*cols)
	for i := range vectors {
		vectors[i] = make([]float64, len(a.kernels))
	}

	response := gocv.NewMat()
	defer response.Close()
	for fi, kernel := range a.kernels {
		gocv.Filter2D(input, &response, gocv.MatTypeCV32F, kernel,
			image.Pt(-1, -1), 0, gocv.BorderReplicate)

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				sum := 0.0
				for i := 0; i < a.averageSize; i++ {
					for j := 0; j < a.averageSize; j++ {
						ci := r*a.averageSize + i
						cj := c*a.averageSize + j
						if ci >= convRows || cj >= convCols {
							continue
						}
						y := half + ci*a.stride
						x := half + cj*a.stride
						sum += float64(response.GetFloatAt(y, x))
					}
				}
				vectors[r*cols+c][fi] = sum / float64(a.averageSize*a.averageSize)
			}
		}
	}

	return &floor.FeatureGrid{Rows: rows, Cols: cols, Vectors: vectors}, nil
}

// Close releases the kernel Mats.
func (a *Applicator) Close() {
	for i := range a.kernels {
		a.kernels[i].Close()
	}
	a.kernels = nil
}

// gridDims computes the pooled grid dimensions for a strided valid
// convolution followed by non-overlapping average pooling.
func gridDims(target geometry.Size, kernel, stride, averageSize int) (rows, cols int) {
	convRows := (target.Height-kernel)/stride + 1
	convCols := (target.Width-kernel)/stride + 1
	return convRows / averageSize, convCols / averageSize
}
