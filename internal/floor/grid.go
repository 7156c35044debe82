package floor

import (
	"fmt"

	"arena-vision/pkg/geometry"
)

// PatchLayout maps feature grid cells to pixel coordinates in the normalized
// frame. It mirrors the averaging-block placement of the feature extractor,
// so the same constants must be used on both sides.
type PatchLayout struct {
	KernelSize  int
	Stride      int
	AverageSize int
}

// Block returns the pixel extent covered by one averaging block.
func (l PatchLayout) Block() int {
	return (l.AverageSize-1)*l.Stride + 1
}

// PatchCenter returns the pixel-space center of the grid cell (row, col).
// Integer arithmetic is intentional: the truncating divisions are part of
// the placement contract with the feature extractor.
func (l PatchLayout) PatchCenter(row, col int) geometry.Point2D {
	block := l.Block()
	halfKernel := l.KernelSize / 2
	x := block/2 + col*block + halfKernel + col*halfKernel
	y := block/2 + row*block + halfKernel + row*halfKernel
	return geometry.Point2D{X: float64(x), Y: float64(y)}
}

// PatchCenters returns the centers of all cells of a rows x cols grid in
// row-major order, parallel to a flattened LabelGrid.
func (l PatchLayout) PatchCenters(rows, cols int) []geometry.Point2D {
	points := make([]geometry.Point2D, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			points = append(points, l.PatchCenter(row, col))
		}
	}
	return points
}

// LabelGrid holds the binary floor/antifloor label of every patch,
// flattened row-major. 0 is floor, 1 is antifloor.
type LabelGrid struct {
	Rows   int
	Cols   int
	Labels []int
}

// NewLabelGrid wraps a flattened label slice, checking its dimensions.
func NewLabelGrid(rows, cols int, labels []int) (*LabelGrid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", rows, cols)
	}
	if len(labels) != rows*cols {
		return nil, fmt.Errorf("grid %dx%d needs %d labels, got %d",
			rows, cols, rows*cols, len(labels))
	}
	for i, v := range labels {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("label %d is %d, want 0 or 1", i, v)
		}
	}
	return &LabelGrid{Rows: rows, Cols: cols, Labels: labels}, nil
}

// At returns the label of cell (row, col).
func (g *LabelGrid) At(row, col int) int {
	return g.Labels[row*g.Cols+col]
}

// Sum returns the number of antifloor labels.
func (g *LabelGrid) Sum() int {
	sum := 0
	for _, v := range g.Labels {
		sum += v
	}
	return sum
}

// IsEdge reports whether the flattened index lies on the outermost ring of
// the grid. For grids with rows or cols <= 2 every cell is an edge cell;
// this is deliberate, the validator keeps the literal ring definition at any
// grid size.
func (g *LabelGrid) IsEdge(i int) bool {
	row := i / g.Cols
	col := i % g.Cols
	return row == 0 || row == g.Rows-1 || col == 0 || col == g.Cols-1
}
