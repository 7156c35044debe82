// Package render draws the per-frame diagnostics overlay: the predicted
// patch grid, the fitted boundary line, and the crossing point.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"arena-vision/internal/floor"
	"arena-vision/pkg/colorutil"
)

var (
	floorColor     = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	antiFloorColor = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	lineColor      = colorutil.Blue
	centerColor    = colorutil.Red
	textColor      = colorutil.White
)

// Debug renders the diagnostics for one processed frame. The caller owns the
// returned Mat. Skipped frames have nothing to render and return an error.
func Debug(res *floor.Result, settings floor.Settings) (gocv.Mat, error) {
	if res == nil || res.Normalized == nil {
		return gocv.Mat{}, fmt.Errorf("no normalized frame to render")
	}

	img, err := gocv.ImageToMatRGB(res.Normalized)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert frame: %w", err)
	}

	// Darken so the overlay reads on any floor texture.
	dimmed := gocv.NewMat()
	img.ConvertToWithParams(&dimmed, gocv.MatTypeCV8UC3, 0.5, 0)
	img.Close()

	layout := floor.PatchLayout{
		KernelSize:  settings.KernelSize,
		Stride:      settings.Stride,
		AverageSize: settings.AverageSize,
	}
	drawGrid(&dimmed, res, layout)
	drawLine(&dimmed, res, settings)
	drawVerdict(&dimmed, res)

	return dimmed, nil
}

// drawGrid outlines every patch block in its predicted class color and marks
// the patch centers.
func drawGrid(img *gocv.Mat, res *floor.Result, layout floor.PatchLayout) {
	if res.Grid == nil {
		return
	}
	block := layout.Block()
	half := layout.KernelSize / 2

	for row := 0; row < res.Grid.Rows; row++ {
		for col := 0; col < res.Grid.Cols; col++ {
			x := col*block + half + col*half
			y := row*block + half + row*half
			rect := image.Rect(x, y, x+block, y+block)

			c := floorColor
			if res.Grid.At(row, col) == 1 {
				c = antiFloorColor
			}
			gocv.Rectangle(img, rect, c, 1)
		}
	}

	for _, p := range res.Points {
		gocv.Circle(img, image.Pt(int(p.X), int(p.Y)), 1, colorutil.Black, -1)
	}
}

// drawLine draws the fitted separator clipped to the viewport. Lines that
// cannot be drawn (outside the viewport, degenerate intersection) are simply
// skipped; this is diagnostics, not output.
func drawLine(img *gocv.Mat, res *floor.Result, settings floor.Settings) {
	if res.Line == nil {
		return
	}
	p1, p2, ok, err := floor.IntersectViewport(*res.Line, settings.TargetSize)
	if err != nil || !ok {
		return
	}
	gocv.Line(img,
		image.Pt(int(p1.X), int(p1.Y)),
		image.Pt(int(p2.X), int(p2.Y)),
		lineColor, 1)
}

// drawVerdict marks the crossing point on accepted frames and annotates
// rejected ones with the reject reason.
func drawVerdict(img *gocv.Mat, res *floor.Result) {
	if res.Boundary != nil {
		c := res.Boundary.Center
		gocv.Circle(img, image.Pt(int(c.X), int(c.Y)), 3, centerColor, -1)
		gocv.PutText(img,
			fmt.Sprintf("c: %.2f %.2f", c.X, c.Y),
			image.Pt(2, 30), gocv.FontHersheyPlain, 1, textColor, 1)
		return
	}
	if res.Reject != floor.ReasonNone {
		gocv.PutText(img, "no edge: "+res.Reject.String(),
			image.Pt(2, 15), gocv.FontHersheyPlain, 1, textColor, 1)
	}
}
