// Command roombatest runs the roomba blob detector over a video file, so
// captured footage with different lighting or distortion can be checked
// without the full node.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r3"

	"arena-vision/internal/roomba"
	"arena-vision/pkg/geometry"
)

var greenBox = color.RGBA{G: 255, A: 255}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		videoPath = flag.String("video", "", "video file to process")
		altitude  = flag.Float64("height", 0, "camera altitude for ground projection; 0 disables")
		aov       = flag.Float64("aov", 94.0, "camera diagonal angle of view in degrees")
		show      = flag.Bool("show", false, "display detections in a window")
	)
	flag.Parse()

	if *videoPath == "" {
		log.Fatal("-video is required")
	}

	detector, err := roomba.NewDetector(roomba.DefaultParams())
	if err != nil {
		log.Fatalf("Build detector: %v", err)
	}

	capture, err := gocv.VideoCaptureFile(*videoPath)
	if err != nil {
		log.Fatalf("Open %s: %v", *videoPath, err)
	}
	defer capture.Close()

	var window *gocv.Window
	if *show {
		window = gocv.NewWindow("roombatest")
		defer window.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	frameIndex := 0
	for capture.Read(&frame) {
		if frame.Empty() {
			continue
		}
		frameIndex++

		blobs, err := detector.Detect(frame)
		if err != nil {
			log.Fatalf("Frame %d: %v", frameIndex, err)
		}

		frameSize := geometry.NewSize(frame.Cols(), frame.Rows())
		for _, b := range blobs {
			if *altitude > 0 {
				ray := roomba.PixelToRay(b.Center, frameSize, *aov)
				pos, err := roomba.GroundPosition(r3.Vec{Z: *altitude}, ray)
				if err != nil {
					log.Printf("Frame %d: blob at (%.0f,%.0f): %v",
						frameIndex, b.Center.X, b.Center.Y, err)
					continue
				}
				log.Printf("Frame %d: roomba at (%.0f,%.0f) px, angle %.0f, ground (%.2f,%.2f) m",
					frameIndex, b.Center.X, b.Center.Y, b.Angle, pos.X, pos.Y)
			} else {
				log.Printf("Frame %d: roomba at (%.0f,%.0f) px, angle %.0f, %dx%d",
					frameIndex, b.Center.X, b.Center.Y, b.Angle, int(b.Width), int(b.Height))
			}
		}

		if window != nil {
			for _, b := range blobs {
				half := image.Pt(int(b.Width/2), int(b.Height/2))
				center := image.Pt(int(b.Center.X), int(b.Center.Y))
				gocv.Rectangle(&frame, image.Rectangle{
					Min: center.Sub(half),
					Max: center.Add(half),
				}, greenBox, 2)
			}
			window.IMShow(frame)
			if window.WaitKey(1) == 'q' {
				break
			}
		}
	}
	log.Printf("Processed %d frames", frameIndex)
}
