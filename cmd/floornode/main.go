// Command floornode runs the arena boundary detector (and optionally the
// roomba detector) over a live camera or a recorded video.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"arena-vision/internal/classifier"
	"arena-vision/internal/config"
	"arena-vision/internal/filterbank"
	"arena-vision/internal/floor"
	"arena-vision/internal/height"
	"arena-vision/internal/render"
	"arena-vision/internal/roomba"
	"arena-vision/internal/version"
	"arena-vision/pkg/geometry"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		configPath   = flag.String("config", "", "config file (JSON); defaults apply when empty")
		modelPath    = flag.String("model", "", "patch classifier model, overrides config")
		videoPath    = flag.String("video", "", "video file instead of the camera, overrides config")
		staticHeight = flag.Float64("height", 1.5, "fixed camera altitude in meters")
		debugWindow  = flag.Bool("debug", false, "show the diagnostics window")
	)
	flag.Parse()

	log.Printf("floornode v%s (%s)", version.Version, version.GitCommit)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}
	if *videoPath != "" {
		cfg.Camera.VideoPath = *videoPath
	}
	if *debugWindow {
		cfg.Debug.Window = true
	}

	model, err := classifier.LoadPatchModel(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Load patch model: %v", err)
	}
	target := geometry.NewSize(model.TargetWidth, model.TargetHeight)
	settings := cfg.Floor.WithGeometry(model.KernelSize, model.Stride, model.AverageSize, target)

	filters, err := filterbank.Generate(model.KernelSize, model.Sigmas, model.NOrientations)
	if err != nil {
		log.Fatalf("Generate filter bank: %v", err)
	}
	applicator, err := filterbank.NewApplicator(filters, target, model.Stride, model.AverageSize)
	if err != nil {
		log.Fatalf("Build applicator: %v", err)
	}
	defer applicator.Close()

	detector, err := floor.NewDetector(settings, applicator, model)
	if err != nil {
		log.Fatalf("Build floor detector: %v", err)
	}

	var roombaDetector *roomba.Detector
	if cfg.RoombaEnabled {
		roombaDetector, err = roomba.NewDetector(cfg.Roomba)
		if err != nil {
			log.Fatalf("Build roomba detector: %v", err)
		}
	}

	capture, err := openCapture(cfg.Camera)
	if err != nil {
		log.Fatalf("Open capture: %v", err)
	}
	defer capture.Close()

	// TODO: feed a height.Sampled from the localization stream instead of
	// a fixed altitude.
	provider := height.Static(*staticHeight)

	var window *gocv.Window
	if cfg.Debug.Window {
		window = gocv.NewWindow("floornode")
		defer window.Close()
	}

	if err := run(capture, detector, roombaDetector, provider, cfg, window); err != nil {
		log.Fatalf("Frame loop: %v", err)
	}
}

func openCapture(cam config.Camera) (*gocv.VideoCapture, error) {
	if cam.VideoPath != "" {
		return gocv.VideoCaptureFile(cam.VideoPath)
	}
	return gocv.VideoCaptureDevice(cam.DeviceID)
}

// run processes frames until the source ends. Each frame is fully processed
// before the next is read; a frame that yields no boundary is logged and
// dropped, never retried.
func run(capture *gocv.VideoCapture, detector *floor.Detector, roombaDetector *roomba.Detector,
	provider height.Provider, cfg config.Config, window *gocv.Window) error {

	frame := gocv.NewMat()
	defer frame.Close()

	frameIndex := 0
	for {
		if ok := capture.Read(&frame); !ok {
			log.Printf("Capture ended after %d frames", frameIndex)
			return nil
		}
		if frame.Empty() {
			continue
		}
		frameIndex++

		h, err := provider.Height(time.Now())
		if err != nil {
			if errors.Is(err, height.ErrUnavailable) {
				continue // frame dropped, next one is independent
			}
			return fmt.Errorf("height lookup: %w", err)
		}

		img, err := frame.ToImage()
		if err != nil {
			return fmt.Errorf("convert frame %d: %w", frameIndex, err)
		}

		start := time.Now()
		res, err := detector.ProcessFrame(img, h)
		if err != nil {
			if !errors.Is(err, floor.ErrInconsistentIntersection) {
				return fmt.Errorf("frame %d: %w", frameIndex, err)
			}
			// Defect signal, not an absent boundary. Keep going, the
			// next frame is independent.
			log.Printf("Frame %d: %v", frameIndex, err)
		}
		elapsed := time.Since(start)

		switch {
		case err != nil:
		case res.Skipped:
			// Low altitude, nothing to do.
		case res.Boundary != nil:
			b := res.Boundary
			log.Printf("Frame %d: boundary p1=(%.1f,%.1f) p2=(%.1f,%.1f) center=(%.1f,%.1f) in %s",
				frameIndex, b.P1.X, b.P1.Y, b.P2.X, b.P2.Y, b.Center.X, b.Center.Y, elapsed)
		default:
			log.Printf("Frame %d: no boundary (%s) in %s", frameIndex, res.Reject, elapsed)
		}

		if roombaDetector != nil {
			blobs, err := roombaDetector.Detect(frame)
			if err != nil {
				log.Printf("Frame %d: roomba detect: %v", frameIndex, err)
			} else if len(blobs) > 0 {
				log.Printf("Frame %d: %d roomba(s)", frameIndex, len(blobs))
			}
		}

		if (window != nil || cfg.Debug.DumpDir != "") && !res.Skipped {
			showDebug(&res, detector.Settings(), cfg, window, frameIndex)
		}
	}
}

func showDebug(res *floor.Result, settings floor.Settings, cfg config.Config,
	window *gocv.Window, frameIndex int) {

	overlay, err := render.Debug(res, settings)
	if err != nil {
		log.Printf("Frame %d: render: %v", frameIndex, err)
		return
	}
	defer overlay.Close()

	if window != nil {
		window.IMShow(overlay)
		window.WaitKey(1)
	}
	if cfg.Debug.DumpDir != "" {
		if err := os.MkdirAll(cfg.Debug.DumpDir, 0755); err != nil {
			log.Printf("Create dump dir: %v", err)
			return
		}
		path := filepath.Join(cfg.Debug.DumpDir, fmt.Sprintf("frame_%06d.png", frameIndex))
		gocv.IMWrite(path, overlay)
	}
}
