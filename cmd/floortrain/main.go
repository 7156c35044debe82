// Command floortrain trains the floor/antifloor patch classifier from a
// directory of collected frames with sidecar label files.
//
// Each sample is a pair foo.png + foo.json, where the JSON carries the
// camera altitude at capture time and the hand-labeled grid:
//
//	{"height": 1.6, "labels": [[0,0,1], [0,1,1], ...]}
//
// Label grids must match the grid geometry of the chosen filter bank
// parameters; mismatched samples are rejected.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"arena-vision/internal/classifier"
	"arena-vision/internal/filterbank"
	"arena-vision/internal/floor"
	"arena-vision/pkg/geometry"
)

type sampleLabels struct {
	Height float64 `json:"height"`
	Labels [][]int `json:"labels"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		dataDir      = flag.String("data", "", "directory of image + label pairs")
		outPath      = flag.String("out", "floor_classifier.json", "output model path")
		kernelSize   = flag.Int("kernel", 9, "filter kernel size (odd)")
		stride       = flag.Int("stride", 2, "convolution stride")
		averageSize  = flag.Int("average", 4, "average pooling block size")
		orientations = flag.Int("orientations", 6, "filter orientations")
		sigmaList    = flag.String("sigmas", "1,2,4", "comma-separated filter sigmas")
		targetW      = flag.Int("width", 256, "normalized frame width")
		targetH      = flag.Int("height", 256, "normalized frame height")
		minHeight    = flag.Float64("min-height", 1.0, "minimum capture altitude in meters")
		lambda       = flag.Float64("lambda", 1.0, "training regularization")
	)
	flag.Parse()

	if *dataDir == "" {
		log.Fatal("-data is required")
	}
	sigmas, err := parseSigmas(*sigmaList)
	if err != nil {
		log.Fatalf("Parse sigmas: %v", err)
	}

	target := geometry.NewSize(*targetW, *targetH)
	filters, err := filterbank.Generate(*kernelSize, sigmas, *orientations)
	if err != nil {
		log.Fatalf("Generate filter bank: %v", err)
	}
	applicator, err := filterbank.NewApplicator(filters, target, *stride, *averageSize)
	if err != nil {
		log.Fatalf("Build applicator: %v", err)
	}
	defer applicator.Close()

	rows, cols := applicator.GridSize()
	log.Printf("Filter bank: %d filters, grid %dx%d", len(filters), rows, cols)

	vectors, labels, err := collectSamples(*dataDir, applicator, rows, cols, *minHeight, target)
	if err != nil {
		log.Fatalf("Collect samples: %v", err)
	}
	if len(vectors) == 0 {
		log.Fatal("No usable samples found")
	}
	log.Printf("Training on %d patch samples", len(vectors))

	model, err := classifier.TrainLinear(vectors, labels, *lambda)
	if err != nil {
		log.Fatalf("Train: %v", err)
	}

	correct := 0
	for i, v := range vectors {
		if model.Predict(v) == labels[i] {
			correct++
		}
	}
	log.Printf("Training accuracy: %.1f%%", 100*float64(correct)/float64(len(vectors)))

	patchModel := &classifier.PatchModel{
		LinearModel:   *model,
		KernelSize:    *kernelSize,
		Stride:        *stride,
		AverageSize:   *averageSize,
		NOrientations: *orientations,
		Sigmas:        sigmas,
		TargetWidth:   target.Width,
		TargetHeight:  target.Height,
	}
	if err := patchModel.Save(*outPath); err != nil {
		log.Fatalf("Save model: %v", err)
	}
	log.Printf("Wrote %s", *outPath)
}

// collectSamples walks the data directory, normalizes each frame with its
// recorded altitude, and pairs every patch feature vector with its label.
func collectSamples(dir string, applicator *filterbank.Applicator, rows, cols int,
	minHeight float64, target geometry.Size) ([][]float64, []int, error) {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var vectors [][]float64
	var labels []int
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			continue
		}

		imgPath := filepath.Join(dir, name)
		labelPath := strings.TrimSuffix(imgPath, ext) + ".json"

		sample, err := loadLabels(labelPath)
		if err != nil {
			log.Printf("Skip %s: %v", name, err)
			continue
		}
		if len(sample.Labels) != rows || len(sample.Labels[0]) != cols {
			log.Printf("Skip %s: label grid %dx%d, want %dx%d",
				name, len(sample.Labels), len(sample.Labels[0]), rows, cols)
			continue
		}

		img, err := loadImage(imgPath)
		if err != nil {
			log.Printf("Skip %s: %v", name, err)
			continue
		}

		normalized, ok := floor.NormalizeFrame(img, sample.Height, minHeight, target)
		if !ok {
			log.Printf("Skip %s: captured below min altitude", name)
			continue
		}

		features, err := applicator.Extract(normalized)
		if err != nil {
			return nil, nil, fmt.Errorf("extract %s: %w", name, err)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				vectors = append(vectors, features.Vectors[r*cols+c])
				labels = append(labels, sample.Labels[r][c])
			}
		}
	}
	return vectors, labels, nil
}

func loadLabels(path string) (*sampleLabels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s sampleLabels
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}
	if len(s.Labels) == 0 || len(s.Labels[0]) == 0 {
		return nil, fmt.Errorf("empty label grid")
	}
	return &s, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func parseSigmas(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	sigmas := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad sigma %q: %w", p, err)
		}
		sigmas = append(sigmas, v)
	}
	return sigmas, nil
}
