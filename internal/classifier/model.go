// Package classifier provides the linear patch classifier and the
// deterministic trainer shared with the per-frame boundary fit.
package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
)

// LinearModel is a binary linear classifier over feature vectors.
// Decision value is Weights.x + Bias; positive means class 1 (antifloor).
type LinearModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Decision returns the raw decision value for a feature vector.
func (m *LinearModel) Decision(features []float64) float64 {
	return floats.Dot(m.Weights, features) + m.Bias
}

// Predict returns 1 when the decision value is positive, 0 otherwise.
func (m *LinearModel) Predict(features []float64) int {
	if m.Decision(features) > 0 {
		return 1
	}
	return 0
}

// PatchModel bundles a trained patch classifier with the feature-extraction
// geometry it was trained under. The runtime must use exactly these constants
// or the predicted labels land on the wrong patch centers.
type PatchModel struct {
	LinearModel

	KernelSize    int       `json:"kernel_size"`
	Stride        int       `json:"stride"`
	AverageSize   int       `json:"average_size"`
	NOrientations int       `json:"n_orientations"`
	Sigmas        []float64 `json:"sigmas"`
	TargetWidth   int       `json:"target_width"`
	TargetHeight  int       `json:"target_height"`
}

// Validate checks that the model is internally consistent.
func (m *PatchModel) Validate() error {
	if len(m.Weights) == 0 {
		return fmt.Errorf("model has no weights")
	}
	if m.KernelSize <= 0 || m.Stride <= 0 || m.AverageSize <= 0 {
		return fmt.Errorf("invalid feature geometry: kernel=%d stride=%d average=%d",
			m.KernelSize, m.Stride, m.AverageSize)
	}
	if m.NOrientations <= 0 || len(m.Sigmas) == 0 {
		return fmt.Errorf("invalid filter bank parameters: orientations=%d sigmas=%d",
			m.NOrientations, len(m.Sigmas))
	}
	if m.TargetWidth <= 0 || m.TargetHeight <= 0 {
		return fmt.Errorf("invalid target size %dx%d", m.TargetWidth, m.TargetHeight)
	}
	return nil
}

// Save writes the model to a JSON file.
func (m *PatchModel) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal patch model: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPatchModel reads a model from a JSON file.
func LoadPatchModel(path string) (*PatchModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m PatchModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal patch model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("patch model %s: %w", path, err)
	}
	return &m, nil
}
