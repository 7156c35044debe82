// Package config holds the node configuration: which camera to read, which
// patch model to load, and the tuning of both detectors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"arena-vision/internal/floor"
	"arena-vision/internal/roomba"
)

// Camera selects the frame source. VideoPath takes precedence over DeviceID
// so recorded footage can be replayed through the same node.
type Camera struct {
	DeviceID    int     `json:"device_id"`
	VideoPath   string  `json:"video_path,omitempty"`
	DiagonalAOV float64 `json:"diagonal_aov"` // degrees
}

// Debug controls the diagnostics output.
type Debug struct {
	Window  bool   `json:"window"`
	DumpDir string `json:"dump_dir,omitempty"`
}

// Config is the full node configuration.
type Config struct {
	ModelPath string `json:"model_path"`

	// MaxHeightAgeMS bounds how stale an altitude reading may be before
	// frames are skipped, in milliseconds.
	MaxHeightAgeMS int `json:"max_height_age_ms"`

	Camera Camera         `json:"camera"`
	Floor  floor.Settings `json:"floor"`
	Roomba roomba.Params  `json:"roomba"`
	Debug  Debug          `json:"debug"`

	// RoombaEnabled toggles the side detector; the boundary pipeline
	// always runs.
	RoombaEnabled bool `json:"roomba_enabled"`
}

// Default returns a runnable configuration for the default camera.
func Default() Config {
	return Config{
		ModelPath:      "floor_classifier.json",
		MaxHeightAgeMS: 250,
		Camera: Camera{
			DeviceID:    0,
			DiagonalAOV: 94.0,
		},
		Floor:         floor.DefaultSettings(),
		Roomba:        roomba.DefaultParams(),
		Debug:         Debug{Window: false},
		RoombaEnabled: true,
	}
}

// MaxHeightAge returns the staleness bound as a duration.
func (c Config) MaxHeightAge() time.Duration {
	return time.Duration(c.MaxHeightAgeMS) * time.Millisecond
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}
	if c.MaxHeightAgeMS < 0 {
		return fmt.Errorf("max_height_age_ms must not be negative, got %d", c.MaxHeightAgeMS)
	}
	if c.Camera.DiagonalAOV <= 0 || c.Camera.DiagonalAOV >= 180 {
		return fmt.Errorf("diagonal_aov must be in (0,180), got %v", c.Camera.DiagonalAOV)
	}
	if err := c.Floor.Validate(); err != nil {
		return err
	}
	return c.Roomba.Validate()
}

// Load reads a configuration file, filling unset fields from defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
