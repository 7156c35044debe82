package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := Default()
	cfg.ModelPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty model path accepted")
	}

	cfg = Default()
	cfg.Camera.DiagonalAOV = 200
	if err := cfg.Validate(); err == nil {
		t.Error("impossible angle of view accepted")
	}

	cfg = Default()
	cfg.Floor.Stride = 0
	if err := cfg.Validate(); err == nil {
		t.Error("invalid floor settings accepted")
	}

	cfg = Default()
	cfg.Roomba.MinArea = -1
	if err := cfg.Validate(); err == nil {
		t.Error("invalid roomba params accepted")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Camera.VideoPath = "run.mp4"
	cfg.Floor.MinHeight = 1.25
	cfg.MaxHeightAgeMS = 500
	cfg.RoombaEnabled = false

	path := filepath.Join(t.TempDir(), "config.json")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Camera.VideoPath != "run.mp4" || loaded.Floor.MinHeight != 1.25 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.RoombaEnabled {
		t.Error("round trip lost roomba_enabled=false")
	}
	if loaded.MaxHeightAge() != 500*time.Millisecond {
		t.Errorf("MaxHeightAge = %v, want 500ms", loaded.MaxHeightAge())
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	// A sparse file keeps defaults for everything it does not mention.
	path := filepath.Join(t.TempDir(), "sparse.json")
	if err := os.WriteFile(path, []byte(`{"camera": {"device_id": 2, "diagonal_aov": 94}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("device_id = %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.ModelPath != Default().ModelPath {
		t.Errorf("model_path = %q, want default", cfg.ModelPath)
	}
	if cfg.Floor.KernelSize != Default().Floor.KernelSize {
		t.Error("floor defaults not preserved")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"camera": {"diagonal_aov": -5}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid config accepted")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}
