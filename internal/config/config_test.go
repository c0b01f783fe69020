package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/petems/snapcam/internal/capture"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.ImageType != "jpeg" {
		t.Errorf("expected jpeg, got %s", cfg.Camera.ImageType)
	}
	if !cfg.Camera.StartCamera {
		t.Error("expected camera to start by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
log_level: debug
camera:
  device_id: cam2
  image_type: png
  capture_raw_pixels: true
output:
  dir: /tmp/shots
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.Camera.DeviceID != "cam2" {
		t.Errorf("expected cam2, got %s", cfg.Camera.DeviceID)
	}
	// Fields absent from the file keep their defaults
	if cfg.Camera.Width != 640 {
		t.Errorf("expected default width, got %d", cfg.Camera.Width)
	}

	opts := cfg.CaptureOptions()
	if opts.ImageType != capture.PNG || !opts.CaptureRawPixels {
		t.Errorf("unexpected capture options %+v", opts)
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"quality", "camera:\n  image_quality: 1.5\n"},
		{"type", "camera:\n  image_type: gif\n"},
		{"size", "camera:\n  width: -1\n"},
		{"syntax", "camera: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path())
	}
	cfg.Camera.DeviceID = "cam9"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Camera.DeviceID != "cam9" {
		t.Errorf("expected cam9, got %s", loaded.Camera.DeviceID)
	}
}

func TestConstraints(t *testing.T) {
	cfg := Default()
	c := cfg.Constraints()

	if c.Width != 640 || c.Height != 480 || c.FacingMode != "user" || c.AspectRatio != 1 {
		t.Errorf("unexpected constraints %+v", c)
	}
	if c.DeviceID != "" {
		t.Error("constraints should not pin a device")
	}
}
