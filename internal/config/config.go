package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/petems/snapcam/internal/camera"
	"github.com/petems/snapcam/internal/capture"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string       `yaml:"log_level"` // "debug", "info", "warn", "error"
	Camera   CameraConfig `yaml:"camera"`
	Output   OutputConfig `yaml:"output"`

	path string
}

type CameraConfig struct {
	DeviceID         string  `yaml:"device_id"`
	StartCamera      bool    `yaml:"start_camera"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	ImageType        string  `yaml:"image_type"`    // "jpeg" or "png"
	ImageQuality     float64 `yaml:"image_quality"` // 0.0 - 1.0
	CaptureRawPixels bool    `yaml:"capture_raw_pixels"`
	FacingMode       string  `yaml:"facing_mode"`
	AspectRatio      float64 `yaml:"aspect_ratio"`
}

type OutputConfig struct {
	Dir             string `yaml:"dir"` // Empty disables writing snapshots to disk
	CopyToClipboard bool   `yaml:"copy_to_clipboard"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Camera: CameraConfig{
			DeviceID:     "",
			StartCamera:  true,
			Width:        640,
			Height:       480,
			ImageType:    "jpeg",
			ImageQuality: capture.DefaultQuality,
			FacingMode:   camera.DefaultConstraints.FacingMode,
			AspectRatio:  camera.DefaultConstraints.AspectRatio,
		},
		Output: OutputConfig{
			Dir:             PicturesPath(),
			CopyToClipboard: false,
		},
	}
}

// Load reads the config from the platform config path or returns defaults
func Load() (*Config, error) {
	return LoadFile(configPath())
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		return fmt.Errorf("camera size must not be negative: %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.ImageQuality < 0 || c.Camera.ImageQuality > 1 {
		return fmt.Errorf("image_quality must be between 0 and 1, got %v", c.Camera.ImageQuality)
	}
	if _, err := capture.ParseImageType(c.Camera.ImageType); err != nil {
		return err
	}
	return nil
}

// Path returns the file the config is saved to
func (c *Config) Path() string {
	if c.path == "" {
		return configPath()
	}
	return c.path
}

// Save writes the config back to where it was loaded from
func (c *Config) Save() error {
	path := c.Path()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// CaptureOptions converts the camera section into snapshot options
func (c *Config) CaptureOptions() capture.Options {
	imageType, err := capture.ParseImageType(c.Camera.ImageType)
	if err != nil {
		imageType = capture.PNG
	}
	return capture.Options{
		Width:            c.Camera.Width,
		Height:           c.Camera.Height,
		ImageType:        imageType,
		ImageQuality:     c.Camera.ImageQuality,
		CaptureRawPixels: c.Camera.CaptureRawPixels,
	}
}

// Constraints returns the stream constraints requested from the platform
func (c *Config) Constraints() *camera.Constraints {
	return &camera.Constraints{
		Width:       c.Camera.Width,
		Height:      c.Camera.Height,
		AspectRatio: c.Camera.AspectRatio,
		FacingMode:  c.Camera.FacingMode,
	}
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "snapcam", "config.yaml")
}

// PicturesPath returns the platform-specific default snapshot directory
func PicturesPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Pictures"
	case "windows":
		base = filepath.Join(os.Getenv("USERPROFILE"), "Pictures")
	default:
		if xdg := os.Getenv("XDG_PICTURES_DIR"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/Pictures"
		}
	}

	return filepath.Join(base, "snapcam")
}
