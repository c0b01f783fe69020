package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/petems/snapcam/internal/capture"
	"github.com/petems/snapcam/internal/config"
)

// Exporter hands a captured image to the outside world
type Exporter interface {
	Save(ctx context.Context, img *capture.Image) (string, error)
	Copy(ctx context.Context, img *capture.Image) error
	Export(ctx context.Context, img *capture.Image) (string, error)
}

// Clipboard is the subset of a system clipboard the exporter needs
type Clipboard interface {
	WriteAll(text string) error
}

type fileExporter struct {
	cfg       config.OutputConfig
	clipboard Clipboard
	now       func() time.Time
}

// New creates an exporter that writes snapshots under cfg.Dir and copies
// data-URLs to the system clipboard.
func New(cfg config.OutputConfig) Exporter {
	return &fileExporter{
		cfg:       cfg,
		clipboard: systemClipboard{},
		now:       time.Now,
	}
}

// Save writes the decoded image to the output directory
func (e *fileExporter) Save(ctx context.Context, img *capture.Image) (string, error) {
	if e.cfg.Dir == "" {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := img.Bytes()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.cfg.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	ext := capture.ImageType(img.MimeType()).Extension()
	name := fmt.Sprintf("snapcam-%s.%s", e.now().Format("20060102-150405.000"), ext)
	path := filepath.Join(e.cfg.Dir, name)

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move snapshot: %w", err)
	}

	return path, nil
}

// Copy puts the image's data-URL on the clipboard
func (e *fileExporter) Copy(ctx context.Context, img *capture.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.clipboard.WriteAll(img.DataURL()); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Export saves the image and, when configured, copies it
func (e *fileExporter) Export(ctx context.Context, img *capture.Image) (string, error) {
	path, err := e.Save(ctx, img)
	if err != nil {
		return "", err
	}
	if e.cfg.CopyToClipboard {
		if err := e.Copy(ctx, img); err != nil {
			return path, err
		}
	}
	return path, nil
}
