package capture

import (
	"fmt"
	"strings"
)

// ImageType selects the encoder used for snapshots
type ImageType string

const (
	JPEG ImageType = "image/jpeg"
	PNG  ImageType = "image/png"
)

// DefaultQuality applies when Options.ImageQuality is zero
const DefaultQuality = 0.9

// Options controls snapshot size and encoding
type Options struct {
	// Width and Height size the raster when the stream does not report
	// its native frame size.
	Width            int
	Height           int
	ImageType        ImageType
	ImageQuality     float64
	CaptureRawPixels bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Width:        640,
		Height:       480,
		ImageType:    JPEG,
		ImageQuality: DefaultQuality,
	}
}

// ParseImageType accepts "jpeg", "jpg", "png" or a full MIME type
func ParseImageType(s string) (ImageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg", string(JPEG):
		return JPEG, nil
	case "png", string(PNG):
		return PNG, nil
	case "":
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported image type: %s", s)
}

// Extension returns the file extension for t, without the dot
func (t ImageType) Extension() string {
	if t == JPEG {
		return "jpg"
	}
	return "png"
}

func (o Options) mimeType() ImageType {
	if o.ImageType == "" {
		return PNG
	}
	return o.ImageType
}

func (o Options) quality() float64 {
	if o.ImageQuality <= 0 || o.ImageQuality > 1 {
		return DefaultQuality
	}
	return o.ImageQuality
}
