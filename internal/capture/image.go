package capture

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"
	"sync"
)

// Image is a captured still frame. It is never modified after creation.
type Image struct {
	dataURL  string
	mimeType string
	pixels   *image.RGBA
	width    int
	height   int

	once   sync.Once
	base64 string
}

// NewImage wraps an encoded data-URL. pixels may be nil.
func NewImage(dataURL, mimeType string, pixels *image.RGBA, width, height int) *Image {
	return &Image{
		dataURL:  dataURL,
		mimeType: mimeType,
		pixels:   pixels,
		width:    width,
		height:   height,
	}
}

// DataURL returns the encoded image as a data-URL
func (i *Image) DataURL() string {
	return i.dataURL
}

// MimeType returns the MIME type of the encoded image
func (i *Image) MimeType() string {
	return i.mimeType
}

// Pixels returns the raw RGBA pixels, or nil when raw capture was off
func (i *Image) Pixels() *image.RGBA {
	return i.pixels
}

func (i *Image) Width() int  { return i.width }
func (i *Image) Height() int { return i.height }

// Base64 returns the payload of the data-URL. Computed on first call.
func (i *Image) Base64() string {
	i.once.Do(func() {
		i.base64 = strings.TrimPrefix(i.dataURL, dataURLPrefix(i.mimeType))
	})
	return i.base64
}

// Bytes decodes the base64 payload
func (i *Image) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(i.Base64())
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return b, nil
}

func dataURLPrefix(mimeType string) string {
	return "data:" + mimeType + ";base64,"
}
