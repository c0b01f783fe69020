package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// Raster is an off-screen RGBA surface frames are drawn into before
// encoding.
type Raster struct {
	img *image.RGBA
}

// NewRaster allocates a cleared raster of the given size
func NewRaster(width, height int) *Raster {
	r := &Raster{}
	r.Resize(width, height)
	return r
}

// Resize sets the surface size. Like a canvas, resizing always clears.
func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Bounds returns the surface rectangle
func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// Draw paints frame at the origin, clipped to the surface
func (r *Raster) Draw(frame image.Image) {
	if frame == nil {
		return
	}
	draw.Draw(r.img, r.img.Bounds(), frame, frame.Bounds().Min, draw.Src)
}

// Clear erases the surface to transparent black
func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Pixels returns a copy of the surface contents
func (r *Raster) Pixels() *image.RGBA {
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

// Encode renders the surface as a data-URL
func (r *Raster) Encode(opts Options) (string, ImageType, error) {
	mime := opts.mimeType()

	var buf bytes.Buffer
	switch mime {
	case JPEG:
		q := int(math.Round(opts.quality() * 100))
		if q < 1 {
			q = 1
		}
		if err := jpeg.Encode(&buf, r.img, &jpeg.Options{Quality: q}); err != nil {
			return "", mime, fmt.Errorf("encode jpeg: %w", err)
		}
	case PNG:
		if err := png.Encode(&buf, r.img); err != nil {
			return "", mime, fmt.Errorf("encode png: %w", err)
		}
	default:
		return "", mime, fmt.Errorf("unsupported image type: %s", mime)
	}

	return dataURLPrefix(string(mime)) + base64.StdEncoding.EncodeToString(buf.Bytes()), mime, nil
}

// Snapshot resizes the surface to width x height, draws frame and encodes
// the result.
func (r *Raster) Snapshot(frame image.Image, width, height int, opts Options) (*Image, error) {
	r.Resize(width, height)
	r.Draw(frame)

	dataURL, mime, err := r.Encode(opts)
	if err != nil {
		return nil, err
	}

	var pixels *image.RGBA
	if opts.CaptureRawPixels {
		pixels = r.Pixels()
	}

	return NewImage(dataURL, string(mime), pixels, width, height), nil
}
