package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func TestImageBase64StripsPrefix(t *testing.T) {
	img := NewImage("data:image/png;base64,QUJD", "image/png", nil, 1, 1)

	if got := img.Base64(); got != "QUJD" {
		t.Fatalf("expected QUJD, got %q", got)
	}
	// Cached value is returned on the second call
	if got := img.Base64(); got != "QUJD" {
		t.Fatalf("expected cached QUJD, got %q", got)
	}

	b, err := img.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "ABC" {
		t.Errorf("expected ABC, got %q", b)
	}
}

func TestImageBase64MismatchedMime(t *testing.T) {
	// A prefix for a different MIME type is left untouched
	img := NewImage("data:image/jpeg;base64,QUJD", "image/png", nil, 1, 1)
	if got := img.Base64(); got != "data:image/jpeg;base64,QUJD" {
		t.Errorf("unexpected payload %q", got)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(4, 3)
	r.Draw(testFrame(4, 3))

	dataURL, mime, err := r.Encode(Options{ImageType: PNG})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime != PNG {
		t.Errorf("expected %s, got %s", PNG, mime)
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected data-URL prefix: %.30s", dataURL)
	}

	img := NewImage(dataURL, string(mime), nil, 4, 3)
	b, err := img.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Errorf("unexpected bounds %v", decoded.Bounds())
	}
}

func TestRasterEncodeJPEG(t *testing.T) {
	r := NewRaster(8, 8)
	r.Draw(testFrame(8, 8))

	dataURL, _, err := r.Encode(Options{ImageType: JPEG, ImageQuality: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := NewImage(dataURL, string(JPEG), nil, 8, 8)
	b, err := img.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(b)); err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
}

func TestRasterEncodeDeterministic(t *testing.T) {
	frame := testFrame(6, 6)
	opts := Options{ImageType: JPEG, ImageQuality: 0.8}

	r := NewRaster(0, 0)
	first, err := r.Snapshot(frame, 6, 6, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Snapshot(frame, 6, 6, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Base64() != second.Base64() {
		t.Error("expected identical payloads for identical frames and options")
	}
}

func TestRasterClear(t *testing.T) {
	r := NewRaster(2, 2)
	r.Draw(testFrame(2, 2))
	r.Clear()

	for _, b := range r.Pixels().Pix {
		if b != 0 {
			t.Fatal("expected cleared raster to be all zero")
		}
	}
	if r.Bounds().Dx() != 2 {
		t.Error("clear must not change the surface size")
	}
}

func TestRasterDrawClipsToSurface(t *testing.T) {
	r := NewRaster(2, 2)
	r.Draw(testFrame(4, 4))

	px := r.Pixels()
	if px.Bounds().Dx() != 2 || px.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", px.Bounds())
	}
	if got := px.RGBAAt(1, 1); got.R != 16 || got.G != 16 {
		t.Errorf("unexpected pixel %+v", got)
	}
}

func TestSnapshotRawPixels(t *testing.T) {
	r := NewRaster(0, 0)

	img, err := r.Snapshot(testFrame(3, 3), 3, 3, Options{ImageType: PNG, CaptureRawPixels: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Pixels() == nil {
		t.Fatal("expected raw pixels")
	}
	if img.Width() != 3 || img.Height() != 3 {
		t.Errorf("unexpected size %dx%d", img.Width(), img.Height())
	}

	img, err = r.Snapshot(testFrame(3, 3), 3, 3, Options{ImageType: PNG})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Pixels() != nil {
		t.Error("expected no raw pixels when disabled")
	}
}

func TestParseImageType(t *testing.T) {
	tests := []struct {
		in      string
		want    ImageType
		wantErr bool
	}{
		{"jpeg", JPEG, false},
		{"JPG", JPEG, false},
		{"image/jpeg", JPEG, false},
		{"png", PNG, false},
		{"image/png", PNG, false},
		{"", PNG, false},
		{"webp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseImageType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
