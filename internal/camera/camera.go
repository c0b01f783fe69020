package camera

import (
	"context"
	"image"
)

// Kind is the media kind reported by the platform for a device
type Kind string

const (
	KindVideoInput  Kind = "videoinput"
	KindAudioInput  Kind = "audioinput"
	KindAudioOutput Kind = "audiooutput"
)

// Device describes a platform media device. Values come from the
// provider and are never built by the session itself.
type Device struct {
	ID      string
	Label   string
	Kind    Kind
	GroupID string
}

// Name returns the label, or the ID when the platform hides labels
// (no permission granted yet).
func (d Device) Name() string {
	if d.Label != "" {
		return d.Label
	}
	return d.ID
}

// Capabilities reports which parts of the camera API the platform exposes
type Capabilities struct {
	Enumerate bool
	Capture   bool
}

// Provider is the platform media-capture API
type Provider interface {
	Capabilities() Capabilities
	EnumerateDevices(ctx context.Context) ([]Device, error)
	OpenStream(ctx context.Context, c Constraints) (Stream, error)
}

// Track is a single channel of a stream that can be stopped independently
type Track interface {
	ID() string
	Kind() Kind
	Stop()
}

// Stream is an open capture stream
type Stream interface {
	ID() string
	Tracks() []Track
	// ReadFrame blocks until the next video frame is available.
	ReadFrame(ctx context.Context) (image.Image, error)
}

// StopTracks stops every track of s. Nil streams are ignored.
func StopTracks(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
