package platform

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/mediadevices"
	pioncam "github.com/pion/mediadevices/pkg/driver/camera"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	"github.com/petems/snapcam/internal/camera"
)

type mediaDevicesProvider struct{}

// New returns a provider backed by pion/mediadevices and its camera driver
func New() camera.Provider {
	return &mediaDevicesProvider{}
}

func (p *mediaDevicesProvider) Capabilities() camera.Capabilities {
	return camera.Capabilities{Enumerate: true, Capture: true}
}

func (p *mediaDevicesProvider) EnumerateDevices(ctx context.Context) ([]camera.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos := mediadevices.EnumerateDevices()
	result := make([]camera.Device, 0, len(infos))
	for _, info := range infos {
		result = append(result, camera.Device{
			ID:    info.DeviceID,
			Label: deviceLabel(info.Label),
			Kind:  deviceKind(info.Kind),
		})
	}
	return result, nil
}

func (p *mediaDevicesProvider) OpenStream(ctx context.Context, c camera.Constraints) (camera.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
		Video: func(mc *mediadevices.MediaTrackConstraints) {
			if c.DeviceID != "" {
				mc.DeviceID = prop.StringExact(c.DeviceID)
			}
			if c.Width > 0 {
				mc.Width = prop.Int(c.Width)
			}
			if c.Height > 0 {
				mc.Height = prop.Int(c.Height)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user media: %w", err)
	}

	s := &mediaStream{id: uuid.NewString()}
	for _, t := range ms.GetTracks() {
		s.tracks = append(s.tracks, &mediaTrack{track: t})
		if vt, ok := t.(*mediadevices.VideoTrack); ok && s.reader == nil {
			s.reader = vt.NewReader(true)
		}
	}
	if s.reader == nil {
		camera.StopTracks(s)
		return nil, errors.New("stream has no video track")
	}

	return s, nil
}

// Labels from the camera driver carry every path the device was found
// under; the first one is the readable name.
func deviceLabel(label string) string {
	name, _, _ := strings.Cut(label, pioncam.LabelSeparator)
	return name
}

func deviceKind(k mediadevices.MediaDeviceType) camera.Kind {
	switch k {
	case mediadevices.VideoInput:
		return camera.KindVideoInput
	case mediadevices.AudioInput:
		return camera.KindAudioInput
	default:
		return camera.KindAudioOutput
	}
}

type mediaStream struct {
	id     string
	tracks []camera.Track
	reader video.Reader
}

func (s *mediaStream) ID() string             { return s.id }
func (s *mediaStream) Tracks() []camera.Track { return s.tracks }

// ReadFrame blocks in the driver; it returns once a frame arrives or the
// video track is stopped.
func (s *mediaStream) ReadFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, release, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	defer release()

	return img, nil
}

type mediaTrack struct {
	track mediadevices.Track
	once  sync.Once
}

func (t *mediaTrack) ID() string {
	return t.track.ID()
}

func (t *mediaTrack) Kind() camera.Kind {
	if _, ok := t.track.(*mediadevices.VideoTrack); ok {
		return camera.KindVideoInput
	}
	return camera.KindAudioInput
}

func (t *mediaTrack) Stop() {
	t.once.Do(func() {
		t.track.Close()
	})
}
