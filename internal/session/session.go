package session

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/petems/snapcam/internal/camera"
	"github.com/petems/snapcam/internal/capture"
	"github.com/petems/snapcam/internal/preview"
	"github.com/petems/snapcam/internal/signal"
	"github.com/rs/zerolog"
)

// Surface is where a live stream is rendered (the preview)
type Surface interface {
	Bind(s camera.Stream)
	Play(ctx context.Context) error
	Unbind()
	CurrentFrame() image.Image
	VideoSize() (int, int)
}

// StreamInfo is emitted once a stream is live
type StreamInfo struct {
	StreamID    string
	Device      camera.Device
	Constraints camera.Constraints
}

type Config struct {
	Provider camera.Provider
	Surface  Surface // Optional - defaults to a preview.Player
	Options  capture.Options
	// Constraints override camera.DefaultConstraints. Optional.
	Constraints *camera.Constraints
	// StartCamera opens DeviceID (or the first camera) during Start
	StartCamera bool
	DeviceID    string
	Logger      zerolog.Logger
}

// Session owns one live camera stream and the snapshot pipeline
type Session struct {
	provider    camera.Provider
	surface     Surface
	opts        capture.Options
	constraints *camera.Constraints
	startCamera bool
	deviceID    string
	log         zerolog.Logger

	// Outputs
	DetectedDevices *signal.Signal[[]camera.Device]
	ImageCaptured   *signal.Signal[*capture.Image]
	StreamStarted   *signal.Signal[StreamInfo]
	Errors          *signal.Signal[error]

	// Inputs
	switchIn  signal.Binding[camera.Device]
	triggerIn signal.Binding[struct{}]
	clearIn   signal.Binding[struct{}]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      State
	stream     camera.Stream
	device     camera.Device
	generation uint64
	raster     *capture.Raster
	closed     bool
}

func New(cfg Config) *Session {
	surface := cfg.Surface
	if surface == nil {
		surface = preview.New(cfg.Logger)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		provider:        cfg.Provider,
		surface:         surface,
		opts:            cfg.Options,
		constraints:     cfg.Constraints,
		startCamera:     cfg.StartCamera,
		deviceID:        cfg.DeviceID,
		log:             cfg.Logger,
		DetectedDevices: signal.New[[]camera.Device](),
		ImageCaptured:   signal.New[*capture.Image](),
		StreamStarted:   signal.New[StreamInfo](),
		Errors:          signal.New[error](),
		ctx:             ctx,
		cancel:          cancel,
		raster:          capture.NewRaster(cfg.Options.Width, cfg.Options.Height),
	}
}

// Start runs the initial enumeration, publishes the detected cameras and,
// when configured, opens the preferred one.
func (s *Session) Start(ctx context.Context) error {
	devices, err := camera.ListVideoInputs(ctx, s.provider)
	if err != nil {
		s.reportError(err)
		return err
	}

	s.log.Info().Int("count", len(devices)).Msg("Detected cameras")
	s.DetectedDevices.Emit(devices)

	if !s.startCamera || len(devices) == 0 {
		return nil
	}

	dev := devices[0]
	for _, d := range devices {
		if d.ID == s.deviceID {
			dev = d
			break
		}
	}

	if err := s.SwitchToDevice(ctx, dev); err != nil {
		if !errors.Is(err, ErrSuperseded) {
			s.reportError(err)
		}
		return err
	}
	return nil
}

// SwitchToDevice stops the active stream, then opens dev. The old stream's
// tracks are all stopped before the platform is asked for the new one.
func (s *Session) SwitchToDevice(ctx context.Context, dev camera.Device) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	s.stopLocked()

	if s.provider == nil || !s.provider.Capabilities().Capture {
		s.mu.Unlock()
		return &camera.OpenStreamError{DeviceID: dev.ID, Err: camera.ErrUnsupported}
	}

	s.generation++
	gen := s.generation
	s.state = Initializing
	constraints := camera.ForDevice(dev.ID, s.constraints)
	s.mu.Unlock()

	s.log.Info().Str("device", dev.Name()).Msg("Opening camera")

	stream, err := s.provider.OpenStream(ctx, constraints)

	s.mu.Lock()
	if gen != s.generation || s.closed {
		s.mu.Unlock()
		camera.StopTracks(stream)
		s.log.Debug().Str("device", dev.Name()).Msg("Discarded superseded camera open")
		return ErrSuperseded
	}

	if err != nil {
		s.state = Idle
		s.mu.Unlock()
		return &camera.OpenStreamError{DeviceID: dev.ID, Err: err}
	}

	s.stream = stream
	s.device = dev
	s.surface.Bind(stream)
	if err := s.surface.Play(s.ctx); err != nil {
		s.stopLocked()
		s.mu.Unlock()
		return &camera.OpenStreamError{DeviceID: dev.ID, Err: err}
	}
	s.state = Streaming
	s.mu.Unlock()

	s.log.Info().Str("device", dev.Name()).Str("stream", stream.ID()).Msg("Camera streaming")
	s.StreamStarted.Emit(StreamInfo{
		StreamID:    stream.ID(),
		Device:      dev,
		Constraints: constraints,
	})

	return nil
}

// CaptureSnapshot draws the current preview frame and encodes it. The
// raster takes the frame's native size, or the configured size when the
// stream has not reported one yet.
func (s *Session) CaptureSnapshot() (*capture.Image, error) {
	s.mu.Lock()
	if s.state != Streaming {
		s.mu.Unlock()
		return nil, ErrNotStreaming
	}

	width, height := s.surface.VideoSize()
	if width == 0 || height == 0 {
		width, height = s.opts.Width, s.opts.Height
	}

	img, err := s.raster.Snapshot(s.surface.CurrentFrame(), width, height, s.opts)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.log.Debug().Int("width", width).Int("height", height).Str("type", img.MimeType()).Msg("Captured snapshot")
	s.ImageCaptured.Emit(img)
	return img, nil
}

// ClearSurface erases the raster. The live stream keeps running.
func (s *Session) ClearSurface() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raster.Clear()
}

// SetOptions replaces the snapshot options used by later captures
func (s *Session) SetOptions(opts capture.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}

func (s *Session) Options() capture.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Stop releases the active stream. Any in-flight open is discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.stream != nil {
		s.log.Info().Str("device", s.device.Name()).Msg("Stopping camera")
		camera.StopTracks(s.stream)
		s.surface.Unbind()
	}
	s.stream = nil
	s.device = camera.Device{}
	s.state = Idle
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveDevice returns the streaming device, if any
func (s *Session) ActiveDevice() (camera.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device, s.stream != nil
}

// BindSwitchDevice subscribes to a device-switch source, replacing any
// previous one. Each value opens that device in the background; failures
// go to Errors.
func (s *Session) BindSwitchDevice(src signal.Source[camera.Device]) {
	s.switchIn.Bind(src, func(dev camera.Device) {
		s.switchAsync(dev)
	})
}

// switchAsync opens dev on a tracked goroutine. It reports false once the
// session is closed, since an emit can still reach the handler after
// Close released the binding.
func (s *Session) switchAsync(dev camera.Device) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := s.SwitchToDevice(s.ctx, dev); err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, ErrClosed) {
			s.reportError(err)
		}
	}()
	return true
}

// BindTrigger subscribes to a capture-trigger source, replacing any previous one
func (s *Session) BindTrigger(src signal.Source[struct{}]) {
	s.triggerIn.Bind(src, func(struct{}) {
		if _, err := s.CaptureSnapshot(); err != nil {
			s.reportError(err)
		}
	})
}

// BindClear subscribes to a clear-surface source, replacing any previous one
func (s *Session) BindClear(src signal.Source[struct{}]) {
	s.clearIn.Bind(src, func(struct{}) {
		s.ClearSurface()
	})
}

// Close unbinds all inputs, stops the stream and waits for background
// opens to finish.
func (s *Session) Close() error {
	s.switchIn.Release()
	s.triggerIn.Release()
	s.clearIn.Release()

	s.mu.Lock()
	s.closed = true
	s.generation++
	s.stopLocked()
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Session) reportError(err error) {
	s.log.Error().Err(err).Msg("Camera error")
	s.Errors.Emit(err)
}
