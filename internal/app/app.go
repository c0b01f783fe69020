package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petems/snapcam/internal/camera"
	"github.com/petems/snapcam/internal/capture"
	"github.com/petems/snapcam/internal/config"
	"github.com/petems/snapcam/internal/export"
	"github.com/petems/snapcam/internal/session"
	"github.com/petems/snapcam/internal/signal"
	"github.com/rs/zerolog"
)

var errNoExporter = errors.New("no exporter configured")

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetStreaming(dev camera.Device)
	SetCaptured(path string)
	SetError(err error)
	SetDevices(devices []camera.Device)
}

type Config struct {
	Provider      camera.Provider
	Surface       session.Surface // Optional
	Exporter      export.Exporter
	Config        *config.Config
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
}

// App is the host of a capture session. It owns the input signals the
// session listens to and reacts to everything the session publishes.
type App struct {
	session *session.Session
	exp     export.Exporter
	cfg     *config.Config
	log     zerolog.Logger
	status  StatusUpdater

	switchDevice *signal.Signal[camera.Device]
	trigger      *signal.Signal[struct{}]
	clear        *signal.Signal[struct{}]

	// cfgMu guards cfg, which is saved from several menu goroutines
	cfgMu sync.Mutex

	mu        sync.Mutex
	devices   []camera.Device
	lastImage *capture.Image
	lastPath  string
	lastErr   error
}

func New(cfg Config) *App {
	a := &App{
		exp:          cfg.Exporter,
		cfg:          cfg.Config,
		log:          cfg.Logger,
		status:       cfg.StatusUpdater,
		switchDevice: signal.New[camera.Device](),
		trigger:      signal.New[struct{}](),
		clear:        signal.New[struct{}](),
	}

	a.session = session.New(session.Config{
		Provider:    cfg.Provider,
		Surface:     cfg.Surface,
		Options:     cfg.Config.CaptureOptions(),
		Constraints: cfg.Config.Constraints(),
		StartCamera: cfg.Config.Camera.StartCamera,
		DeviceID:    cfg.Config.Camera.DeviceID,
		Logger:      cfg.Logger,
	})

	a.session.BindSwitchDevice(a.switchDevice)
	a.session.BindTrigger(a.trigger)
	a.session.BindClear(a.clear)

	a.session.DetectedDevices.Register(a.onDevices)
	a.session.StreamStarted.Register(a.onStreamStarted)
	a.session.ImageCaptured.Register(a.onImage)
	a.session.Errors.Register(a.onError)

	return a
}

// Start detects cameras and opens the preferred one when configured
func (a *App) Start(ctx context.Context) error {
	a.log.Info().Msg("Detecting cameras")
	return a.session.Start(ctx)
}

func (a *App) onDevices(devices []camera.Device) {
	a.mu.Lock()
	a.devices = devices
	a.mu.Unlock()

	for _, d := range devices {
		a.log.Debug().Str("id", d.ID).Str("label", d.Label).Msg("Camera")
	}
	if a.status != nil {
		a.status.SetDevices(devices)
	}
}

func (a *App) onStreamStarted(info session.StreamInfo) {
	if a.status != nil {
		a.status.SetStreaming(info.Device)
	}
}

func (a *App) onImage(img *capture.Image) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	path := ""
	if a.exp != nil {
		var err error
		path, err = a.exp.Export(ctx, img)
		if err != nil {
			a.log.Error().Err(err).Msg("Export error")
			if a.status != nil {
				a.status.SetError(err)
			}
		}
	}

	a.mu.Lock()
	a.lastImage = img
	a.lastPath = path
	a.mu.Unlock()

	a.log.Info().Str("path", path).Int("width", img.Width()).Int("height", img.Height()).Msg("Snapshot captured")
	if a.status != nil {
		a.status.SetCaptured(path)
	}
}

func (a *App) onError(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()

	if a.status != nil {
		a.status.SetError(err)
	}
}

// SelectDevice switches to the camera with the given ID and remembers it
func (a *App) SelectDevice(id string) error {
	a.mu.Lock()
	var dev camera.Device
	found := false
	for _, d := range a.devices {
		if d.ID == id {
			dev, found = d, true
			break
		}
	}
	a.mu.Unlock()

	if !found {
		return fmt.Errorf("unknown camera: %s", id)
	}

	a.cfgMu.Lock()
	a.cfg.Camera.DeviceID = id
	if err := a.cfg.Save(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to save config")
	}
	a.cfgMu.Unlock()

	a.switchDevice.Emit(dev)
	return nil
}

// Snapshot triggers a capture; the result arrives through the session
func (a *App) Snapshot() {
	a.trigger.Emit(struct{}{})
}

// Clear erases the snapshot surface
func (a *App) Clear() {
	a.clear.Emit(struct{}{})
}

// StopCamera releases the camera without closing the app
func (a *App) StopCamera() {
	a.session.Stop()
	if a.status != nil {
		a.status.SetIdle()
	}
}

// SetImageType changes the encoding of later snapshots
func (a *App) SetImageType(t capture.ImageType) error {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()

	opts := a.session.Options()
	opts.ImageType = t
	a.session.SetOptions(opts)

	if t == capture.JPEG {
		a.cfg.Camera.ImageType = "jpeg"
	} else {
		a.cfg.Camera.ImageType = "png"
	}
	return a.cfg.Save()
}

// ImageType returns the configured snapshot encoding, "jpeg" or "png"
func (a *App) ImageType() string {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	return a.cfg.Camera.ImageType
}

// CopyLast copies the most recent snapshot to the clipboard
func (a *App) CopyLast(ctx context.Context) error {
	a.mu.Lock()
	img := a.lastImage
	a.mu.Unlock()

	if img == nil {
		return fmt.Errorf("no snapshot taken yet")
	}
	if a.exp == nil {
		return errNoExporter
	}
	return a.exp.Copy(ctx, img)
}

func (a *App) ListDevices() []camera.Device {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]camera.Device(nil), a.devices...)
}

func (a *App) LastImage() (*capture.Image, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastImage, a.lastPath
}

func (a *App) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *App) State() session.State {
	return a.session.State()
}

func (a *App) ActiveDevice() (camera.Device, bool) {
	return a.session.ActiveDevice()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info().Msg("Releasing camera")
	return a.session.Close()
}
