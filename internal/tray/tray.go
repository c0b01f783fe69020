package tray

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
	"github.com/petems/snapcam/internal/app"
	"github.com/petems/snapcam/internal/camera"
	"github.com/petems/snapcam/internal/capture"
	"github.com/petems/snapcam/internal/config"
	"github.com/petems/snapcam/internal/logging"
	"github.com/rs/zerolog"
)

type UI struct {
	app     *app.App
	cfg     *config.Config
	version string
	commit  string
	log     zerolog.Logger
	ctx     context.Context

	// Menu items
	mSnapshot  *systray.MenuItem
	mClear     *systray.MenuItem
	mCopy      *systray.MenuItem
	mDevices   *systray.MenuItem
	mImageType *systray.MenuItem
	mStop      *systray.MenuItem

	mu          sync.Mutex
	ready       bool
	pending     []camera.Device
	deviceItems map[string]*systray.MenuItem
}

// Status update methods for the app to call
func (u *UI) SetIdle() {
	u.updateStatus("idle")
}

func (u *UI) SetStreaming(dev camera.Device) {
	u.updateStatus("streaming")
	u.checkDevice(dev.ID)
}

func (u *UI) SetCaptured(path string) {
	u.updateStatus("streaming")
	if path != "" {
		u.log.Info().Str("path", path).Msg("Snapshot saved")
	}
}

func (u *UI) SetError(err error) {
	u.updateStatus("error")
}

func (u *UI) SetDevices(devices []camera.Device) {
	u.mu.Lock()
	if !u.ready {
		u.pending = devices
		u.mu.Unlock()
		return
	}
	u.mu.Unlock()
	u.buildDeviceMenu(devices)
}

func New(application *app.App, cfg *config.Config, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		app:         application,
		cfg:         cfg,
		version:     version,
		commit:      commit,
		log:         log,
		deviceItems: make(map[string]*systray.MenuItem),
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

// Run blocks until the tray quits. The camera is started once the menu
// is ready.
func (u *UI) Run(ctx context.Context) error {
	u.ctx = ctx
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateStatus("idle")
	systray.SetTooltip("Camera snapshots")

	// Build menu
	u.mSnapshot = systray.AddMenuItem("Take Snapshot", "Capture a still image")
	u.mClear = systray.AddMenuItem("Clear", "Clear the snapshot surface")
	u.mCopy = systray.AddMenuItem("Copy Last Snapshot", "Copy the last snapshot as a data URL")
	systray.AddSeparator()

	u.mDevices = systray.AddMenuItem("Camera", "Select camera")
	u.mImageType = systray.AddMenuItem(imageTypeTitle(u.app.ImageType()), "Toggle between JPEG and PNG")
	u.mStop = systray.AddMenuItem("Stop Camera", "Release the camera")

	systray.AddSeparator()
	mSnapshots := systray.AddMenuItem("Open Snapshots", "Open the snapshot folder")
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About snapcam")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	u.mu.Lock()
	u.ready = true
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()
	if pending != nil {
		u.buildDeviceMenu(pending)
	}

	// Event loop
	go u.handleEvents(mSnapshots, mLogs, mAbout, mQuit)

	go func() {
		if err := u.app.Start(u.ctx); err != nil {
			u.log.Error().Err(err).Msg("Failed to start camera")
		}
	}()
}

func (u *UI) handleEvents(mSnapshots, mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mSnapshot.ClickedCh:
			u.app.Snapshot()
		case <-u.mClear.ClickedCh:
			u.app.Clear()
		case <-u.mCopy.ClickedCh:
			if err := u.app.CopyLast(u.ctx); err != nil {
				u.log.Error().Err(err).Msg("Failed to copy snapshot")
			}
		case <-u.mImageType.ClickedCh:
			u.toggleImageType()
		case <-u.mStop.ClickedCh:
			u.app.StopCamera()
			u.uncheckDevices()
		case <-mSnapshots.ClickedCh:
			u.open(u.cfg.Output.Dir)
		case <-mLogs.ClickedCh:
			u.open(logging.LogPath())
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) buildDeviceMenu(devices []camera.Device) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, item := range u.deviceItems {
		item.Hide()
	}
	u.deviceItems = make(map[string]*systray.MenuItem)

	if len(devices) == 0 {
		u.mDevices.Disable()
		return
	}
	u.mDevices.Enable()

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItem(dev.Name(), dev.ID)
		u.deviceItems[dev.ID] = item

		go func(dev camera.Device, menuItem *systray.MenuItem) {
			for range menuItem.ClickedCh {
				if err := u.app.SelectDevice(dev.ID); err != nil {
					u.log.Error().Err(err).Msg("Failed to switch camera")
					continue
				}
				u.log.Info().Str("camera", dev.Name()).Msg("Changed camera")
			}
		}(dev, item)
	}

	if active, ok := u.app.ActiveDevice(); ok {
		u.checkDeviceLocked(active.ID)
	}
}

func (u *UI) checkDevice(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.checkDeviceLocked(id)
}

func (u *UI) checkDeviceLocked(id string) {
	for devID, item := range u.deviceItems {
		if devID == id {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func (u *UI) uncheckDevices() {
	u.checkDevice("")
}

func (u *UI) toggleImageType() {
	old := u.app.ImageType()
	next := capture.PNG
	if old == "png" {
		next = capture.JPEG
	}

	if err := u.app.SetImageType(next); err != nil {
		u.log.Warn().Err(err).Msg("Failed to save config")
	}
	current := u.app.ImageType()
	u.mImageType.SetTitle(imageTypeTitle(current))
	u.log.Info().Str("from", old).Str("to", current).Msg("Changed image type")
}

func (u *UI) open(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		u.log.Error().Err(err).Str("path", path).Msg("Failed to open")
	}
}

func (u *UI) showAbout() {
	fmt.Printf("snapcam %s (%s)\nCamera snapshots from the tray\n", u.version, u.commit)
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with camera emoji and status indicator
func (u *UI) updateStatus(status string) {
	systray.SetTitle(fmt.Sprintf("📷 %s", emojiForStatus(status)))
}

func imageTypeTitle(imageType string) string {
	if imageType == "png" {
		return "Format: PNG"
	}
	return "Format: JPEG"
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "streaming":
		return "🔴" // Red - camera live
	case "idle":
		return "🟢" // Green - ready/idle
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - default to ready
	}
}
