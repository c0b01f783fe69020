package preview

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/petems/snapcam/internal/camera"
	"github.com/rs/zerolog"
)

// Player renders a bound stream by keeping its most recent frame
type Player struct {
	log zerolog.Logger

	mu     sync.Mutex
	stream camera.Stream
	frame  image.Image
	frames uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a player with nothing bound
func New(log zerolog.Logger) *Player {
	return &Player{log: log}
}

// Bind attaches s as the player's source, replacing (and stopping
// playback of) any previous stream. The previous frame is dropped.
func (p *Player) Bind(s camera.Stream) {
	p.Unbind()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stream = s
}

// Play starts pulling frames from the bound stream until ctx is done,
// the stream ends or the player is unbound.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return errors.New("preview: no stream bound")
	}
	if p.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.readLoop(loopCtx, p.stream, done)
	return nil
}

func (p *Player) readLoop(ctx context.Context, s camera.Stream, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := s.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.log.Debug().Err(err).Str("stream", s.ID()).Msg("Preview stopped")
			}
			return
		}

		p.mu.Lock()
		if p.stream == s {
			p.frame = frame
			p.frames++
		}
		p.mu.Unlock()
	}
}

// Unbind stops playback and detaches the stream. Safe to call repeatedly.
func (p *Player) Unbind() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.stream = nil
	p.frame = nil
	p.frames = 0
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// CurrentFrame returns the last frame read, or nil
func (p *Player) CurrentFrame() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// VideoSize returns the native size of the current frame. Both values are
// zero until the first frame arrives.
func (p *Player) VideoSize() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.frame == nil {
		return 0, 0
	}
	b := p.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Frames returns how many frames were read since the stream was bound
func (p *Player) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}
