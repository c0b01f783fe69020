package session

import "errors"

// State is the lifecycle state of a capture session
type State int

const (
	Idle State = iota
	Initializing
	Streaming
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Streaming:
		return "streaming"
	default:
		return "unknown"
	}
}

var (
	// ErrNotStreaming is returned by CaptureSnapshot when no stream is live
	ErrNotStreaming = errors.New("session: not streaming")

	// ErrSuperseded is returned by SwitchToDevice when a newer switch or a
	// Stop happened while the stream was opening. The late stream is closed.
	ErrSuperseded = errors.New("session: device switch superseded")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("session: closed")
)
