package camera

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when the platform lacks enumeration or capture
var ErrUnsupported = errors.New("camera: capability not supported")

// EnumerationError is returned when the platform rejects a device listing.
type EnumerationError struct {
	// Message is the platform's message, passed through verbatim.
	Message string
	Err     error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("camera: enumerate devices: %s", e.Message)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// OpenStreamError is returned when a constrained stream could not be opened
// (permission denied, device busy, constraints unsatisfiable).
type OpenStreamError struct {
	DeviceID string
	Err      error
}

func (e *OpenStreamError) Error() string {
	if e.DeviceID == "" {
		return fmt.Sprintf("camera: open stream: %v", e.Err)
	}
	return fmt.Sprintf("camera: open stream on %s: %v", e.DeviceID, e.Err)
}

func (e *OpenStreamError) Unwrap() error {
	return e.Err
}
