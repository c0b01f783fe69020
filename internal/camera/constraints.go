package camera

// Constraints selects the device and the video format requested from the
// platform. Zero fields are left to the platform.
type Constraints struct {
	DeviceID    string
	Width       int
	Height      int
	AspectRatio float64
	FacingMode  string
}

// DefaultConstraints is used when the caller supplies none
var DefaultConstraints = Constraints{
	Width:       640,
	Height:      480,
	AspectRatio: 1,
	FacingMode:  "user",
}

// ForDevice returns base (or DefaultConstraints when base is nil) with the
// device pinned to deviceID. base is not modified.
func ForDevice(deviceID string, base *Constraints) Constraints {
	c := DefaultConstraints
	if base != nil {
		c = *base
	}
	if deviceID != "" {
		c.DeviceID = deviceID
	}
	return c
}
