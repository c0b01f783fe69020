package camera

import "context"

// ListVideoInputs queries the provider for devices and keeps the video
// inputs. Every call goes back to the platform since cameras can be
// attached or removed between calls.
func ListVideoInputs(ctx context.Context, p Provider) ([]Device, error) {
	if p == nil || !p.Capabilities().Enumerate {
		return nil, ErrUnsupported
	}

	devices, err := p.EnumerateDevices(ctx)
	if err != nil {
		return nil, &EnumerationError{Message: err.Error(), Err: err}
	}

	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.Kind == KindVideoInput {
			result = append(result, d)
		}
	}

	return result, nil
}
