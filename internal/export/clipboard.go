package export

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("clipboard not supported on this system")

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
