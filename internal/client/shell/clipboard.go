package shell

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when the system has no clipboard utility.
var ErrNoClipboard = errors.New("no clipboard utility available")

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}
