package export

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
)

// ClipboardWriter places text on a clipboard.
type ClipboardWriter interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function to the ClipboardWriter interface.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteAll(text string) error {
	return f(text)
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("system clipboard unsupported")
	}
	return clipboard.WriteAll(text)
}

// CopyToClipboard writes text through w and reports whether it succeeded.
// Failures, including panics raised by w, are logged and reduced to false;
// the caller never sees an error.
func CopyToClipboard(w ClipboardWriter, text string, logger *slog.Logger) (ok bool) {
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("clipboard write failed", "error", fmt.Sprint(r))
			ok = false
		}
	}()

	if w == nil {
		logger.Error("clipboard write failed", "error", "no clipboard writer")
		return false
	}

	if err := w.WriteAll(text); err != nil {
		logger.Error("clipboard write failed", "error", err)
		return false
	}

	return true
}
