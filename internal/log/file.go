package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewFileLogger creates a secure text logger that writes to both console and
// the file at path. The file is opened in append mode so successive runs
// accumulate in one log. The returned close function releases the file.
func NewFileLogger(console io.Writer, path string, verbose bool) (*slog.Logger, func() error, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // User-provided log path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewSecureLogger(io.MultiWriter(console, f), verbose), f.Close, nil
}
