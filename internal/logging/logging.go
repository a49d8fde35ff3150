// ABOUTME: Structured logger construction for geoedit
// ABOUTME: Wraps charmbracelet/log with level parsing and a shared default

package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "geoedit",
		ReportTimestamp: true,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

var defaultLogger = Discard()

// Default returns the process-wide logger. It discards output until
// SetDefault installs a real one.
func Default() *log.Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *log.Logger) {
	defaultLogger = l
}
