// Package logging configures the console logger.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the default console logging options.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
		Prefix:          "bmconf",
	}
}

// New creates a console logger writing to stderr, keeping stdout free
// for command output.
func New(opts Options) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           opts.Level,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// ParseLevel maps a --log-level flag value to a log.Level, defaulting
// to info for unknown names.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
