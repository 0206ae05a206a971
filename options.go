package pdfdiff

import (
	"log/slog"

	"github.com/tsawler/pdfdiff/extract"
	"github.com/tsawler/pdfdiff/flatten"
	"github.com/tsawler/pdfdiff/textdiff"
)

// compareOptions holds the configuration of a Comparator.
type compareOptions struct {
	diff    textdiff.Config
	extract extract.Options
	flatten flatten.Options

	// Merge neighboring boxes on a line after projection
	simplify bool

	logger *slog.Logger
}

// defaultOptions returns the default comparison options.
func defaultOptions() compareOptions {
	return compareOptions{
		diff:    textdiff.DefaultConfig(),
		extract: extract.Options{BottomMargin: 100},
	}
}

// log returns the configured logger, or slog.Default.
func (o compareOptions) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// differ returns the differencer settings with the logger attached.
func (o compareOptions) differ() textdiff.Config {
	cfg := o.diff
	cfg.Logger = o.log()
	return cfg
}
