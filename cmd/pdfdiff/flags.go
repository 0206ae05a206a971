package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/tsawler/pdfdiff/config"
	"github.com/tsawler/pdfdiff/textdiff"
)

// errUsage marks command lines that cannot be run.
var errUsage = errors.New("usage")

// options holds all the command-line flag values.
type options struct {
	ConfigFile      string
	Granularity     string
	Timeout         time.Duration
	DegenerateHunks int
	TopMargin       float64
	BottomMargin    float64
	JoinHyphens     bool
	UnicodeNFC      bool
	Simplify        bool
	PNG             string
	Styles          []string
	Width           int
	Crop            bool
	Changes         bool
	Serve           string
	Verbose         bool

	Files []string

	flags *pflag.FlagSet
}

// parseFlags defines and parses command-line flags using pflag.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("pdfdiff", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigFile, "config", "", "YAML configuration file; flags override its values.")
	fs.StringVarP(&opts.Granularity, "granularity", "g", "word", "Token unit when the character diff is too coarse: word, line or character.")
	fs.DurationVar(&opts.Timeout, "timeout", textdiff.DefaultTimeout, "Time budget of the character diff; negative means no limit.")
	fs.IntVar(&opts.DegenerateHunks, "degenerate-hunks", textdiff.DefaultDegenerateHunks, "Retry over tokens when the character diff has at most this many hunks; negative disables.")
	fs.Float64VarP(&opts.TopMargin, "top-margin", "t", 0, "Ignore text above this percent of the page height.")
	fs.Float64VarP(&opts.BottomMargin, "bottom-margin", "b", 100, "Ignore text below this percent of the page height.")
	fs.BoolVar(&opts.JoinHyphens, "join-hyphens", false, "Rejoin words hyphenated across a line break.")
	fs.BoolVar(&opts.UnicodeNFC, "nfc", false, "Normalize text to Unicode NFC before comparing.")
	fs.BoolVar(&opts.Simplify, "simplify", false, "Merge neighboring changed boxes on the same line.")
	fs.StringVarP(&opts.PNG, "png", "o", "", "Write the change map as PNG to this file ('-' for stdout) instead of printing JSON.")
	fs.StringSliceVarP(&opts.Styles, "style", "s", nil, "How to mark changes in the old and new document: box, strike or underline (default strike,underline).")
	fs.IntVarP(&opts.Width, "width", "r", 0, "Pixel width of each rendered page (default 900).")
	fs.BoolVar(&opts.Crop, "crop", false, "Trim blank page margins in the change map.")
	fs.BoolVarP(&opts.Changes, "changes", "c", false, "Read a change list as JSON from stdin and render it, ignoring files.")
	fs.StringVar(&opts.Serve, "serve", "", "Serve the comparison API on this address instead of comparing files.")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log debug messages to stderr.")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pdfdiff [flags] OLD NEW")
		fmt.Fprintln(stderr, "       pdfdiff --changes --png FILE < changes.json")
		fmt.Fprintln(stderr, "       pdfdiff --serve :8080")
		fmt.Fprintln(stderr, "\nFind the text boxes that changed between two documents.")
		fmt.Fprintln(stderr, "Inputs may be PDF (via pdftotext), pdftotext -bbox XHTML or page JSON.")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	opts.Files = fs.Args()
	opts.flags = fs

	switch {
	case opts.Serve != "" && opts.Changes:
		return nil, fmt.Errorf("%w: --serve and --changes are mutually exclusive", errUsage)
	case opts.Serve != "" || opts.Changes:
		if len(opts.Files) > 0 {
			return nil, fmt.Errorf("%w: no files expected with --serve or --changes", errUsage)
		}
	case len(opts.Files) != 2:
		return nil, fmt.Errorf("%w: exactly two files to compare are required, got %d", errUsage, len(opts.Files))
	}
	if opts.Changes && opts.PNG == "" {
		return nil, fmt.Errorf("%w: --changes needs --png", errUsage)
	}

	return opts, nil
}

// loadConfig loads the configuration file, if any, and applies the flags that
// were set on the command line.
func (o *options) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = config.LoadFile(o.ConfigFile); err != nil {
			return nil, err
		}
	}

	changed := o.flags.Changed
	if changed("granularity") {
		g, err := textdiff.ParseGranularity(o.Granularity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg.Diff.Granularity = g
	}
	if changed("timeout") {
		cfg.Diff.Timeout = o.Timeout
	}
	if changed("degenerate-hunks") {
		cfg.Diff.DegenerateHunks = o.DegenerateHunks
	}
	if changed("top-margin") {
		cfg.Extract.TopMargin = o.TopMargin
	}
	if changed("bottom-margin") {
		cfg.Extract.BottomMargin = o.BottomMargin
	}
	if changed("join-hyphens") {
		cfg.Extract.JoinHyphens = o.JoinHyphens
	}
	if changed("nfc") {
		cfg.Extract.UnicodeNFC = o.UnicodeNFC
	}
	if changed("simplify") {
		cfg.Output.Simplify = o.Simplify
	}
	if changed("style") {
		cfg.Output.Styles = o.Styles
	}
	if changed("width") {
		cfg.Output.Width = o.Width
	}
	if changed("crop") {
		cfg.Output.Crop = o.Crop
	}
	if changed("serve") {
		cfg.Server.Addr = o.Serve
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if cfg.Output.Width <= 0 {
		return nil, fmt.Errorf("%w: --width must be positive", errUsage)
	}
	return cfg, nil
}
