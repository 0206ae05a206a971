// Package config loads pdfdiff settings from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfdiff/extract"
	"github.com/tsawler/pdfdiff/flatten"
	"github.com/tsawler/pdfdiff/render"
	"github.com/tsawler/pdfdiff/textdiff"
)

// Config is the top-level pdfdiff configuration.
type Config struct {
	Diff    DiffConfig    `yaml:"diff"`
	Extract ExtractConfig `yaml:"extract"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
}

// DiffConfig controls the text differencer.
type DiffConfig struct {
	Granularity     textdiff.Granularity `yaml:"granularity"`
	Timeout         time.Duration        `yaml:"timeout"` // negative: no limit
	DegenerateHunks int                  `yaml:"degenerate_hunks"`
}

// ExtractConfig controls loading and normalization of input documents.
type ExtractConfig struct {
	TopMargin    float64 `yaml:"top_margin"`    // percent of page height
	BottomMargin float64 `yaml:"bottom_margin"` // percent of page height
	JoinHyphens  bool    `yaml:"join_hyphens"`
	UnicodeNFC   bool    `yaml:"unicode_nfc"`
	PDFToText    string  `yaml:"pdftotext"`
}

// OutputConfig controls the change list and rendered image.
type OutputConfig struct {
	Simplify bool     `yaml:"simplify"`
	Width    int      `yaml:"width"`
	Styles   []string `yaml:"styles"` // one per document: box, strike or underline
	Crop     bool     `yaml:"crop"`
	PDFToPPM string   `yaml:"pdftoppm"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Diff.Timeout == 0 {
		c.Diff.Timeout = textdiff.DefaultTimeout
	}
	if c.Diff.DegenerateHunks == 0 {
		c.Diff.DegenerateHunks = textdiff.DefaultDegenerateHunks
	}
	if c.Extract.BottomMargin == 0 {
		c.Extract.BottomMargin = 100
	}
	if c.Output.Width <= 0 {
		c.Output.Width = render.DefaultWidth
	}
	if len(c.Output.Styles) == 0 {
		c.Output.Styles = []string{render.StyleStrike.String(), render.StyleUnderline.String()}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 64 << 20
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Extract.TopMargin < 0 || c.Extract.TopMargin > 100 {
		return fmt.Errorf("extract.top_margin %v out of range 0-100", c.Extract.TopMargin)
	}
	if c.Extract.BottomMargin < 0 || c.Extract.BottomMargin > 100 {
		return fmt.Errorf("extract.bottom_margin %v out of range 0-100", c.Extract.BottomMargin)
	}
	if c.Extract.TopMargin >= c.Extract.BottomMargin {
		return fmt.Errorf("extract.top_margin %v must be below bottom_margin %v",
			c.Extract.TopMargin, c.Extract.BottomMargin)
	}
	if len(c.Output.Styles) > 2 {
		return fmt.Errorf("output.styles has %d entries, want at most 2", len(c.Output.Styles))
	}
	if _, err := c.Styles(); err != nil {
		return err
	}
	return nil
}

// TextDiff returns the differencer settings.
func (c *Config) TextDiff() textdiff.Config {
	return textdiff.Config{
		Granularity:     c.Diff.Granularity,
		Timeout:         c.Diff.Timeout,
		DegenerateHunks: c.Diff.DegenerateHunks,
	}
}

// ExtractOptions returns the loader settings.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		TopMargin:    c.Extract.TopMargin,
		BottomMargin: c.Extract.BottomMargin,
		MarkHyphens:  c.Extract.JoinHyphens,
		PDFToText:    c.Extract.PDFToText,
	}
}

// FlattenOptions returns the normalization settings.
func (c *Config) FlattenOptions() flatten.Options {
	return flatten.Options{
		UnicodeNFC:  c.Extract.UnicodeNFC,
		JoinHyphens: c.Extract.JoinHyphens,
	}
}

// RenderOptions returns the image settings. Pages is left unset; callers
// that may rasterize the input files set it.
func (c *Config) RenderOptions() (render.Options, error) {
	styles, err := c.Styles()
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Width:  c.Output.Width,
		Styles: styles,
		Crop:   c.Output.Crop,
	}, nil
}

// Styles parses the per-document drawing styles. A single style applies to
// both documents.
func (c *Config) Styles() ([2]render.Style, error) {
	var styles [2]render.Style
	if len(c.Output.Styles) == 0 {
		return [2]render.Style{render.StyleStrike, render.StyleUnderline}, nil
	}
	for i := range styles {
		name := c.Output.Styles[len(c.Output.Styles)-1]
		if i < len(c.Output.Styles) {
			name = c.Output.Styles[i]
		}
		s, err := render.ParseStyle(name)
		if err != nil {
			return styles, fmt.Errorf("output.styles: %w", err)
		}
		styles[i] = s
	}
	return styles, nil
}
