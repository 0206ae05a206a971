package textdiff

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// DefaultTimeout is the time budget of the character tier.
	DefaultTimeout = 5 * time.Second

	// DefaultDegenerateHunks is the hunk count at or below which a character
	// tier result is considered uninformative.
	DefaultDegenerateHunks = 4
)

// Config configures a Differ.
type Config struct {
	// Granularity selects the token unit of the fallback tier.
	Granularity Granularity `json:"granularity" yaml:"granularity"`

	// Timeout bounds the character tier. Zero selects DefaultTimeout,
	// a negative value removes the bound.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// DegenerateHunks is the hunk count at or below which the character
	// tier result is discarded in favor of the token tier. Zero selects
	// DefaultDegenerateHunks, a negative value disables the fallback.
	DegenerateHunks int `json:"degenerate_hunks" yaml:"degenerate_hunks"`

	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns the default differ configuration.
func DefaultConfig() Config {
	return Config{
		Granularity:     Word,
		Timeout:         DefaultTimeout,
		DegenerateHunks: DefaultDegenerateHunks,
	}
}

func (c *Config) defaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DegenerateHunks == 0 {
		c.DegenerateHunks = DefaultDegenerateHunks
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Differ computes tiered text diffs. A Differ holds no per-diff state and
// is safe for concurrent use.
type Differ struct {
	cfg Config
}

// New creates a Differ. Zero-valued fields of cfg take their defaults.
func New(cfg Config) *Differ {
	cfg.defaults()
	return &Differ{cfg: cfg}
}

// Config returns the effective configuration.
func (d *Differ) Config() Config {
	return d.cfg
}

// Diff returns the hunks transforming a into b.
func (d *Differ) Diff(a, b string) ([]Hunk, error) {
	started := time.Now()
	hunks := d.diffCharacters(a, b)
	if len(hunks) > d.cfg.DegenerateHunks {
		return hunks, nil
	}

	d.cfg.Logger.Debug("character diff degenerate, retrying over tokens",
		"hunks", len(hunks),
		"threshold", d.cfg.DegenerateHunks,
		"granularity", d.cfg.Granularity.String(),
		"elapsed", time.Since(started))

	tokenHunks, err := d.diffTokens(a, b)
	if err != nil {
		return nil, err
	}

	d.cfg.Logger.Debug("token diff finished",
		"hunks", len(tokenHunks),
		"elapsed", time.Since(started))
	return tokenHunks, nil
}

// diffCharacters runs the time-bounded character tier.
func (d *Differ) diffCharacters(a, b string) []Hunk {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = d.cfg.Timeout
	if dmp.DiffTimeout < 0 {
		dmp.DiffTimeout = 0
	}
	return fromDMP(dmp.DiffMain(a, b, false), nil)
}

// diffTokens runs the unbounded token tier.
func (d *Differ) diffTokens(a, b string) ([]Hunk, error) {
	table := newTokenTable()

	ra, err := table.encode(tokenize(a, d.cfg.Granularity))
	if err != nil {
		return nil, fmt.Errorf("encoding left text: %w", err)
	}
	rb, err := table.encode(tokenize(b, d.cfg.Granularity))
	if err != nil {
		return nil, fmt.Errorf("encoding right text: %w", err)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return fromDMP(dmp.DiffMainRunes(ra, rb, false), table.decode), nil
}

// Diff diffs a and b with the default configuration.
func Diff(a, b string) ([]Hunk, error) {
	return New(DefaultConfig()).Diff(a, b)
}
