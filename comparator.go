package pdfdiff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tsawler/pdfdiff/changes"
	"github.com/tsawler/pdfdiff/config"
	"github.com/tsawler/pdfdiff/extract"
	"github.com/tsawler/pdfdiff/flatten"
	"github.com/tsawler/pdfdiff/model"
	"github.com/tsawler/pdfdiff/textdiff"
)

// Comparator provides a fluent interface for comparing two documents.
// Each configuration method returns a new Comparator, making it safe for
// concurrent use and allowing method chaining.
type Comparator struct {
	// Sources: a file name or a loaded document per side
	files [2]string
	docs  [2]*extract.Document

	options compareOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Comparator. Loaded documents are shared; they
// are never modified.
func (c *Comparator) clone() *Comparator {
	newCmp := *c
	return &newCmp
}

// ============================================================================
// Configuration
// ============================================================================

// Granularity sets the token unit used when the character diff is too coarse.
//
// Example:
//
//	list, err := pdfdiff.Open("a.pdf", "b.pdf").Granularity(textdiff.Line).Changes(ctx)
func (c *Comparator) Granularity(g textdiff.Granularity) *Comparator {
	newCmp := c.clone()
	newCmp.options.diff.Granularity = g
	return newCmp
}

// Timeout bounds the character diff. A negative duration removes the bound.
func (c *Comparator) Timeout(d time.Duration) *Comparator {
	newCmp := c.clone()
	newCmp.options.diff.Timeout = d
	return newCmp
}

// DegenerateHunks sets the hunk count at or below which the character diff
// is replaced by a token diff. A negative count disables the token diff.
func (c *Comparator) DegenerateHunks(n int) *Comparator {
	newCmp := c.clone()
	newCmp.options.diff.DegenerateHunks = n
	return newCmp
}

// Margins ignores text lying entirely above top percent or entirely below
// bottom percent of each page, such as running heads and folios.
//
// Example:
//
//	list, err := pdfdiff.Open("a.pdf", "b.pdf").Margins(8, 92).Changes(ctx)
func (c *Comparator) Margins(top, bottom float64) *Comparator {
	newCmp := c.clone()
	if top < 0 || bottom > 100 || top >= bottom {
		newCmp.err = fmt.Errorf("invalid margins %v-%v: want 0 <= top < bottom <= 100", top, bottom)
		return newCmp
	}
	newCmp.options.extract.TopMargin = top
	newCmp.options.extract.BottomMargin = bottom
	return newCmp
}

// JoinHyphens rejoins words hyphenated across a line break, so that a word
// reflowed onto one line is not reported as changed.
func (c *Comparator) JoinHyphens() *Comparator {
	newCmp := c.clone()
	newCmp.options.extract.MarkHyphens = true
	newCmp.options.flatten.JoinHyphens = true
	return newCmp
}

// UnicodeNFC normalizes text to Unicode composed form before comparing.
func (c *Comparator) UnicodeNFC() *Comparator {
	newCmp := c.clone()
	newCmp.options.flatten.UnicodeNFC = true
	return newCmp
}

// Simplify merges neighboring changed boxes on the same line.
func (c *Comparator) Simplify() *Comparator {
	return c.SimplifyBoxes(true)
}

// SimplifyBoxes turns box merging on or off, overriding WithConfig.
func (c *Comparator) SimplifyBoxes(on bool) *Comparator {
	newCmp := c.clone()
	newCmp.options.simplify = on
	return newCmp
}

// Logger sets the logger for debug messages. The default is slog.Default.
func (c *Comparator) Logger(l *slog.Logger) *Comparator {
	newCmp := c.clone()
	newCmp.options.logger = l
	return newCmp
}

// WithConfig replaces all settings covered by cfg. The logger is kept.
func (c *Comparator) WithConfig(cfg config.Config) *Comparator {
	newCmp := c.clone()
	if err := cfg.Validate(); err != nil {
		newCmp.err = err
		return newCmp
	}
	newCmp.options.diff = cfg.TextDiff()
	newCmp.options.extract = cfg.ExtractOptions()
	newCmp.options.flatten = cfg.FlattenOptions()
	newCmp.options.simplify = cfg.Output.Simplify
	return newCmp
}

// ============================================================================
// Terminal operations
// ============================================================================

// Changes loads both documents and returns their changed fragments.
//
// Example:
//
//	list, err := pdfdiff.Open("v1.pdf", "v2.pdf").Changes(ctx)
//	for _, ch := range list {
//	    fmt.Println(ch)
//	}
func (c *Comparator) Changes(ctx context.Context) ([]model.Change, error) {
	left, right, err := c.Documents(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	list, err := Compare(left, right, c.options.differ())
	if err != nil {
		return nil, err
	}
	if c.options.simplify {
		list = changes.Simplify(list)
	}

	c.options.log().Debug("compared documents",
		"left", left.Source.File,
		"right", right.Source.File,
		"changes", len(list),
		"elapsed", time.Since(start))
	return list, nil
}

// Documents loads and flattens both documents.
func (c *Comparator) Documents(ctx context.Context) (left, right *flatten.Document, err error) {
	if c.err != nil {
		return nil, nil, c.err
	}

	docs, err := c.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	var flat [2]*flatten.Document
	for i, doc := range docs {
		flat[i] = flatten.Build(doc.Source, doc.Pages, c.options.flatten)
	}
	return flat[0], flat[1], nil
}

type loaded struct {
	index int
	doc   *extract.Document
	err   error
}

// load reads both sides concurrently.
func (c *Comparator) load(ctx context.Context) ([2]*extract.Document, error) {
	results := make(chan loaded, 2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			doc, err := c.loadSide(ctx, i)
			results <- loaded{index: i, doc: doc, err: err}
		}(i)
	}

	var (
		docs [2]*extract.Document
		errs []error
	)
	for n := 0; n < 2; n++ {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		docs[r.index] = r.doc
	}
	if len(errs) > 0 {
		return docs, errors.Join(errs...)
	}
	return docs, nil
}

func (c *Comparator) loadSide(ctx context.Context, index int) (*extract.Document, error) {
	start := time.Now()

	var (
		doc *extract.Document
		err error
	)
	if given := c.docs[index]; given != nil {
		src := given.Source
		src.Index = index
		doc = &extract.Document{Source: src, Pages: c.options.extract.Apply(given.Pages)}
	} else {
		if c.files[index] == "" {
			return nil, fmt.Errorf("no document given for side %d", index)
		}
		doc, err = extract.Open(ctx, c.files[index], index, c.options.extract)
		if err != nil {
			return nil, err
		}
	}

	c.options.log().Debug("loaded document",
		"index", index,
		"file", doc.Source.File,
		"pages", len(doc.Pages),
		"elapsed", time.Since(start))
	return doc, nil
}
