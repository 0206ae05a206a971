// Package pdfdiff provides a fluent API for finding the text boxes that
// changed between two versions of a document.
//
// Basic usage:
//
//	list, err := pdfdiff.Open("old.pdf", "new.pdf").Changes(ctx)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	list, err := pdfdiff.Open("old.pdf", "new.pdf").
//	    Granularity(textdiff.Line).
//	    Margins(5, 95).
//	    JoinHyphens().
//	    Simplify().
//	    Changes(ctx)
//
// For lower-level control, the extract, flatten, textdiff and changes
// packages can be used directly, or Compare called on flattened documents.
package pdfdiff

import (
	"github.com/tsawler/pdfdiff/changes"
	"github.com/tsawler/pdfdiff/extract"
	"github.com/tsawler/pdfdiff/flatten"
	"github.com/tsawler/pdfdiff/model"
	"github.com/tsawler/pdfdiff/textdiff"
)

// Open returns a Comparator for the files left and right. Nothing is read
// until a terminal operation like Changes is called.
//
// Example:
//
//	list, err := pdfdiff.Open("v1.pdf", "v2.pdf").Changes(ctx)
func Open(left, right string) *Comparator {
	return &Comparator{
		files:   [2]string{left, right},
		options: defaultOptions(),
	}
}

// FromDocuments returns a Comparator for documents that are already loaded.
// Margin and hyphen settings are applied to copies of their pages.
//
// Example:
//
//	list, err := pdfdiff.FromDocuments(a, b).Simplify().Changes(ctx)
func FromDocuments(left, right *extract.Document) *Comparator {
	return &Comparator{
		docs:    [2]*extract.Document{left, right},
		options: defaultOptions(),
	}
}

// Compare diffs two flattened documents and returns the changed fragments
// of both, in diff order, with runs of change split by separators.
func Compare(left, right *flatten.Document, cfg textdiff.Config) ([]model.Change, error) {
	hunks, err := textdiff.New(cfg).Diff(left.Text, right.Text)
	if err != nil {
		return nil, err
	}
	return changes.Project(hunks, left, right)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	list := pdfdiff.Must(pdfdiff.Open("a.json", "b.json").Changes(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
