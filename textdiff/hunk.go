package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op classifies a hunk.
type Op int

const (
	// Equal marks text present in both documents.
	Equal Op = iota
	// OnlyLeft marks text present only in the left (old) document.
	OnlyLeft
	// OnlyRight marks text present only in the right (new) document.
	OnlyRight
)

// String returns the diff-style symbol of the operation.
func (o Op) String() string {
	switch o {
	case Equal:
		return "="
	case OnlyLeft:
		return "-"
	case OnlyRight:
		return "+"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Side returns the document index (0 or 1) a one-sided hunk belongs to,
// and -1 for Equal.
func (o Op) Side() int {
	switch o {
	case OnlyLeft:
		return 0
	case OnlyRight:
		return 1
	default:
		return -1
	}
}

// Hunk is a maximal run of diff output sharing one classification.
type Hunk struct {
	Op   Op
	Text string
}

func (h Hunk) String() string {
	return fmt.Sprintf("%s%q", h.Op, h.Text)
}

// Reconstruct concatenates the hunks visible from one side: side 0 yields
// the left text, side 1 the right text.
func Reconstruct(hunks []Hunk, side int) string {
	var sb strings.Builder
	for _, h := range hunks {
		if h.Op == Equal || h.Op.Side() == side {
			sb.WriteString(h.Text)
		}
	}
	return sb.String()
}

func fromDMP(diffs []diffmatchpatch.Diff, decode func(string) string) []Hunk {
	hunks := make([]Hunk, 0, len(diffs))
	for _, d := range diffs {
		text := d.Text
		if decode != nil {
			text = decode(text)
		}
		if text == "" {
			continue
		}

		var op Op
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OnlyLeft
		case diffmatchpatch.DiffInsert:
			op = OnlyRight
		default:
			op = Equal
		}
		hunks = append(hunks, Hunk{Op: op, Text: text})
	}
	return hunks
}
