package changes

import (
	"fmt"
	"unicode"

	"github.com/tsawler/pdfdiff/flatten"
	"github.com/tsawler/pdfdiff/model"
	"github.com/tsawler/pdfdiff/textdiff"
)

// side is one document as seen by the projector.
type side struct {
	doc    *flatten.Document
	text   []rune
	cursor *cursor
	offset int // runes consumed so far
}

// Project returns the fragments of left and right touched by hunks, in hunk
// order, with runs of change separated by model.Separator entries.
//
// The hunks must be a diff of left.Text against right.Text. Input that is
// not (hunks that do not match the documents, or fragments that do not tile
// their document) is reported as ErrPrecondition rather than projected.
func Project(hunks []textdiff.Hunk, left, right *flatten.Document) ([]model.Change, error) {
	var sides [2]*side
	for i, doc := range []*flatten.Document{left, right} {
		c, err := newCursor(doc)
		if err != nil {
			return nil, err
		}
		sides[i] = &side{doc: doc, text: []rune(doc.Text), cursor: c}
	}

	var asm Assembler
	for i, h := range hunks {
		text := []rune(h.Text)

		if h.Op == textdiff.Equal {
			for _, s := range sides {
				if err := s.consume(i, text); err != nil {
					return nil, err
				}
			}
			asm.Separate()
			continue
		}

		idx := h.Op.Side()
		if idx < 0 {
			return nil, fmt.Errorf("%w: hunk %d has unknown op %v", ErrPrecondition, i, h.Op)
		}
		this, other := sides[idx], sides[1-idx]

		// Whitespace at either end of the hunk does not make a box changed.
		start, length := trimSpace(text)
		if length > 0 {
			this.cursor.mark(this.offset+start, length, asm.Add)
		}
		if err := this.consume(i, text); err != nil {
			return nil, err
		}

		// The text is missing from the other document; flag the place
		// where it would have been.
		other.markInsertionPoint(asm.Add)
	}

	for _, s := range sides {
		if s.offset != len(s.text) {
			return nil, fmt.Errorf("%w: hunks cover %d of %d runes of document %d",
				ErrPrecondition, s.offset, len(s.text), s.doc.Source.Index)
		}
	}

	return asm.Changes(), nil
}

// consume advances the side past text, checking that text is what the
// document holds at the current offset.
func (s *side) consume(hunk int, text []rune) error {
	end := s.offset + len(text)
	if end > len(s.text) {
		return fmt.Errorf("%w: hunk %d runs past the end of document %d",
			ErrPrecondition, hunk, s.doc.Source.Index)
	}
	if string(s.text[s.offset:end]) != string(text) {
		return fmt.Errorf("%w: hunk %d does not match document %d at offset %d",
			ErrPrecondition, hunk, s.doc.Source.Index, s.offset)
	}
	s.offset = end
	return nil
}

// markInsertionPoint marks the fragments adjacent to the current offset:
// the one holding the rune just before it, and one straddling it. When the
// rune before is the space ending a fragment, the window slides forward to
// the first non-space rune so that the unchanged word ahead of the gap is
// not credited with the change. At the end of the text there is nothing
// ahead, and the rune before is used after all.
func (s *side) markInsertionPoint(hit func(*model.Fragment)) {
	before := s.offset - 1
	for before >= 0 && before < len(s.text) && unicode.IsSpace(s.text[before]) {
		before++
	}
	if before >= len(s.text) {
		before = s.offset - 1
	}
	s.cursor.mark(before, 1, hit)
	s.cursor.mark(s.offset, 0, hit)
}

// trimSpace returns the start and length of text without leading and
// trailing whitespace.
func trimSpace(text []rune) (start, length int) {
	end := len(text)
	for start < end && unicode.IsSpace(text[start]) {
		start++
	}
	for end > start && unicode.IsSpace(text[end-1]) {
		end--
	}
	return start, end - start
}
