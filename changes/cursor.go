package changes

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfdiff/flatten"
	"github.com/tsawler/pdfdiff/model"
)

// ErrPrecondition reports input that violates the ordering and coverage
// guarantees projection relies on.
var ErrPrecondition = errors.New("changes: precondition violated")

// cursor reads one document's fragments front to back. It never moves
// backwards.
type cursor struct {
	frags []model.Fragment
	pos   int
}

// newCursor checks that the document's fragments are contiguous and in
// offset order before handing out a cursor over them.
func newCursor(doc *flatten.Document) (*cursor, error) {
	offset := 0
	for i := range doc.Fragments {
		f := &doc.Fragments[i]
		if f.Length <= 0 {
			return nil, fmt.Errorf("%w: document %d fragment %d is empty", ErrPrecondition, doc.Source.Index, i)
		}
		if f.StartIndex != offset {
			return nil, fmt.Errorf("%w: document %d fragment %d starts at %d, want %d",
				ErrPrecondition, doc.Source.Index, i, f.StartIndex, offset)
		}
		offset = f.End()
	}
	if offset != doc.Length {
		return nil, fmt.Errorf("%w: document %d fragments cover %d runes of %d",
			ErrPrecondition, doc.Source.Index, offset, doc.Length)
	}
	return &cursor{frags: doc.Fragments}, nil
}

// mark reports, via hit, every remaining fragment overlapping the window
// [offset, offset+length), and consumes it. Fragments ending at or before
// offset are skipped for good.
func (c *cursor) mark(offset, length int, hit func(*model.Fragment)) {
	for c.pos < len(c.frags) && c.frags[c.pos].End() <= offset {
		c.pos++
	}
	for c.pos < len(c.frags) && c.frags[c.pos].Overlaps(offset, length) {
		hit(&c.frags[c.pos])
		c.pos++
	}
}
