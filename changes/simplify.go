package changes

import "github.com/tsawler/pdfdiff/model"

// Simplify merges each changed fragment into the previous entry when both
// come from the same page of the same document, are consecutive in reading
// order and sit on the same line. The merged box spans both boxes and its
// text is the concatenation of both texts. Separators are kept as they are.
//
// The input list and the fragments it points to are not modified.
func Simplify(list []model.Change) []model.Change {
	out := make([]model.Change, 0, len(list))
	var (
		last     *model.Fragment // merged copy owned by out
		lastOrig int             // Index of the most recent fragment merged into last
	)

	for _, c := range list {
		if c.IsSeparator() {
			out = append(out, c)
			last = nil
			continue
		}

		f := c.Fragment
		if last != nil && sameLine(last, f) && lastOrig+1 == f.Index {
			last.BBox = last.BBox.Union(f.BBox)
			last.Text += f.Text
			last.Length += f.Length
			lastOrig = f.Index
			continue
		}

		merged := *f
		last = &merged
		lastOrig = f.Index
		out = append(out, model.FragmentChange(last))
	}
	return out
}

func sameLine(a, b *model.Fragment) bool {
	return a.Source == b.Source &&
		a.Page == b.Page &&
		a.BBox.Y == b.BBox.Y &&
		a.BBox.Height == b.BBox.Height
}

// Summary counts what a change list reports.
type Summary struct {
	Runs  int `json:"runs"`  // Groups of changes between separators
	Left  int `json:"left"`  // Changed fragments in document 0
	Right int `json:"right"` // Changed fragments in document 1
}

// Summarize counts runs and changed fragments per document.
func Summarize(list []model.Change) Summary {
	var s Summary
	if len(list) > 0 {
		s.Runs = 1
	}
	for _, c := range list {
		switch {
		case c.IsSeparator():
			s.Runs++
		case c.Fragment.Source.Index == 0:
			s.Left++
		default:
			s.Right++
		}
	}
	return s
}
