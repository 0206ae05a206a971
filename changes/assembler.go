package changes

import "github.com/tsawler/pdfdiff/model"

// Assembler collects changed fragments and separators into a change list.
// Separators are only kept between two fragments, never doubled and never
// at either end.
type Assembler struct {
	entries []model.Change
}

// Add appends a changed fragment.
func (a *Assembler) Add(f *model.Fragment) {
	a.entries = append(a.entries, model.FragmentChange(f))
}

// Separate requests a boundary between the current run and the next one.
func (a *Assembler) Separate() {
	if len(a.entries) == 0 || a.entries[len(a.entries)-1].IsSeparator() {
		return
	}
	a.entries = append(a.entries, model.SeparatorChange())
}

// Changes returns the assembled list.
func (a *Assembler) Changes() []model.Change {
	if n := len(a.entries); n > 0 && a.entries[n-1].IsSeparator() {
		a.entries = a.entries[:n-1]
	}
	if a.entries == nil {
		return []model.Change{}
	}
	return a.entries
}
