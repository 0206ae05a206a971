package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Separator is the wire value marking a boundary between two runs of change.
const Separator = "*"

// Change is one entry of a change list: either a changed fragment or a
// separator between two non-adjacent changed regions.
type Change struct {
	Fragment *Fragment // nil for a separator
}

// SeparatorChange returns a separator entry.
func SeparatorChange() Change {
	return Change{}
}

// FragmentChange returns an entry reporting f as changed.
func FragmentChange(f *Fragment) Change {
	return Change{Fragment: f}
}

// IsSeparator reports whether the entry is a separator.
func (c Change) IsSeparator() bool {
	return c.Fragment == nil
}

// String returns the separator marker or the fragment's text.
func (c Change) String() string {
	if c.IsSeparator() {
		return Separator
	}
	return fmt.Sprintf("%d:%q@%d", c.Fragment.Source.Index, c.Fragment.Text, c.Fragment.StartIndex)
}

// MarshalJSON implements json.Marshaler.
func (c Change) MarshalJSON() ([]byte, error) {
	if c.IsSeparator() {
		return json.Marshal(Separator)
	}
	return json.Marshal(c.Fragment)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Change) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s != Separator {
			return fmt.Errorf("unexpected change marker %q", s)
		}
		c.Fragment = nil
		return nil
	}

	var f Fragment
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return err
	}
	c.Fragment = &f
	return nil
}
