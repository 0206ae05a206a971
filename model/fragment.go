package model

import "encoding/json"

// Fragment is an atomic piece of normalized text with a fixed bounding box.
// A fragment is never subdivided: if any part of it changed, all of it did.
type Fragment struct {
	Source     Source
	Page       PageInfo
	BBox       BBox
	Text       string // Normalized text, never empty
	StartIndex int    // Offset of the first rune within the flattened document text
	Length     int    // Length of Text in runes
	Index      int    // Ordinal of the fragment within its document
}

// End returns the offset one past the fragment's last rune.
func (f *Fragment) End() int {
	return f.StartIndex + f.Length
}

// Overlaps reports whether the fragment's span intersects the window
// [offset, offset+length). A zero-length window still touches a fragment
// that starts before offset and ends after it.
func (f *Fragment) Overlaps(offset, length int) bool {
	return f.End() > offset && f.StartIndex < offset+length
}

// fragmentJSON is the wire form consumed by diff viewers.
type fragmentJSON struct {
	PDF        Source   `json:"pdf"`
	Page       PageInfo `json:"page"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Text       string   `json:"text"`
	StartIndex int      `json:"startIndex"`
	Index      int      `json:"index"`
}

// MarshalJSON implements json.Marshaler.
func (f Fragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(fragmentJSON{
		PDF:        f.Source,
		Page:       f.Page,
		X:          f.BBox.X,
		Y:          f.BBox.Y,
		Width:      f.BBox.Width,
		Height:     f.BBox.Height,
		Text:       f.Text,
		StartIndex: f.StartIndex,
		Index:      f.Index,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Length is recomputed from Text.
func (f *Fragment) UnmarshalJSON(data []byte) error {
	var fj fragmentJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}
	*f = Fragment{
		Source:     fj.PDF,
		Page:       fj.Page,
		BBox:       NewBBox(fj.X, fj.Y, fj.Width, fj.Height),
		Text:       fj.Text,
		StartIndex: fj.StartIndex,
		Length:     len([]rune(fj.Text)),
		Index:      fj.Index,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t TextItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(textItemJSON{
		Text:   t.Text,
		X:      t.BBox.X,
		Y:      t.BBox.Y,
		Width:  t.BBox.Width,
		Height: t.BBox.Height,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TextItem) UnmarshalJSON(data []byte) error {
	var tj textItemJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	t.Text = tj.Text
	t.BBox = NewBBox(tj.X, tj.Y, tj.Width, tj.Height)
	return nil
}
