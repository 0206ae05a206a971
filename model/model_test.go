package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBoxFromCorners(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           BBox
	}{
		{"normal", 10, 20, 50, 70, BBox{10, 20, 40, 50}},
		{"reversed", 50, 70, 10, 20, BBox{10, 20, 40, 50}},
		{"same point", 10, 10, 10, 10, BBox{10, 10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromCorners(tt.x1, tt.y1, tt.x2, tt.y2)
			if got != tt.want {
				t.Errorf("NewBBoxFromCorners() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxEdges(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)

	if bbox.Right() != 110 {
		t.Errorf("Right() = %v, want 110", bbox.Right())
	}
	if bbox.Bottom() != 70 {
		t.Errorf("Bottom() = %v, want 70", bbox.Bottom())
	}
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(10, 10, 20, 10)
	b := NewBBox(40, 5, 10, 10)

	got := a.Union(b)
	want := BBox{X: 10, Y: 5, Width: 40, Height: 15}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestBBoxScale(t *testing.T) {
	got := NewBBox(10, 20, 30, 40).Scale(2, 0.5)
	want := BBox{X: 20, Y: 10, Width: 60, Height: 20}
	if got != want {
		t.Errorf("Scale() = %+v, want %+v", got, want)
	}
}

func TestBBoxIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		bbox BBox
		want bool
	}{
		{"normal", NewBBox(0, 0, 10, 10), false},
		{"zero width", NewBBox(0, 0, 0, 10), true},
		{"zero height", NewBBox(0, 0, 10, 0), true},
		{"negative", NewBBox(0, 0, -1, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bbox.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Fragment Tests
// ============================================================================

func TestFragmentOverlaps(t *testing.T) {
	f := &Fragment{Text: "World ", StartIndex: 6, Length: 6}

	tests := []struct {
		name           string
		offset, length int
		want           bool
	}{
		{"window before", 0, 6, false},
		{"window touching start", 5, 1, false},
		{"window covering start", 5, 2, true},
		{"window inside", 8, 2, true},
		{"zero width at start", 6, 0, false},
		{"zero width inside", 7, 0, true},
		{"window at end", 12, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Overlaps(tt.offset, tt.length); got != tt.want {
				t.Errorf("Overlaps(%d, %d) = %v, want %v", tt.offset, tt.length, got, tt.want)
			}
		})
	}
}

func TestFragmentJSON(t *testing.T) {
	f := Fragment{
		Source:     Source{Index: 1, File: "b.pdf"},
		Page:       PageInfo{Number: 2, Width: 612, Height: 792},
		BBox:       NewBBox(72, 90, 40, 12),
		Text:       "Earth ",
		StartIndex: 6,
		Length:     6,
		Index:      1,
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, want := range []string{
		`"pdf":{"index":1,"file":"b.pdf"}`,
		`"page":{"number":2,"width":612,"height":792}`,
		`"x":72`, `"y":90`, `"width":40`, `"height":12`,
		`"text":"Earth "`,
		`"startIndex":6`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() = %s, missing %s", data, want)
		}
	}

	var back Fragment
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != f {
		t.Errorf("Unmarshal() = %+v, want %+v", back, f)
	}
}

// ============================================================================
// Change Tests
// ============================================================================

func TestChangeListJSON(t *testing.T) {
	a := &Fragment{Source: Source{Index: 0, File: "a"}, Text: "x ", Length: 2}
	b := &Fragment{Source: Source{Index: 1, File: "b"}, Text: "y ", Length: 2}
	list := []Change{FragmentChange(a), SeparatorChange(), FragmentChange(b)}

	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `},"*",{`) {
		t.Errorf("Marshal() = %s, want separator between fragments", data)
	}

	var back []Change
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("len = %d, want 3", len(back))
	}
	if back[0].IsSeparator() || !back[1].IsSeparator() || back[2].IsSeparator() {
		t.Errorf("Unmarshal() kinds = %v", back)
	}
	if back[2].Fragment.Text != "y " || back[2].Fragment.Source.Index != 1 {
		t.Errorf("Unmarshal() fragment = %+v", back[2].Fragment)
	}
}

func TestChangeUnmarshalRejectsUnknownMarker(t *testing.T) {
	var c Change
	if err := json.Unmarshal([]byte(`"+"`), &c); err == nil {
		t.Error("Unmarshal() expected error for unknown marker")
	}
}

func TestTextItemJSON(t *testing.T) {
	var p Page
	data := `{"number":1,"width":100,"height":200,"items":[{"text":"Hi","x":1,"y":2,"width":3,"height":4}]}`
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(p.Items) != 1 || p.Items[0].Text != "Hi" || p.Items[0].BBox != NewBBox(1, 2, 3, 4) {
		t.Errorf("Unmarshal() = %+v", p)
	}
	if p.Info() != (PageInfo{Number: 1, Width: 100, Height: 200}) {
		t.Errorf("Info() = %+v", p.Info())
	}
}
