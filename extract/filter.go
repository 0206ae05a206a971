package extract

import (
	"strings"

	"github.com/tsawler/pdfdiff/model"
)

// softHyphen marks a hyphen that only exists because a word was broken
// across lines.
const softHyphen = "\u00ad"

// CropMargins drops items lying entirely above top percent or entirely below
// bottom percent of their page height. Running heads, folios and footers
// that differ between versions are then not reported as changes.
func CropMargins(pages []model.Page, top, bottom float64) []model.Page {
	out := make([]model.Page, len(pages))
	for i, p := range pages {
		minY := top / 100 * p.Height
		maxY := bottom / 100 * p.Height

		kept := make([]model.TextItem, 0, len(p.Items))
		for _, item := range p.Items {
			if item.BBox.Bottom() < minY || item.BBox.Y > maxY {
				continue
			}
			kept = append(kept, item)
		}
		p.Items = kept
		out[i] = p
	}
	return out
}

// MarkLineEndHyphens replaces a trailing "-" on the last item of each line
// with a soft hyphen. An item ends a line when it is the last on its page or
// the next item starts below its vertical midpoint.
func MarkLineEndHyphens(pages []model.Page) []model.Page {
	out := make([]model.Page, len(pages))
	for i, p := range pages {
		items := make([]model.TextItem, len(p.Items))
		copy(items, p.Items)

		for j := range items {
			endsLine := j == len(items)-1 ||
				items[j+1].BBox.Y >= items[j].BBox.Y+items[j].BBox.Height/2
			if endsLine && strings.HasSuffix(items[j].Text, "-") {
				items[j].Text = strings.TrimSuffix(items[j].Text, "-") + softHyphen
			}
		}
		p.Items = items
		out[i] = p
	}
	return out
}
