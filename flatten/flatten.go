package flatten

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfdiff/model"
)

// SoftHyphen is the discretionary hyphen left at the end of a line-broken word.
const SoftHyphen = '\u00AD'

// Options controls text normalization.
type Options struct {
	// UnicodeNFC composes text to Unicode Normalization Form C, so that the
	// same glyphs extracted as decomposed or precomposed code points match.
	UnicodeNFC bool

	// JoinHyphens removes a trailing soft hyphen and omits the separating
	// space, joining the two halves of a word split across lines.
	JoinHyphens bool
}

// Document is the flattened form of one input document.
type Document struct {
	Source    model.Source
	Fragments []model.Fragment
	Text      string
	Length    int // Length of Text in runes
}

// Build flattens pages into a Document. Pages and their items are taken in
// the order given.
func Build(src model.Source, pages []model.Page, opts Options) *Document {
	doc := &Document{Source: src}

	var sb strings.Builder
	for _, page := range pages {
		info := page.Info()
		for _, item := range page.Items {
			normalized := Normalize(item.Text, opts)
			if normalized == "" {
				continue
			}

			length := utf8.RuneCountInString(normalized)
			doc.Fragments = append(doc.Fragments, model.Fragment{
				Source:     src,
				Page:       info,
				BBox:       item.BBox,
				Text:       normalized,
				StartIndex: doc.Length,
				Length:     length,
				Index:      len(doc.Fragments),
			})

			sb.WriteString(normalized)
			doc.Length += length
		}
	}

	doc.Text = sb.String()
	return doc
}

// Normalize trims s, collapses runs of whitespace to a single space and
// appends one trailing space. It returns "" when nothing but whitespace is left.
func Normalize(s string, opts Options) string {
	if opts.UnicodeNFC {
		s = norm.NFC.String(s)
	}

	words := strings.FieldsFunc(s, unicode.IsSpace)
	if len(words) == 0 {
		return ""
	}
	joined := strings.Join(words, " ")

	if opts.JoinHyphens {
		if trimmed, ok := strings.CutSuffix(joined, string(SoftHyphen)); ok {
			return strings.TrimRightFunc(trimmed, unicode.IsSpace)
		}
	}

	return joined + " "
}

// Check verifies that the fragments tile the document text exactly: each
// fragment starts where the previous one ended and their texts concatenate
// to Text.
func (d *Document) Check() error {
	offset := 0
	rest := d.Text
	for i := range d.Fragments {
		f := &d.Fragments[i]
		if f.Text == "" {
			return fmt.Errorf("fragment %d: empty text", i)
		}
		if f.StartIndex != offset {
			return fmt.Errorf("fragment %d: start index %d, want %d", i, f.StartIndex, offset)
		}
		if f.Length != utf8.RuneCountInString(f.Text) {
			return fmt.Errorf("fragment %d: length %d does not match text %q", i, f.Length, f.Text)
		}
		if !strings.HasPrefix(rest, f.Text) {
			return fmt.Errorf("fragment %d: text %q not found at offset %d", i, f.Text, offset)
		}
		rest = rest[len(f.Text):]
		offset += f.Length
	}
	if rest != "" {
		return fmt.Errorf("%d trailing bytes of text not covered by fragments", len(rest))
	}
	if offset != d.Length {
		return fmt.Errorf("fragments cover %d runes, document length is %d", offset, d.Length)
	}
	return nil
}
