package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/pdfdiff/format"
	"github.com/tsawler/pdfdiff/model"
)

// ErrUnsupportedFormat is returned for inputs that no reader handles.
var ErrUnsupportedFormat = errors.New("extract: unsupported input format")

// Document is one input document ready for flattening.
type Document struct {
	Source model.Source `json:"pdf"`
	Pages  []model.Page `json:"pages"`
}

// Options controls loading and filtering.
type Options struct {
	// TopMargin and BottomMargin are percentages of the page height.
	// Items entirely above TopMargin or entirely below BottomMargin are
	// dropped. Zero BottomMargin means 100.
	TopMargin    float64
	BottomMargin float64

	// MarkHyphens tags hyphens at the end of a line as soft hyphens.
	MarkHyphens bool

	// PDFToText is the pdftotext executable used for PDF inputs.
	// Empty means "pdftotext" from PATH.
	PDFToText string
}

// Open loads filename as document number index. The format is taken from
// the extension, falling back to the file's leading bytes.
func Open(ctx context.Context, filename string, index int, opts Options) (*Document, error) {
	f := format.Detect(filename)
	if f == format.PDF {
		pages, err := (&PDFToText{Path: opts.PDFToText}).Extract(ctx, filename)
		if err != nil {
			return nil, err
		}
		return finish(filename, index, pages, opts), nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if f == format.Unknown {
		magic, _ := br.Peek(512)
		f = format.DetectFromMagic(magic)
	}

	var pages []model.Page
	switch f {
	case format.JSON:
		pages, err = ReadJSON(br)
	case format.BBoxHTML:
		pages, err = ReadBBoxHTML(br)
	case format.PDF:
		// A PDF without a .pdf extension; pdftotext reads the path itself.
		pages, err = (&PDFToText{Path: opts.PDFToText}).Extract(ctx, filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	return finish(filename, index, pages, opts), nil
}

// FromReader loads a document of a known format from r.
func FromReader(r io.Reader, f format.Format, src model.Source, opts Options) (*Document, error) {
	var (
		pages []model.Page
		err   error
	)
	switch f {
	case format.JSON:
		pages, err = ReadJSON(r)
	case format.BBoxHTML:
		pages, err = ReadBBoxHTML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return finish(src.File, src.Index, pages, opts), nil
}

func finish(filename string, index int, pages []model.Page, opts Options) *Document {
	pages = opts.Apply(pages)
	return &Document{
		Source: model.Source{Index: index, File: filename},
		Pages:  pages,
	}
}

// Apply runs the configured filters over pages.
func (o Options) Apply(pages []model.Page) []model.Page {
	bottom := o.BottomMargin
	if bottom == 0 {
		bottom = 100
	}
	if o.TopMargin > 0 || bottom < 100 {
		pages = CropMargins(pages, o.TopMargin, bottom)
	}
	if o.MarkHyphens {
		pages = MarkLineEndHyphens(pages)
	}
	return pages
}
