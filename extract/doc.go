// Package extract turns already-extracted document text into model pages.
//
// Comparison never parses binary document formats itself. It consumes pages
// of positioned text items, which this package reads from one of:
//
//   - JSON: {"pages": [{"number", "width", "height", "items": [{"text", "x", "y", "width", "height"}]}]}
//   - the XHTML word boxes written by `pdftotext -bbox`
//   - a PDF file, by running the external pdftotext tool and reading its output
//
// [Open] picks the reader from the file name:
//
//	doc, err := extract.Open(ctx, "before.pdf", 0, extract.Options{BottomMargin: 92})
//
// Two filters adjust pages before flattening: [CropMargins] drops running
// headers and footers by position, and [MarkLineEndHyphens] tags hyphens that
// end a line so that flattening can rejoin the split word.
package extract
