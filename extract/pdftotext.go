package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/tsawler/pdfdiff/model"
)

// PDFToText extracts word boxes from a PDF by running poppler's pdftotext.
type PDFToText struct {
	Path string // Executable; empty means "pdftotext"
}

// Extract runs `pdftotext -bbox filename -` and parses its output.
func (p *PDFToText) Extract(ctx context.Context, filename string) ([]model.Page, error) {
	bin := p.Path
	if bin == "" {
		bin = "pdftotext"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-bbox", filename, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("running %s on %s: %w: %s", bin, filename, err, msg)
		}
		return nil, fmt.Errorf("running %s on %s: %w", bin, filename, err)
	}

	pages, err := ReadBBoxHTML(bytes.NewReader(stripControl(stdout.Bytes())))
	if err != nil {
		return nil, fmt.Errorf("reading %s output for %s: %w", bin, filename, err)
	}
	return pages, nil
}

// stripControl removes C0 control bytes other than tab, newline and
// carriage return. pdftotext copies them from the PDF verbatim and they are
// not valid in XML character data.
func stripControl(data []byte) []byte {
	out := data[:0]
	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			continue
		}
		out = append(out, b)
	}
	return out
}
