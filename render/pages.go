package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os/exec"
	"strconv"

	"golang.org/x/image/draw"

	"github.com/tsawler/pdfdiff/format"
	"github.com/tsawler/pdfdiff/model"
)

// PageImager rasterizes one page of a document at a given pixel width.
// Page numbers start at 1.
type PageImager interface {
	PageImage(ctx context.Context, file string, page, width int) (image.Image, error)
}

// PDFToPPM rasterizes PDF pages with the poppler pdftoppm tool.
type PDFToPPM struct {
	Path string // Binary to run; empty means "pdftoppm" from PATH
}

// PageImage runs pdftoppm on one page of file and decodes its PNG output.
// Files that are not PDFs are refused without running the tool.
func (p *PDFToPPM) PageImage(ctx context.Context, file string, page, width int) (image.Image, error) {
	if f := format.Detect(file); f != format.PDF {
		return nil, fmt.Errorf("%s is %s, not a PDF", file, f)
	}

	bin := p.Path
	if bin == "" {
		bin = "pdftoppm"
	}
	n := strconv.Itoa(page)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-f", n, "-l", n,
		"-scale-to-x", strconv.Itoa(width), "-scale-to-y", "-1",
		"-png", file)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s on %s: %w: %s", bin, file, err, bytes.TrimSpace(stderr.Bytes()))
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decoding page %d of %s: %w", page, file, err)
	}
	return img, nil
}

// page is a page image being drawn on, with the factors mapping page points
// to its pixels and the rows at which it is cut into pieces.
type page struct {
	img    *image.RGBA
	sx, sy float64
	cuts   []int
}

// pieces returns the row ranges of the page between its cuts.
func (p *page) pieces() []image.Rectangle {
	b := p.img.Bounds()
	out := make([]image.Rectangle, 0, len(p.cuts)+1)
	top := b.Min.Y
	for _, c := range p.cuts {
		out = append(out, image.Rect(b.Min.X, top, b.Max.X, c))
		top = c
	}
	return append(out, image.Rect(b.Min.X, top, b.Max.X, b.Max.Y))
}

// loadPages loads every page named in entries, once.
func loadPages(ctx context.Context, entries []entry, opts Options) (map[pageKey]*page, error) {
	pages := make(map[pageKey]*page)
	for _, e := range entries {
		if e.sep {
			continue
		}
		if _, ok := pages[e.key]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages[e.key] = loadPage(ctx, e, opts)
	}
	return pages, nil
}

func loadPage(ctx context.Context, e entry, opts Options) *page {
	var img *image.RGBA
	if opts.Pages != nil {
		src, err := opts.Pages.PageImage(ctx, e.file, e.info.Number, opts.Width)
		if err == nil && !src.Bounds().Empty() {
			b := src.Bounds()
			img = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
		} else {
			opts.Logger.Debug("drawing blank page",
				"file", e.file,
				"page", e.info.Number,
				"error", err)
		}
	}
	if img == nil {
		img = blankPage(e.info, opts.Width)
	}

	p := &page{img: img, sx: 1, sy: 1}
	if e.info.Width > 0 {
		p.sx = float64(img.Bounds().Dx()) / e.info.Width
	}
	if e.info.Height > 0 {
		p.sy = float64(img.Bounds().Dy()) / e.info.Height
	}
	return p
}

// blankPage is a white page of the given width, outlined, with the aspect
// ratio of info. Pages of unknown size are square.
func blankPage(info model.PageInfo, width int) *image.RGBA {
	height := width
	if info.Width > 0 && info.Height > 0 {
		height = max(1, int(math.Round(info.Height*float64(width)/info.Width)))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)
	strokeRect(img, img.Bounds(), outline)
	return img
}
