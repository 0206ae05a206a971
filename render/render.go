package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/pdfdiff/changes"
	"github.com/tsawler/pdfdiff/model"
)

// ErrNoChanges is returned when there is nothing to draw.
var ErrNoChanges = errors.New("render: there are no text differences")

// DefaultWidth is the pixel width of a rendered page.
const DefaultWidth = 900

var (
	background = color.RGBA{0xF3, 0xF3, 0xF3, 0xFF}
	gridLine   = color.RGBA{0xE3, 0xE3, 0xE3, 0xFF}
	rule       = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	paper      = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	outline    = color.RGBA{0x99, 0x99, 0x99, 0xFF}
	mark       = color.RGBA{0xFF, 0x00, 0x00, 0xFF}
	label      = color.RGBA{0x44, 0x44, 0x44, 0xFF}
)

// Style is how a changed fragment is marked.
type Style int

const (
	// StyleBox outlines the fragment.
	StyleBox Style = iota
	// StyleStrike draws a line through the middle of the fragment.
	StyleStrike
	// StyleUnderline draws a line along the bottom of the fragment.
	StyleUnderline
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleBox:
		return "box"
	case StyleStrike:
		return "strike"
	case StyleUnderline:
		return "underline"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses a style name.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box":
		return StyleBox, nil
	case "strike":
		return StyleStrike, nil
	case "underline":
		return StyleUnderline, nil
	default:
		return StyleBox, fmt.Errorf("unknown style %q (want box, strike or underline)", s)
	}
}

// Options controls rendering.
type Options struct {
	Width  int      // Pixel width of a page; zero means DefaultWidth
	Styles [2]Style // Mark style for the old and the new document

	// Crop trims blank margins. Vertical margins are trimmed per page
	// piece, horizontal ones uniformly per column.
	Crop bool

	// Pages supplies page images. When it is nil, or fails for a page,
	// that page is drawn blank with the proportions of its PageInfo.
	Pages PageImager

	// Logger receives a debug message for every page drawn blank. Nil
	// means slog.Default.
	Logger *slog.Logger
}

// Render draws list and writes it to w as a PNG.
func Render(ctx context.Context, w io.Writer, list []model.Change, opts Options) error {
	img, err := Draw(ctx, list, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// Draw draws list onto a new image: the changed pages of document 0 on the
// left, those of document 1 on the right, cut at separators where both
// columns can be lined up.
func Draw(ctx context.Context, list []model.Change, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	list = changes.Simplify(list)
	entries := collect(list)
	if len(entries) == 0 {
		return nil, ErrNoChanges
	}

	pages, err := loadPages(ctx, entries, opts)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		if e.sep {
			continue
		}
		p := pages[e.key]
		e.box = e.box.Scale(p.sx, p.sy)
		drawMark(p.img, e.box, opts.Styles[e.key.doc])
	}

	split(entries, pages)
	groups := group(entries, pages)
	if opts.Crop {
		crop(groups)
	}
	return stack(groups), nil
}

// pageKey identifies a page of one of the two documents. doc is the column,
// 0 or 1.
type pageKey struct {
	doc, page int
}

// entry is one element of the change list being drawn. box is in page
// points until the page is loaded, then in page pixels.
type entry struct {
	sep   bool
	key   pageKey
	info  model.PageInfo
	file  string
	box   model.BBox
	piece int
}

// collect turns list into entries, dropping leading and trailing
// separators. It returns nil when list holds no fragment.
func collect(list []model.Change) []entry {
	var out []entry
	for _, c := range list {
		if c.IsSeparator() {
			if len(out) > 0 && !out[len(out)-1].sep {
				out = append(out, entry{sep: true})
			}
			continue
		}
		f := c.Fragment
		out = append(out, entry{
			key:  pageKey{doc: column(f.Source.Index), page: f.Page.Number},
			info: f.Page,
			file: f.Source.File,
			box:  f.BBox,
		})
	}
	for len(out) > 0 && out[len(out)-1].sep {
		out = out[:len(out)-1]
	}
	return out
}

func column(index int) int {
	if index == 0 {
		return 0
	}
	return 1
}

func drawMark(img *image.RGBA, box model.BBox, style Style) {
	if box.IsEmpty() {
		return
	}
	r := image.Rect(int(box.X), int(box.Y), int(box.Right()), int(box.Bottom())).Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	switch style {
	case StyleStrike:
		hline(img, r.Min.X, r.Max.X, (r.Min.Y+r.Max.Y)/2, mark)
	case StyleUnderline:
		hline(img, r.Min.X, r.Max.X, r.Max.Y-1, mark)
	default:
		strokeRect(img, r, mark)
	}
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	hline(img, r.Min.X, r.Max.X, r.Min.Y, c)
	hline(img, r.Min.X, r.Max.X, r.Max.Y-1, c)
	vline(img, r.Min.X, r.Min.Y, r.Max.Y, c)
	vline(img, r.Max.X-1, r.Min.Y, r.Max.Y, c)
}

func hline(img *image.RGBA, x0, x1, y int, c color.Color) {
	for x := x0; x < x1; x++ {
		img.Set(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.Color) {
	for y := y0; y < y1; y++ {
		img.Set(x, y, c)
	}
}

func drawLabel(img *image.RGBA, at image.Point, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(label),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(text)
}

func side(doc int) string {
	if doc == 0 {
		return "old"
	}
	return "new"
}
