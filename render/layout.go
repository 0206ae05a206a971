package render

import (
	"fmt"
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

// minSpacer is the smallest column height difference padded out between
// groups.
const minSpacer = 10

// gridStep is the spacing of the background's vertical lines.
const gridStep = 50

// piece is a horizontal band of a page image.
type piece struct {
	key   pageKey
	index int // position of the band on its page, from the top
	img   *image.RGBA
	rect  image.Rectangle
}

// pieceGroup holds the pieces of each column that are lined up together.
type pieceGroup [2][]*piece

// split cuts each page at the separators between its changes where the
// changes before the separator all end above the changes after it. Entries
// after a cut move to the next piece of their page.
func split(entries []entry, pages map[pageKey]*page) {
	for key, p := range pages {
		cur := 0
		for i := range entries {
			if !entries[i].sep {
				continue
			}

			bottom, top := math.Inf(-1), math.Inf(1)
			for j := range entries {
				e := &entries[j]
				if e.sep || e.key != key || e.piece != cur {
					continue
				}
				if j < i {
					bottom = math.Max(bottom, e.box.Bottom())
				} else {
					top = math.Min(top, e.box.Y)
				}
			}
			if math.IsInf(bottom, 0) || math.IsInf(top, 0) || bottom+1 >= top {
				continue
			}

			cut := int(math.Round((bottom + top) / 2))
			prev := p.img.Bounds().Min.Y
			if len(p.cuts) > 0 {
				prev = p.cuts[len(p.cuts)-1]
			}
			if cut <= prev || cut >= p.img.Bounds().Max.Y {
				continue
			}

			p.cuts = append(p.cuts, cut)
			for j := i + 1; j < len(entries); j++ {
				e := &entries[j]
				if !e.sep && e.key == key && e.piece == cur {
					e.piece = cur + 1
				}
			}
			cur++
		}
	}
}

// group collects the pieces holding changes into groups. A separator
// starts a new group unless some piece has changes on both sides of it.
// Within a group each column is ordered by page, then by piece.
func group(entries []entry, pages map[pageKey]*page) []pieceGroup {
	type pieceID struct {
		key   pageKey
		index int
	}

	// open[i] counts the pieces with changes both before and after entry i.
	first := make(map[pieceID]int)
	last := make(map[pieceID]int)
	for i, e := range entries {
		if e.sep {
			continue
		}
		id := pieceID{e.key, e.piece}
		if _, ok := first[id]; !ok {
			first[id] = i
		}
		last[id] = i
	}
	open := make([]int, len(entries)+1)
	for id, f := range first {
		open[f+1]++
		open[last[id]]--
	}
	for i := 1; i < len(open); i++ {
		open[i] += open[i-1]
	}

	groups := []pieceGroup{{}}
	seen := make(map[pieceID]bool)
	for i, e := range entries {
		g := &groups[len(groups)-1]
		if e.sep {
			if open[i] == 0 && (len(g[0]) > 0 || len(g[1]) > 0) {
				groups = append(groups, pieceGroup{})
			}
			continue
		}

		id := pieceID{e.key, e.piece}
		if seen[id] {
			continue
		}
		seen[id] = true
		p := pages[e.key]
		g[e.key.doc] = append(g[e.key.doc], &piece{
			key:   e.key,
			index: e.piece,
			img:   p.img,
			rect:  p.pieces()[e.piece],
		})
	}

	for _, g := range groups {
		for _, col := range g {
			sort.Slice(col, func(i, j int) bool {
				if col[i].key.page != col[j].key.page {
					return col[i].key.page < col[j].key.page
				}
				return col[i].index < col[j].index
			})
		}
	}
	return groups
}

// crop trims the blank rows above and below the ink of each piece, keeping
// a margin of 2% of the piece height, and trims every piece of a column to
// the column's widest ink span plus 2% of the page width.
func crop(groups []pieceGroup) {
	for col := 0; col < 2; col++ {
		minX, maxX, width := 0, 0, 0
		found := false
		for _, g := range groups {
			for _, pc := range g[col] {
				ink, ok := inkBounds(pc.img, pc.rect)
				if !ok {
					continue
				}
				if !found {
					minX, maxX = ink.Min.X, ink.Max.X
				}
				minX = min(minX, ink.Min.X)
				maxX = max(maxX, ink.Max.X)
				width = max(width, pc.img.Bounds().Dx())
				found = true
			}
		}
		if found {
			pad := int(0.02 * float64(width))
			minX = max(0, minX-pad)
			maxX = min(width, maxX+pad)
		}

		for _, g := range groups {
			for _, pc := range g[col] {
				r := pc.rect
				if ink, ok := inkBounds(pc.img, r); ok {
					pad := int(0.02 * float64(r.Dy()))
					r.Min.Y = max(r.Min.Y, ink.Min.Y-pad)
					r.Max.Y = min(r.Max.Y, ink.Max.Y+pad)
				}
				if found {
					r.Min.X = max(r.Min.X, minX)
					r.Max.X = min(r.Max.X, maxX)
				}
				pc.rect = r
			}
		}
	}
}

// inkBounds returns the smallest rectangle within r holding every pixel
// that is not white.
func inkBounds(img *image.RGBA, r image.Rectangle) (image.Rectangle, bool) {
	r = r.Intersect(img.Bounds())
	ink := image.Rectangle{}
	found := false
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.A == 0 || (c.R == 0xFF && c.G == 0xFF && c.B == 0xFF) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				ink = px
				found = true
				continue
			}
			ink = ink.Union(px)
		}
	}
	return ink, found
}

// stack draws the groups one below the other, the two columns side by side
// with a one pixel divider. After each group the shorter column is padded so
// that the next group starts level on both sides.
func stack(groups []pieceGroup) *image.RGBA {
	colWidth := 0
	var height [2]int
	spacers := make([][2]int, len(groups))
	for i, g := range groups {
		for col := 0; col < 2; col++ {
			for _, pc := range g[col] {
				height[col] += pc.rect.Dy()
				colWidth = max(colWidth, pc.rect.Dx())
			}
		}

		dy := height[1] - height[0]
		switch {
		case dy >= minSpacer:
			spacers[i][0] = dy
		case dy <= -minSpacer:
			spacers[i][1] = -dy
		}
		height[0] += spacers[i][0]
		height[1] += spacers[i][1]
	}

	img := image.NewRGBA(image.Rect(0, 0, colWidth*2+1, max(height[0], height[1], 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	for x := 0; x < img.Bounds().Dx(); x += gridStep {
		vline(img, x, 0, img.Bounds().Dy(), gridLine)
	}

	for col := 0; col < 2; col++ {
		x := col * (colWidth + 1)
		y := 0
		for i, g := range groups {
			for _, pc := range g[col] {
				dst := image.Rect(x, y, x+pc.rect.Dx(), y+pc.rect.Dy())
				draw.Draw(img, dst, pc.img, pc.rect.Min, draw.Src)
				if pc.index == 0 {
					if pc.key.page > 1 {
						hline(img, x, x+colWidth, y, rule)
					}
					drawLabel(img, image.Pt(x+4, y+13), fmt.Sprintf("%s p.%d", side(pc.key.doc), pc.key.page))
				}
				y += pc.rect.Dy()
			}
			y += spacers[i][col]
		}
	}
	vline(img, colWidth, 0, img.Bounds().Dy(), rule)

	return img
}
