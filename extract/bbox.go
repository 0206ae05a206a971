package extract

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"

	"github.com/tsawler/pdfdiff/model"
)

// ReadBBoxHTML reads the XHTML written by `pdftotext -bbox`: one <page>
// element per page carrying width and height, each holding <word> elements
// with xMin, yMin, xMax and yMax attributes. Pages are numbered in order of
// appearance.
func ReadBBoxHTML(r io.Reader) ([]model.Page, error) {
	z := html.NewTokenizer(r)

	var (
		pages []model.Page
		page  *model.Page
		word  *model.TextItem
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return pages, nil
			}
			return nil, fmt.Errorf("parsing bbox HTML: %w", z.Err())

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			attrs := readAttrs(z, hasAttr)

			switch string(name) {
			case "page":
				width, err := parseFloat(attrs, "width")
				if err != nil {
					return nil, fmt.Errorf("page %d: %w", len(pages)+1, err)
				}
				height, err := parseFloat(attrs, "height")
				if err != nil {
					return nil, fmt.Errorf("page %d: %w", len(pages)+1, err)
				}
				pages = append(pages, model.Page{Number: len(pages) + 1, Width: width, Height: height})
				page = &pages[len(pages)-1]

			case "word":
				if page == nil {
					return nil, fmt.Errorf("word outside of a page")
				}
				box, err := wordBox(attrs)
				if err != nil {
					return nil, fmt.Errorf("page %d word %d: %w", page.Number, len(page.Items)+1, err)
				}
				word = &model.TextItem{BBox: box}
			}

		case html.TextToken:
			if word != nil {
				word.Text += string(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "word":
				if word != nil && page != nil {
					page.Items = append(page.Items, *word)
				}
				word = nil
			case "page":
				page = nil
			}
		}
	}
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	attrs := make(map[string]string)
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

func wordBox(attrs map[string]string) (model.BBox, error) {
	var coords [4]float64
	for i, key := range []string{"xmin", "ymin", "xmax", "ymax"} {
		v, err := parseFloat(attrs, key)
		if err != nil {
			return model.BBox{}, err
		}
		coords[i] = v
	}
	return model.NewBBoxFromCorners(coords[0], coords[1], coords[2], coords[3]), nil
}

func parseFloat(attrs map[string]string, key string) (float64, error) {
	raw, ok := attrs[key]
	if !ok {
		return 0, fmt.Errorf("missing %s attribute", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute %q: %w", key, raw, err)
	}
	return v, nil
}
