package model

// Page is one page of raw extracted text, as handed over by an extraction
// collaborator. Items are in reading order.
type Page struct {
	Number int        `json:"number"` // 1-indexed page number
	Width  float64    `json:"width"`  // Page width in device units
	Height float64    `json:"height"` // Page height in device units
	Items  []TextItem `json:"items"`
}

// Info returns the page metadata carried by every fragment of the page.
func (p Page) Info() PageInfo {
	return PageInfo{Number: p.Number, Width: p.Width, Height: p.Height}
}

// TextItem is a raw piece of extracted text with its device-space box.
type TextItem struct {
	Text string
	BBox BBox
}

// textItemJSON is the flat wire form of a TextItem.
type textItemJSON struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageInfo identifies a page and its size.
type PageInfo struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Source identifies which of the two compared documents something came from.
type Source struct {
	Index int    `json:"index"` // 0 for the old document, 1 for the new one
	File  string `json:"file"`  // Human-readable label, usually the file name
}
