package extract

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsawler/pdfdiff/model"
)

type jsonDocument struct {
	Pages []model.Page `json:"pages"`
}

// ReadJSON reads pre-extracted pages. Pages without a number are numbered
// by position.
func ReadJSON(r io.Reader) ([]model.Page, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	for i := range doc.Pages {
		if doc.Pages[i].Number == 0 {
			doc.Pages[i].Number = i + 1
		}
	}
	return doc.Pages, nil
}
