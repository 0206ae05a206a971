// Package format provides input format detection for pdfdiff.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// JSON indicates pre-extracted pages serialized as JSON.
	JSON
	// BBoxHTML indicates the XHTML word-box output of `pdftotext -bbox`.
	BBoxHTML
	// PDF indicates a PDF document, extracted through pdftotext.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case BBoxHTML:
		return "BBoxHTML"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case BBoxHTML:
		return ".html"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return JSON
	case ".html", ".htm", ".xhtml":
		return BBoxHTML
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectFromMagic checks the leading bytes of a file to determine its format.
// Returns Unknown if the format cannot be determined from the bytes alone.
func DetectFromMagic(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	if data[0] == '{' {
		return JSON
	}

	upper := strings.ToUpper(string(data[:min(512, len(data))]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return BBoxHTML
	}
	// pdftotext writes an XHTML document, sometimes behind an XML declaration
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return BBoxHTML
	}

	return Unknown
}
