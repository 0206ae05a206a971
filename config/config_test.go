package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfdiff/render"
	"github.com/tsawler/pdfdiff/textdiff"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdfdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
diff:
  granularity: line
  timeout: 2s
  degenerate_hunks: 6
extract:
  top_margin: 5
  bottom_margin: 92.5
  join_hyphens: true
  unicode_nfc: true
output:
  simplify: true
  width: 600
  styles: [box]
  crop: true
  pdftoppm: /opt/poppler/bin/pdftoppm
server:
  addr: 127.0.0.1:9000
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, textdiff.Line, cfg.Diff.Granularity)
	assert.Equal(t, 2*time.Second, cfg.Diff.Timeout)
	assert.Equal(t, 6, cfg.Diff.DegenerateHunks)
	assert.Equal(t, 92.5, cfg.Extract.BottomMargin)
	assert.True(t, cfg.Output.Simplify)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	styles, err := cfg.Styles()
	require.NoError(t, err)
	assert.Equal(t, [2]render.Style{render.StyleBox, render.StyleBox}, styles)

	td := cfg.TextDiff()
	assert.Equal(t, textdiff.Line, td.Granularity)
	assert.Equal(t, 2*time.Second, td.Timeout)

	eo := cfg.ExtractOptions()
	assert.Equal(t, 5.0, eo.TopMargin)
	assert.True(t, eo.MarkHyphens)

	fo := cfg.FlattenOptions()
	assert.True(t, fo.UnicodeNFC)
	assert.True(t, fo.JoinHyphens)

	ro, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, 600, ro.Width)
	assert.True(t, ro.Crop)
	assert.Nil(t, ro.Pages)
	assert.Equal(t, "/opt/poppler/bin/pdftoppm", cfg.Output.PDFToPPM)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, textdiff.Word, cfg.Diff.Granularity)
	assert.Equal(t, textdiff.DefaultTimeout, cfg.Diff.Timeout)
	assert.Equal(t, textdiff.DefaultDegenerateHunks, cfg.Diff.DegenerateHunks)
	assert.Equal(t, 100.0, cfg.Extract.BottomMargin)
	assert.Equal(t, render.DefaultWidth, cfg.Output.Width)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())

	styles, err := cfg.Styles()
	require.NoError(t, err)
	assert.Equal(t, [2]render.Style{render.StyleStrike, render.StyleUnderline}, styles)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad granularity", "diff:\n  granularity: paragraph\n"},
		{"bad duration", "diff:\n  timeout: soon\n"},
		{"margins crossed", "extract:\n  top_margin: 60\n  bottom_margin: 40\n"},
		{"margin out of range", "extract:\n  bottom_margin: 140\n"},
		{"bad style", "output:\n  styles: [highlight]\n"},
		{"too many styles", "output:\n  styles: [box, box, box]\n"},
		{"not yaml", "diff: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
