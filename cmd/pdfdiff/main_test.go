package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfdiff/model"
	"github.com/tsawler/pdfdiff/render"
	"github.com/tsawler/pdfdiff/textdiff"
)

func writeDoc(t *testing.T, dir, name string, words ...string) string {
	t.Helper()
	page := model.Page{Number: 1, Width: 600, Height: 800}
	for i, w := range words {
		page.Items = append(page.Items, model.TextItem{Text: w, BBox: model.NewBBox(10+float64(i)*40, 100, 30, 12)})
	}
	data, err := json.Marshal(map[string]any{"pages": []model.Page{page}})
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCompareJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "old.json", "Hello", "World")
	b := writeDoc(t, dir, "new.json", "Hello", "Earth")

	code, stdout, stderr := runCmd(t, "", a, b)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "\n    {", "expected 4-space indentation")

	var list []model.Change
	require.NoError(t, json.Unmarshal([]byte(stdout), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "World ", list[0].Fragment.Text)
	assert.Equal(t, "Earth ", list[1].Fragment.Text)
}

func TestComparePNGFile(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "old.json", "Hello", "World")
	b := writeDoc(t, dir, "new.json", "Hello", "Earth")
	out := filepath.Join(dir, "map.png")

	code, stdout, stderr := runCmd(t, "", "--png", out, "--width", "300", "--style", "box", a, b)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300+1+300, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestComparePNGBlankPagesForJSONInput(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "old.json", "Hello", "World")
	b := writeDoc(t, dir, "new.json", "Hello", "Earth")

	code, stdout, stderr := runCmd(t, "", "-v", "--crop", "-o", "-", a, b)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "drawing blank page")
	assert.Contains(t, stderr, "not a PDF")

	_, err := png.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
}

func TestRenderChangesFromStdin(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "old.json", "one", "two")
	b := writeDoc(t, dir, "new.json", "one", "three")

	code, listJSON, stderr := runCmd(t, "", a, b)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCmd(t, listJSON, "-c", "-o", "-")
	require.Equal(t, 0, code, stderr)

	_, err := png.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
}

func TestRenderEmptyChanges(t *testing.T) {
	code, _, stderr := runCmd(t, "[]", "--changes", "--png", "-")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, render.ErrNoChanges.Error())
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", "x")

	tests := []struct {
		name string
		args []string
	}{
		{"no files", nil},
		{"one file", []string{a}},
		{"three files", []string{a, a, a}},
		{"unknown flag", []string{"--frobnicate", a, a}},
		{"changes without png", []string{"--changes"}},
		{"changes with files", []string{"--changes", "--png", "-", a, a}},
		{"serve and changes", []string{"--serve", ":0", "--changes", "--png", "-"}},
		{"bad granularity", []string{"--granularity", "paragraph", a, a}},
		{"bad style", []string{"--style", "highlight", a, a}},
		{"crossed margins", []string{"-t", "80", "-b", "20", a, a}},
		{"bad width", []string{"--width", "-5", a, a}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(t, "", tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", "x")

	code, _, stderr := runCmd(t, "", a, filepath.Join(dir, "missing.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing.json")
}

func TestHelp(t *testing.T) {
	code, _, stderr := runCmd(t, "", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage: pdfdiff")
}

func TestVerboseLogsDebug(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", "x")
	b := writeDoc(t, dir, "b.json", "y")

	code, _, stderr := runCmd(t, "", "-v", a, b)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "compared documents")
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pdfdiff.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("diff:\n  granularity: line\n  timeout: 3s\nextract:\n  top_margin: 5\n"), 0o644))

	opts, err := parseFlags([]string{"--config", cfgPath, "--timeout", "1s", "--crop", "a", "b"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err := opts.loadConfig()
	require.NoError(t, err)

	assert.Equal(t, textdiff.Line, cfg.Diff.Granularity)
	assert.Equal(t, time.Second, cfg.Diff.Timeout)
	assert.Equal(t, 5.0, cfg.Extract.TopMargin)
	assert.Equal(t, 100.0, cfg.Extract.BottomMargin)
	assert.True(t, cfg.Output.Crop)
}
