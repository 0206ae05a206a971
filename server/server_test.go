package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfdiff/changes"
	"github.com/tsawler/pdfdiff/config"
	"github.com/tsawler/pdfdiff/textdiff"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(config.Default(), logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func document(index int, file string, words ...string) string {
	var items []string
	for i, w := range words {
		items = append(items, fmt.Sprintf(`{"text":%q,"x":%d,"y":100,"width":30,"height":12}`, w, 10+i*40))
	}
	return fmt.Sprintf(`{"pdf":{"index":%d,"file":%q},"pages":[{"number":1,"width":600,"height":800,"items":[%s]}]}`,
		index, file, strings.Join(items, ","))
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t)
	body := fmt.Sprintf(`{"left":%s,"right":%s}`,
		document(0, "v1.pdf", "Hello", "World"),
		document(1, "v2.pdf", "Hello", "Earth"))

	resp := post(t, ts, "/compare", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out CompareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, changes.Summary{Runs: 1, Left: 1, Right: 1}, out.Summary)
	require.Len(t, out.Changes, 2)
	assert.Equal(t, "World ", out.Changes[0].Fragment.Text)
	assert.Equal(t, "v1.pdf", out.Changes[0].Fragment.Source.File)
	assert.Equal(t, "Earth ", out.Changes[1].Fragment.Text)
	assert.Equal(t, 1, out.Changes[1].Fragment.Source.Index)
}

func TestCompareOverrides(t *testing.T) {
	ts := newTestServer(t)
	body := fmt.Sprintf(`{"left":%s,"right":%s,"granularity":"character","timeout":"2s","simplify":true}`,
		document(0, "a", "one", "two", "three", "four"),
		document(1, "b", "one", "X", "four"))

	resp := post(t, ts, "/compare", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out CompareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Changes)
	assert.Equal(t, "two three ", out.Changes[0].Fragment.Text)
	assert.Equal(t, 1, out.Summary.Left)
}

func TestCompareSimplifyOff(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Simplify = true
	ts := httptest.NewServer(New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler())
	defer ts.Close()

	left := document(0, "a", "aa", "bb")
	right := document(1, "b", "QQQQQQQQ")

	var merged CompareResponse
	resp := post(t, ts, "/compare", fmt.Sprintf(`{"left":%s,"right":%s}`, left, right))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&merged))
	assert.Len(t, merged.Changes, 2)

	var plain CompareResponse
	resp = post(t, ts, "/compare", fmt.Sprintf(`{"left":%s,"right":%s,"simplify":false}`, left, right))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plain))
	assert.Len(t, plain.Changes, 3)
}

func TestCompareEmptyResult(t *testing.T) {
	ts := newTestServer(t)
	body := fmt.Sprintf(`{"left":%s,"right":%s}`, document(0, "a", "same"), document(1, "b", "same"))

	resp := post(t, ts, "/compare", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"changes":[]`)
}

func TestCompareBadRequests(t *testing.T) {
	ts := newTestServer(t)
	doc := document(0, "a", "x")

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing right", fmt.Sprintf(`{"left":%s}`, doc)},
		{"bad granularity", fmt.Sprintf(`{"left":%s,"right":%s,"granularity":"paragraph"}`, doc, doc)},
		{"bad timeout", fmt.Sprintf(`{"left":%s,"right":%s,"timeout":"soon"}`, doc, doc)},
		{"negative timeout", fmt.Sprintf(`{"left":%s,"right":%s,"timeout":"-1s"}`, doc, doc)},
		{"zero timeout", fmt.Sprintf(`{"left":%s,"right":%s,"timeout":"0s"}`, doc, doc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/compare", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestCompareBodyLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 64
	ts := httptest.NewServer(New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler())
	defer ts.Close()

	body := fmt.Sprintf(`{"left":%s,"right":%s}`, document(0, "a", "x"), document(1, "b", "y"))
	resp := post(t, ts, "/compare", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComparePNG(t *testing.T) {
	ts := newTestServer(t)
	body := fmt.Sprintf(`{"left":%s,"right":%s}`,
		document(0, "a", "Hello", "World"),
		document(1, "b", "Hello", "Earth"))

	resp := post(t, ts, "/compare?format=png&width=300", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 300+1+300, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	same := fmt.Sprintf(`{"left":%s,"right":%s}`, document(0, "a", "same"), document(1, "b", "same"))
	resp = post(t, ts, "/compare?format=png", same)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = post(t, ts, "/compare?format=png&width=wide", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ts := httptest.NewServer(New(nil, logger).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), "path=/healthz")
	assert.Contains(t, buf.String(), "status=200")
	assert.Contains(t, buf.String(), "request_id=")
}

func TestWriteJSONLogsEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	s := New(nil, slog.New(slog.NewTextHandler(&buf, nil)))

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "writing response")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(fmt.Errorf("wrap: %w", changes.ErrPrecondition)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(textdiff.ErrTokenAlphabet))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.Canceled))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
