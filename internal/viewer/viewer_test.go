// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/source"
)

func strptr(s string) *string { return &s }

func sampleEdits() []cci.Edit {
	return []cci.Edit{
		{Section: "Batch 1", Page: "Foo bar", Diff: "101", Delta: cci.Delta{Lines: []cci.Line{
			{Index: 0, Text: "kept", Rules: []cci.Rule{{Name: "url", Detail: strptr("http://x")}}},
			{Index: 1, Text: "gone", Culled: true, Rules: []cci.Rule{{Name: "minor-edit"}}},
		}}},
		{Section: "Batch 1", Page: "Foo bar", Diff: "102", Delta: cci.Delta{Lines: []cci.Line{
			{Index: 3, Text: "also gone", Culled: true},
		}}},
		{Section: "Batch 1", Page: "Baz", Diff: "103"},
		{Section: "Batch 2", Page: "Baz", Diff: "104"},
	}
}

func TestHue(t *testing.T) {
	for name, want := range map[string]int{
		"":                0,
		"a":               97,
		"ab":              225,
		"minor-edit":      178,
		"infobox":         45,
		"citation":        -233,
		"copyvio-suspect": -159,
		"url":             159,
		"ref-only":        -330,
		"😀":               259,
	} {
		assert.Equal(t, want, Hue(name), name)
	}
	assert.Equal(t, int32(723366178), Hash("minor-edit"))
	assert.Equal(t, "hsla(-233, 70%, 70%, 0.3)", NewPalette().Color("citation"))
}

func TestRender_Grouping(t *testing.T) {
	v := Render(sampleEdits(), Options{})

	sections := findAll(v.Main, byClass("section"))
	require.Len(t, sections, 2)

	pages := findAll(sections[0], byClass("page"))
	require.Len(t, pages, 2)
	assert.Len(t, findAll(pages[0], byClass("edit")), 2)
	assert.Len(t, findAll(pages[1], byClass("edit")), 1)
	assert.Len(t, findAll(sections[1], byClass("page")), 1)

	var hrefs []string
	for _, a := range findAll(find(v.Main, byClass("toc")), byTag(atom.A)) {
		href, _ := attr(a, "href")
		hrefs = append(hrefs, href)
	}
	assert.Equal(t, []string{"#section-1", "#section-2"}, hrefs)
	assert.NotNil(t, find(v.Main, byID("section-1")))
	assert.NotNil(t, find(v.Main, byID("section-2")))
	assert.Equal(t, "[-]Batch 2", textContent(find(sections[1], byTag(atom.H2))))
}

func TestRender_Links(t *testing.T) {
	v := Render(sampleEdits(), Options{})

	pageLink := findAll(find(v.Main, byClass("page")), byTag(atom.A))[1]
	href, _ := attr(pageLink, "href")
	assert.Equal(t, DefaultPageBase+"Foo_bar", href)
	assert.Equal(t, "Foo bar", textContent(pageLink))

	diffLink := findAll(find(v.Main, byClass("edit")), byTag(atom.A))[1]
	href, _ = attr(diffLink, "href")
	assert.Equal(t, DefaultDiffBase+"101", href)

	v = Render(sampleEdits(), Options{PageBase: "https://test.wiki/w/", DiffBase: "https://test.wiki/d/"})
	pageLink = findAll(find(v.Main, byClass("page")), byTag(atom.A))[1]
	href, _ = attr(pageLink, "href")
	assert.Equal(t, "https://test.wiki/w/Foo_bar", href)
}

func TestRender_Lines(t *testing.T) {
	v := Render(sampleEdits(), Options{})

	rows := findAll(find(v.Main, byClass("edit")), byTag(atom.Tr))
	require.Len(t, rows, 2)

	cells := elementChildren(rows[0])
	require.Len(t, cells, 4)
	assert.Equal(t, "0", textContent(cells[0]))
	assert.Equal(t, "live", textContent(cells[1]))
	assert.True(t, hasClass(cells[2], "line-text"))
	assert.True(t, hasClass(cells[2], "live"))

	abbr := find(cells[3], byTag(atom.Abbr))
	require.NotNil(t, abbr)
	title, _ := attr(abbr, "title")
	assert.Equal(t, "http://x", title)
	style, _ := attr(abbr, "style")
	assert.Equal(t, "background-color: hsla(159, 70%, 70%, 0.3)", style)

	cells = elementChildren(rows[1])
	assert.Equal(t, "autocull", textContent(cells[1]))
	assert.True(t, hasClass(cells[2], "autocull"))
	assert.Nil(t, find(cells[3], byTag(atom.Abbr)))
	span := find(cells[3], byTag(atom.Span))
	require.NotNil(t, span)
	assert.Equal(t, "minor-edit", textContent(span))
}

func TestRender_Collapse(t *testing.T) {
	v := Render(sampleEdits(), Options{})

	section := find(v.Main, byClass("section"))
	toggle := find(section, byClass("collapse"))
	require.NotNil(t, toggle)

	require.True(t, v.Click(toggle))
	assert.Equal(t, "[+]", textContent(toggle))
	children := elementChildren(section)
	assert.False(t, isHidden(children[0]))
	for _, c := range children[1:] {
		assert.True(t, isHidden(c))
	}

	v.Click(toggle)
	assert.Equal(t, "[-]", textContent(toggle))
	for _, c := range children {
		assert.False(t, isHidden(c))
	}

	edit := find(v.Main, byClass("edit"))
	v.Click(find(edit, byClass("collapse")))
	assert.True(t, isHidden(find(edit, byTag(atom.Table))))
	assert.False(t, v.Click(edit))
}

func hiddenStatuses(v *View) map[string]int {
	out := map[string]int{}
	for _, row := range findAll(v.Main, byTag(atom.Tr)) {
		if isHidden(row) {
			out[textContent(find(row, byClass("line-status")))]++
		}
	}
	return out
}

func TestRender_Filters(t *testing.T) {
	v := Render(sampleEdits(), Options{})

	culled := v.Checkbox(cci.StatusAutocull)
	require.NotNil(t, culled)
	assert.True(t, isChecked(culled))

	v.SetChecked(culled, false)
	assert.Equal(t, map[string]int{"autocull": 2}, hiddenStatuses(v))

	v.SetChecked(v.Checkbox(cci.StatusLive), false)
	assert.Equal(t, map[string]int{"autocull": 2, "live": 1}, hiddenStatuses(v))

	v.SetChecked(culled, true)
	assert.Equal(t, map[string]int{"live": 1}, hiddenStatuses(v))
}

func TestRender_ApplyQuery(t *testing.T) {
	v := Render(sampleEdits(), Options{})
	v.ApplyQuery(url.Values{"culled": {"0"}, "live": {"1"}})

	assert.False(t, isChecked(v.Checkbox(cci.StatusAutocull)))
	assert.True(t, isChecked(v.Checkbox(cci.StatusLive)))
	assert.Equal(t, map[string]int{"autocull": 2}, hiddenStatuses(v))
}

func TestRender_NoFilters(t *testing.T) {
	v := Render(sampleEdits(), Options{NoFilters: true})
	assert.Nil(t, v.Checkbox(cci.StatusLive))
	assert.Nil(t, find(v.Main, byClass("options")))

	v.ApplyQuery(url.Values{"culled": {"0"}})
	assert.Empty(t, hiddenStatuses(v))
}

func TestRender_Empty(t *testing.T) {
	v := Render(nil, Options{})
	assert.Empty(t, findAll(v.Main, byClass("section")))
	assert.NotNil(t, find(v.Main, byClass("toc")))
}

func deflate(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func serve(payloads map[string][]byte) source.Fetcher {
	return source.FetcherFunc(func(_ context.Context, path string) ([]byte, error) {
		if data, ok := payloads[path]; ok {
			return data, nil
		}
		return nil, &source.StatusError{Path: path, Code: 404}
	})
}

func TestLoad(t *testing.T) {
	payload := `[{"section":"S","page":"P","diff":42,"delta":{"lines":[{"index":0,"text":"t","culled":false,"rules":[]}]}}]`
	f := serve(map[string][]byte{
		"z.json.z":   deflate(t, payload),
		"g.json.gz":  gzipped(t, payload),
		"bad.json.z": []byte("not compressed"),
		"text.json":  deflate(t, "not json"),
	})
	ctx := context.Background()

	for _, p := range []string{"z.json.z", "g.json.gz"} {
		edits, err := Load(ctx, f, p)
		require.NoError(t, err, p)
		require.Len(t, edits, 1)
		assert.Equal(t, cci.DiffID("42"), edits[0].Diff)
	}

	_, err := Load(ctx, f, "missing")
	assert.EqualError(t, err, "Could not load diffs! Error 404")

	_, err = Load(ctx, f, "bad.json.z")
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, StageDecompress, le.Stage)
	assert.ErrorIs(t, err, zlib.ErrHeader)
	assert.True(t, strings.HasPrefix(err.Error(), "Could not decompress diffs! "))

	_, err = Load(ctx, f, "text.json")
	require.True(t, errors.As(err, &le))
	assert.Equal(t, StageParse, le.Stage)
	assert.True(t, strings.HasPrefix(err.Error(), "Could not parse diffs! "))
}

func TestLoad_FetchError(t *testing.T) {
	f := source.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection refused")
	})
	_, err := Load(context.Background(), f, "x")
	assert.EqualError(t, err, "Could not load diffs! connection refused")
}

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Document("Cull report", Render(sampleEdits(), Options{}).Main)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Cull report</title>")
	assert.Contains(t, out, `<h2 id="section-1">`)
	assert.Contains(t, out, "a.collapse")

	_, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, WriteHTML(&buf, ErrorView("Could not load diffs! Error 404")))
	assert.Equal(t, `<main><div class="error">Could not load diffs! Error 404</div></main>`, buf.String())
}
