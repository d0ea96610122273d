// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/submit"
)

const payload = `[
  {"section":"Batch 1","page":"Foo bar","diff":7,"delta":{"lines":[
    {"index":0,"text":"kept","culled":false,"rules":[]},
    {"index":1,"text":"dropped","culled":true,"rules":[{"name":"url","detail":"http://x"}]}
  ]}},
  {"section":"Batch 2","page":"Baz","diff":8,"delta":{"lines":[
    {"index":0,"text":"gone","culled":true,"rules":[]}
  ]}}
]`

func setup(t *testing.T) string {
	t.Helper()
	cfg, err := filepath.Abs(filepath.Join("testdata", "ccitool.yaml"))
	require.NoError(t, err)
	t.Setenv("CCITOOL_CFG_FILE", cfg)
	t.Setenv("CCITOOL_CACHE_DIR", t.TempDir())
	return t.TempDir()
}

func writePayload(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := filepath.Join(dir, "page-1.json.z")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	args = append([]string{"ccitool"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	err = app.Run(context.Background(), args)
	return buf.String(), err
}

func TestInitApp(t *testing.T) {
	setup(t)
	app, err := InitApp(context.Background(), []string{"ccitool", "view"})
	require.NoError(t, err)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)

		for i := 1; i < len(cmd.Flags); i++ {
			assert.LessOrEqual(t, cmd.Flags[i-1].Names()[0], cmd.Flags[i].Names()[0], cmd.Name)
		}
	}
	assert.Equal(t, []string{"submit", "view", "serve", "build-edit", "completion"}, names)

	m := GetMeta(app.Commands[1])
	assert.Equal(t, []string{"ccitool", "view"}, m.Args)
	assert.Equal(t, "view", m.Config.Namespace)
}

func TestView_HTML(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)
	out := filepath.Join(dir, "report.html")

	_, err := run(t, "view", "--out", out, "--culled=false", p)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<title>page-1.json.z</title>")
	assert.Contains(t, html, `href="https://test.wikipedia.org/wiki/Foo_bar"`)
	assert.Contains(t, html, `href="https://test.wikipedia.org/wiki/Special:Diff/7"`)
	assert.Contains(t, html, `<tr hidden="">`)
	assert.Contains(t, html, `<abbr title="http://x"`)
}

func TestView_FlagOverridesConfig(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)

	out, err := run(t, "view", "--page-base", "https://example.org/", "--title", "Case", p)
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.org/Foo_bar"`)
	assert.Contains(t, out, "<title>Case</title>")
	assert.NotContains(t, out, "<tr hidden")
}

func TestView_LoadError(t *testing.T) {
	dir := setup(t)

	out, err := run(t, "view", filepath.Join(dir, "missing.json.z"))
	require.Error(t, err)
	assert.Equal(t, "Could not load diffs! Error 404", err.Error())
	assert.Contains(t, out, `<div class="error">Could not load diffs! Error 404</div>`)
}

func TestView_Stats(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)

	out, err := run(t, "view", "--output", "json", "--sort", "-culled_lines", p)
	require.NoError(t, err)

	var stats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "Batch 1", stats[0]["section"])
	assert.Equal(t, float64(1), stats[0]["culled_lines"])
	assert.Equal(t, float64(1), stats[1]["culled_diffs"])

	out, err = run(t, "view", "-o", "yaml", p)
	require.NoError(t, err)
	assert.Contains(t, out, "- section: Batch 1\n")
}

func TestView_Text(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)

	out, err := run(t, "view", "-o", "text", "--culled=false", p)
	require.NoError(t, err)
	assert.Contains(t, out, "kept")
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "2 diffs (1 fully culled), 2 of 3 lines culled (66.7%)")
}

func TestView_Filter(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)

	out, err := run(t, "view", "-o", "json", "--filter", "culled=true", p)
	require.NoError(t, err)

	var stats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "Batch 2", stats[0]["section"])
}

func TestView_BadOutput(t *testing.T) {
	dir := setup(t)
	_, err := run(t, "view", "-o", "xml", writePayload(t, dir))
	assert.Error(t, err)
}

func TestSubmit(t *testing.T) {
	dir := setup(t)
	incomplete := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(incomplete, []byte(`{"title":"A","content":"x","summary":"s"}`), 0o600))

	out, err := run(t, "submit", incomplete)
	require.NoError(t, err)
	assert.Empty(t, out)

	bad := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"title":`), 0o600))
	_, err = run(t, "submit", incomplete, bad)
	assert.EqualError(t, err, "1 of 2 edit files failed")

	_, err = run(t, "submit")
	assert.Error(t, err)
}

func TestServe_BadRoot(t *testing.T) {
	dir := setup(t)

	_, err := run(t, "serve", "--root", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "invalid payload root")
}

func TestSubmitResult(t *testing.T) {
	assert.NoError(t, submitResult([]submit.Outcome{{Status: submit.Skipped}}, 1))

	outcomes := []submit.Outcome{
		{Path: "a.json", Status: submit.Invalid, Err: errors.New("bad")},
		{Path: "b.json", Status: submit.Skipped},
	}
	assert.EqualError(t, submitResult(outcomes, 3), "1 of 3 edit files failed")
}

const casePage = "=== Pages 1 through 2 ===\n" +
	"*[[:Foo bar]] (1 edit): [[Special:Diff/7|(+10)]]\n" +
	"*[[:Baz]] (1 edit): [[Special:Diff/8|(+3)]]\n"

// wikiWithPage serves one page revision from a fake api.php.
func wikiWithPage(t *testing.T, title, content string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("titles") != title {
			fmt.Fprintf(w, `{"query":{"pages":[{"title":%q,"missing":true}]}}`, r.URL.Query().Get("titles"))
			return
		}
		body, err := json.Marshal(content)
		require.NoError(t, err)
		fmt.Fprintf(w, `{"query":{"pages":[{"title":%q,"revisions":[{"revid":55,"slots":{"main":{"content":%s}}}]}]}}`,
			title, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/w/api.php"
}

func TestBuildEdit(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)
	api := wikiWithPage(t, "Wikipedia:Contributor copyright investigations/Example 2", casePage)

	out, err := run(t, "build-edit", "--api", api, "--case", "Example", "--case-page", "2",
		"--report-link", "toolforge:cci/page-2.html", p)
	require.NoError(t, err)

	var rec cci.EditRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Wikipedia:Contributor copyright investigations/Example 2", rec.Title)
	assert.Equal(t, int64(55), rec.RevID)
	assert.Equal(t, "=== Pages 1 through 2 ===\n*[[:Foo bar]] (1 edit): [[Special:Diff/7|(+10)]]\n", rec.Content)
	assert.Equal(t, "tool-assisted cull: -1/2 diffs ([[toolforge:cci/page-2.html|more info]])", rec.Summary)
}

func TestBuildEdit_OutFeedsSubmit(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)
	api := wikiWithPage(t, "Wikipedia:Contributor copyright investigations/Example", casePage)
	file := filepath.Join(dir, "edit.json")

	out, err := run(t, "build-edit", "--api", api, "--case", "Example", "--out", file, p)
	require.NoError(t, err)
	assert.Empty(t, out)

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	rec, ok, err := submit.Decode(raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tool-assisted cull: -1/2 diffs", rec.Summary)
}

func TestBuildEdit_MissingPage(t *testing.T) {
	dir := setup(t)
	p := writePayload(t, dir)
	api := wikiWithPage(t, "Other", casePage)

	_, err := run(t, "build-edit", "--api", api, "--case", "Example", p)
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	setup(t)

	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -o filenames -F _ccitool ccitool")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef ccitool")
}

func TestValidators(t *testing.T) {
	for _, ok := range []string{"html", "text", "json", "yaml"} {
		assert.NoError(t, FlagValidators(ok, OutputValidator))
	}
	assert.Error(t, FlagValidators("raw", OutputValidator))

	assert.NoError(t, URLValidator("https://en.wikipedia.org/w/api.php"))
	assert.Error(t, URLValidator("en.wikipedia.org"))
	assert.Error(t, NonEmptyValidator("  "))
}
