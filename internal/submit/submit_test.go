// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package submit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/mediawiki"
)

type fakeEditor struct {
	requests []mediawiki.EditRequest
	fail     map[string]error
}

func (f *fakeEditor) Edit(_ context.Context, req mediawiki.EditRequest) (*mediawiki.EditResult, error) {
	f.requests = append(f.requests, req)
	if err := f.fail[req.Title]; err != nil {
		return nil, err
	}
	return &mediawiki.EditResult{Title: req.Title, NewRevID: req.BaseRevID + 1}, nil
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(msg string) {
	r.messages = append(r.messages, msg)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ok      bool
		wantErr bool
	}{
		{"complete", `{"title":"T","content":"c","summary":"s","revid":5,"extra":1}`, true, false},
		{"missing revid", `{"title":"T","content":"c","summary":"s"}`, false, false},
		{"zero revid", `{"title":"T","content":"c","summary":"s","revid":0}`, false, false},
		{"empty content", `{"title":"T","content":"","summary":"s","revid":5}`, false, false},
		{"null title", `{"title":null,"content":"c","summary":"s","revid":5}`, false, false},
		{"array document", `[1,2]`, false, false},
		{"malformed", `{"title":`, false, true},
		{"wrong revid type", `{"title":"T","content":"c","summary":"s","revid":"x"}`, false, true},
		{"fractional revid", `{"title":"T","content":"c","summary":"s","revid":5.5}`, false, true},
		{"object title", `{"title":{"a":1},"content":"c","summary":"s","revid":5}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok, err := Decode([]byte(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, cci.EditRecord{Title: "T", Content: "c", Summary: "s", RevID: 5}, rec)
			}
		})
	}
}

func TestDecode_CoercesScalars(t *testing.T) {
	rec, ok, err := Decode([]byte(`{"title":2024,"content":"c","summary":"s","revid":" 123 "}`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cci.EditRecord{Title: "2024", Content: "c", Summary: "s", RevID: 123}, rec)
}

func TestSubmit_SkipsIncompleteButSubmitsSibling(t *testing.T) {
	dir := t.TempDir()
	incomplete := writeFile(t, dir, "a.json", `{"title":"A","content":"x","summary":"s"}`)
	complete := writeFile(t, dir, "b.json", `{"title":"B","content":"y","summary":"cull","revid":9}`)

	editor := &fakeEditor{}
	notifier := &recordingNotifier{}
	s := &Submitter{Editor: editor, Notifier: notifier}

	outcomes := s.Submit(context.Background(), []string{incomplete, complete})

	require.Len(t, editor.requests, 1)
	req := editor.requests[0]
	assert.Equal(t, "B", req.Title)
	assert.Equal(t, "y", req.Text)
	assert.Equal(t, "cull", req.Summary)
	assert.Equal(t, int64(9), req.BaseRevID)
	assert.True(t, req.NoCreate)
	assert.Equal(t, "user", req.Assert)

	assert.Equal(t, []string{"Edit to [[B]] saved"}, notifier.messages)

	require.Len(t, outcomes, 2)
	assert.Equal(t, Outcome{Path: incomplete, Status: Skipped}, outcomes[0])
	assert.Equal(t, Saved, outcomes[1].Status)
	assert.Equal(t, 0, Failures(outcomes))
}

func TestSubmit_FailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{not json`)
	rejected := writeFile(t, dir, "r.json", `{"title":"R","content":"x","summary":"s","revid":1}`)
	fine := writeFile(t, dir, "f.json", `{"title":"F","content":"x","summary":"s","revid":2}`)
	missing := filepath.Join(dir, "missing.json")

	editor := &fakeEditor{fail: map[string]error{
		"R": &mediawiki.APIError{Code: "editconflict", Info: "Edit conflict."},
	}}
	notifier := &recordingNotifier{}
	s := &Submitter{Editor: editor, Notifier: notifier}

	outcomes := s.Submit(context.Background(), []string{bad, rejected, missing, fine})

	assert.Len(t, editor.requests, 2)
	assert.Equal(t, []string{"Couldn't save [[R]]", "Edit to [[F]] saved"}, notifier.messages)

	byPath := map[string]Outcome{}
	for _, o := range outcomes {
		byPath[o.Path] = o
	}
	assert.Equal(t, Invalid, byPath[bad].Status)
	assert.Equal(t, Invalid, byPath[missing].Status)
	assert.Equal(t, Failed, byPath[rejected].Status)
	var apiErr *mediawiki.APIError
	assert.True(t, errors.As(byPath[rejected].Err, &apiErr))
	assert.Equal(t, Saved, byPath[fine].Status)
	assert.Equal(t, 3, Failures(outcomes))
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	WriterNotifier{W: &buf}.Notify("Edit to [[X]] saved")
	assert.Equal(t, "Edit to [[X]] saved\n", buf.String())
}

type fakeRevisions map[string]*mediawiki.Revision

func (f fakeRevisions) Revision(_ context.Context, title string) (*mediawiki.Revision, error) {
	if rev, ok := f[title]; ok {
		return rev, nil
	}
	return nil, mediawiki.ErrMissing
}

func TestDryRun(t *testing.T) {
	revs := fakeRevisions{
		"Case": {Title: "Case", RevID: 10, Content: "a\nb\nc\n"},
	}
	pending := []Pending{
		{Path: "1.json", Record: cci.EditRecord{Title: "Case", Content: "a\nc\n", Summary: "cull", RevID: 9}},
		{Path: "2.json", Record: cci.EditRecord{Title: "Gone", Content: "x", Summary: "s", RevID: 1}},
	}

	var buf bytes.Buffer
	outcomes := DryRun(context.Background(), revs, &buf, pending)

	out := buf.String()
	assert.Contains(t, out, "=== [[Case]] (base r9, live r10)")
	assert.Contains(t, out, "submitting would conflict")
	assert.Contains(t, out, "-b\n")
	assert.NotContains(t, out, "-a\n")
	assert.Contains(t, out, "=== [[Gone]]: ")

	require.Len(t, outcomes, 2)
	assert.Equal(t, Previewed, outcomes[0].Status)
	assert.Equal(t, "previewed", outcomes[0].Status.String())
	assert.Equal(t, Failed, outcomes[1].Status)
	assert.Equal(t, 1, Failures(outcomes))
}

func TestLineDiff(t *testing.T) {
	got := LineDiff("a\nb\nc\n", "a\nB\nc\nd")
	assert.Contains(t, got, "-b\n")
	assert.Contains(t, got, "+B\n")
	assert.Contains(t, got, "+d\n")
	assert.NotContains(t, got, "a\n-")
	assert.Equal(t, "", LineDiff("same\n", "same\n"))
}

func TestPicker(t *testing.T) {
	items := []Pending{
		{Path: "a.json", Record: cci.EditRecord{Title: "A"}},
		{Path: "b.json", Record: cci.EditRecord{Title: "B"}},
		{Path: "c.json", Record: cci.EditRecord{Title: "C"}},
	}

	var m tea.Model = newPicker(items)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	chosen := m.(picker).chosen()
	require.Len(t, chosen, 2)
	assert.Equal(t, "A", chosen[0].Record.Title)
	assert.Equal(t, "C", chosen[1].Record.Title)
	assert.Contains(t, m.View(), "> [ ] B")
}

func TestPicker_AbortAndToggleAll(t *testing.T) {
	items := []Pending{{Record: cci.EditRecord{Title: "A"}}, {Record: cci.EditRecord{Title: "B"}}}

	var m tea.Model = newPicker(items)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.Empty(t, m.(picker).chosen())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.Len(t, m.(picker).chosen(), 2)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.(picker).chosen())
}
