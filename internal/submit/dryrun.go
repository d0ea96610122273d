// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package submit

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ccitool/ccitool/internal/mediawiki"
)

// RevisionReader reads the live revision of a page. *mediawiki.Client
// satisfies it.
type RevisionReader interface {
	Revision(ctx context.Context, title string) (*mediawiki.Revision, error)
}

// DryRun prints, for each pending record, a line diff between the live page
// and the proposed content. Nothing is written to the wiki. Pages whose
// latest revision moved past the record's base revision are flagged, since a
// real submit would hit an edit conflict.
func DryRun(ctx context.Context, rr RevisionReader, w io.Writer, pending []Pending) []Outcome {
	outcomes := make([]Outcome, 0, len(pending))
	for _, p := range pending {
		rec := p.Record
		out := Outcome{Path: p.Path, Title: rec.Title, Status: Previewed}

		rev, err := rr.Revision(ctx, rec.Title)
		if err != nil {
			fmt.Fprintf(w, "=== [[%s]]: %v\n", rec.Title, err)
			out.Status = Failed
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}

		fmt.Fprintf(w, "=== [[%s]] (base r%d, live r%d)\n", rec.Title, rec.RevID, rev.RevID)
		if rev.RevID != rec.RevID {
			fmt.Fprintf(w, "!!! page changed since the edit was built; submitting would conflict\n")
		}
		fmt.Fprintf(w, "summary: %s\n", rec.Summary)
		fmt.Fprint(w, LineDiff(rev.Content, rec.Content))
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// LineDiff renders a unified-style line diff of before and after, showing
// only changed lines prefixed with "-" or "+".
func LineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
