// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"

	"github.com/ccitool/ccitool/internal/cci"
)

// SectionStats counts what a section of a batch holds.
type SectionStats struct {
	Section     string `json:"section" yaml:"section"`
	Pages       int    `json:"pages" yaml:"pages"`
	Diffs       int    `json:"diffs" yaml:"diffs"`
	LiveLines   int    `json:"live_lines" yaml:"live_lines"`
	CulledLines int    `json:"culled_lines" yaml:"culled_lines"`
	CulledDiffs int    `json:"culled_diffs" yaml:"culled_diffs"`
}

// Summarize computes per section statistics in first-seen section order.
// Sections that appear in more than one run are merged.
func Summarize(edits []cci.Edit) []SectionStats {
	var (
		out   []SectionStats
		index = map[string]int{}
		pages = map[string]map[string]bool{}
	)

	for _, edit := range edits {
		i, ok := index[edit.Section]
		if !ok {
			i = len(out)
			index[edit.Section] = i
			pages[edit.Section] = map[string]bool{}
			out = append(out, SectionStats{Section: edit.Section})
		}
		s := &out[i]

		if !pages[edit.Section][edit.Page] {
			pages[edit.Section][edit.Page] = true
			s.Pages++
		}
		s.Diffs++
		if edit.Culled() {
			s.CulledDiffs++
		}
		for _, line := range edit.Delta.Lines {
			if line.Culled {
				s.CulledLines++
			} else {
				s.LiveLines++
			}
		}
	}

	return out
}

// WriteStats emits stats as json or yaml.
func WriteStats(w io.Writer, format string, stats []SectionStats) error {
	if w == nil {
		w = os.Stdout
	}
	if stats == nil {
		stats = []SectionStats{}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(stats, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(stats)
	default:
		return fmt.Errorf("unsupported stats format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// Footer is a one-line human summary of a batch.
func Footer(stats []SectionStats) string {
	var diffs, culledDiffs, live, culled int
	for _, s := range stats {
		diffs += s.Diffs
		culledDiffs += s.CulledDiffs
		live += s.LiveLines
		culled += s.CulledLines
	}

	pct := 0.0
	if live+culled > 0 {
		pct = 100 * float64(culled) / float64(live+culled)
	}
	return fmt.Sprintf("%s diffs (%s fully culled), %s of %s lines culled (%s%%)",
		humanize.Comma(int64(diffs)),
		humanize.Comma(int64(culledDiffs)),
		humanize.Comma(int64(culled)),
		humanize.Comma(int64(live+culled)),
		humanize.FtoaWithDigits(pct, 1))
}
