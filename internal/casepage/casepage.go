// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package casepage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/log"
)

// Prefix is the title prefix shared by every investigation case page.
const Prefix = "Wikipedia:Contributor copyright investigations/"

const (
	diffLink      = "[[Special:Diff/"
	sectionHeader = "=== Pages "
)

// Title returns the case page title. Page 1 carries no suffix.
func Title(name string, page int) string {
	title := Prefix + name
	if page != 1 {
		title += " " + strconv.Itoa(page)
	}
	return title
}

// Counts reports how many diff links a build removed out of those on the page.
type Counts struct {
	Removed int
	Total   int
}

// Summary is the edit summary for the counts. link, when set, is the report
// the summary points reviewers to.
func (c Counts) Summary(link string) string {
	s := fmt.Sprintf("tool-assisted cull: -%d/%d diffs", c.Removed, c.Total)
	if link != "" {
		s += fmt.Sprintf(" ([[%s|more info]])", link)
	}
	return s
}

// Build strips the fully culled edits from content, the wikitext of revision
// revID of title, and returns the record that applies the result.
func Build(title string, revID int64, content string, edits []cci.Edit, link string) (cci.EditRecord, Counts) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	counts := Counts{Total: strings.Count(content, diffLink)}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	lines, counts.Removed = stripDiffs(lines, culled(edits))
	lines = dropEmptySections(lines)
	log.Debugf("%s: removed %d of %d diffs", title, counts.Removed, counts.Total)

	return cci.EditRecord{
		Title:   title,
		Content: strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n",
		Summary: counts.Summary(link),
		RevID:   revID,
	}, counts
}

// cullTarget is a fully culled edit and the pattern matching its link.
type cullTarget struct {
	page   string
	marker string
	link   *regexp.Regexp
}

func culled(edits []cci.Edit) []cullTarget {
	//nolint:prealloc
	var targets []cullTarget
	for _, edit := range edits {
		if !edit.Culled() {
			continue
		}
		diff := edit.Diff.String()
		targets = append(targets, cullTarget{
			page:   edit.Page,
			marker: diffLink + diff + "|",
			link:   regexp.MustCompile(`\[\[Special:Diff/` + regexp.QuoteMeta(diff) + `\|\(\+\d+\)\]\]`),
		})
	}
	return targets
}

// stripDiffs removes the culled links from each line. A line whose article
// has no diff left is removed entirely.
func stripDiffs(lines []string, targets []cullTarget) ([]string, int) {
	removed := 0
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		changed, page := false, ""
		for _, t := range targets {
			if !strings.Contains(line, t.marker) {
				continue
			}
			line = t.link.ReplaceAllString(line, "")
			changed, page = true, t.page
			removed++
		}
		if !changed {
			continue
		}

		if !strings.Contains(line, "Special:Diff") && emptyArticleLine(page).MatchString(line) {
			lines = append(lines[:i], lines[i+1:]...)
			continue
		}
		lines[i] = line
	}
	return lines, removed
}

func emptyArticleLine(page string) *regexp.Regexp {
	return regexp.MustCompile(`^\*('''N''' )?\[\[:` + regexp.QuoteMeta(page) + `\]\] \(\d+ edits?\): $`)
}

// dropEmptySections removes each "=== Pages" header, together with the blank
// lines under it, when nothing but blank lines follows before the next
// header or the end of the page.
func dropEmptySections(lines []string) []string {
	hasContent := false
	next := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		switch {
		case strings.HasPrefix(lines[i], sectionHeader):
			if !hasContent {
				lines = append(lines[:i], lines[next:]...)
			}
			hasContent = false
			next = i
		case lines[i] != "":
			hasContent = true
		}
	}
	return lines
}
