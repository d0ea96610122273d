// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ccitool/ccitool/internal/cci"
)

// Link bases used when Options leaves them empty.
const (
	DefaultPageBase = "https://en.wikipedia.org/wiki/"
	DefaultDiffBase = "https://en.wikipedia.org/wiki/Special:Diff/"
)

// Collapse toggle labels.
const (
	glyphExpanded  = "[-]"
	glyphCollapsed = "[+]"
)

// checkboxIDs maps a line status to its show/hide checkbox.
var checkboxIDs = map[string]string{
	cci.StatusLive:     "show-live",
	cci.StatusAutocull: "show-culled",
}

// queryParams maps a query parameter to the line status it filters.
var queryParams = []struct {
	param  string
	status string
}{
	{"culled", cci.StatusAutocull},
	{"live", cci.StatusLive},
}

// Options controls rendering.
type Options struct {
	// PageBase is prefixed to page titles (spaces become underscores).
	PageBase string
	// DiffBase is prefixed to diff ids.
	DiffBase string
	// NoFilters drops the live/autocull checkboxes.
	NoFilters bool
}

func (o Options) withDefaults() Options {
	if o.PageBase == "" {
		o.PageBase = DefaultPageBase
	}
	if o.DiffBase == "" {
		o.DiffBase = DefaultDiffBase
	}
	return o
}

// View is a rendered report: the <main> tree plus the handlers wired to it
// and the palette its rule tags were colored from.
type View struct {
	Main    *html.Node
	Events  *Dispatcher
	Palette *Palette

	opts Options
}

// Render builds the report for an edit batch. Edits must already be grouped:
// a new section block starts whenever the section changes from the previous
// edit, and a new page block whenever the page changes within a section.
func Render(edits []cci.Edit, opts Options) *View {
	v := &View{
		Main:    elem(atom.Main),
		Events:  NewDispatcher(),
		Palette: NewPalette(),
		opts:    opts.withDefaults(),
	}

	toc := elem(atom.Ul, "class", "toc")
	v.Main.AppendChild(toc)
	if !v.opts.NoFilters {
		v.Main.AppendChild(v.options())
	}

	var (
		curSection, curPage *html.Node
		sectionName         string
		pageName            string
		sectionCtr          int
	)
	for _, edit := range edits {
		if curSection == nil || edit.Section != sectionName {
			sectionCtr++
			id := fmt.Sprintf("section-%d", sectionCtr)
			curSection = v.section(id, edit.Section)
			v.Main.AppendChild(curSection)
			toc.AppendChild(tocItem(id, edit.Section))
			sectionName = edit.Section
			curPage = nil
		}

		if curPage == nil || edit.Page != pageName {
			curPage = v.page(edit.Page)
			curSection.AppendChild(curPage)
			pageName = edit.Page
		}

		curPage.AppendChild(v.edit(edit))
	}

	return v
}

func tocItem(id, name string) *html.Node {
	return appendAll(elem(atom.Li),
		withText(elem(atom.A, "href", "#"+id), name))
}

func (v *View) section(id, name string) *html.Node {
	head := withText(elem(atom.H2, "id", id), name)
	prepend(head, v.collapsor())
	return appendAll(elem(atom.Div, "class", "section"), head)
}

func (v *View) page(name string) *html.Node {
	href := v.opts.PageBase + strings.ReplaceAll(name, " ", "_")
	head := appendAll(elem(atom.H3),
		withText(elem(atom.A, "href", href), name))
	prepend(head, v.collapsor())
	return appendAll(elem(atom.Div, "class", "page"), head)
}

func (v *View) edit(edit cci.Edit) *html.Node {
	diff := edit.Diff.String()
	head := appendAll(elem(atom.H4),
		withText(elem(atom.A, "href", v.opts.DiffBase+diff), diff))
	prepend(head, v.collapsor())

	table := elem(atom.Table)
	for _, line := range edit.Delta.Lines {
		table.AppendChild(v.line(line))
	}
	return appendAll(elem(atom.Div, "class", "edit"), head, table)
}

func (v *View) line(line cci.Line) *html.Node {
	status := line.Status()

	rules := elem(atom.Td, "class", "line-rules")
	for _, rule := range line.Rules {
		rules.AppendChild(v.ruleTag(rule))
	}

	return appendAll(elem(atom.Tr),
		withText(elem(atom.Td, "class", "line-index"), strconv.Itoa(line.Index)),
		withText(elem(atom.Td, "class", "line-status "+status), status),
		withText(elem(atom.Td, "class", "line-text "+status), line.Text),
		rules,
	)
}

// ruleTag renders a rule as <abbr title=detail> when it has a detail and as a
// plain <span> otherwise.
func (v *View) ruleTag(rule cci.Rule) *html.Node {
	var n *html.Node
	if detail := rule.DetailText(); detail != "" {
		n = elem(atom.Abbr, "title", detail)
	} else {
		n = elem(atom.Span)
	}
	setAttr(n, "style", "background-color: "+v.Palette.Color(rule.Name))
	return withText(n, rule.Name)
}

// collapsor returns a toggle link. Clicking it hides or shows every element
// of its block after the first (the heading) and swaps its label.
func (v *View) collapsor() *html.Node {
	a := withText(elem(atom.A, "class", "collapse", "href", "#"), glyphExpanded)
	v.Events.On(a, Click, func(target *html.Node) {
		if target.Parent == nil || target.Parent.Parent == nil {
			return
		}
		collapse := textContent(target) == glyphExpanded
		for i, c := range elementChildren(target.Parent.Parent) {
			if i > 0 {
				setHidden(c, collapse)
			}
		}
		if collapse {
			setText(target, glyphCollapsed)
		} else {
			setText(target, glyphExpanded)
		}
	})
	return a
}

func (v *View) options() *html.Node {
	opts := elem(atom.Div, "class", "options")
	for _, opt := range []struct {
		status string
		label  string
	}{
		{cci.StatusLive, " Show live"},
		{cci.StatusAutocull, " Show culled"},
	} {
		status := opt.status
		box := elem(atom.Input, "type", "checkbox", "id", checkboxIDs[status], "checked", "")
		v.Events.On(box, Change, func(target *html.Node) {
			v.SetFilter(status, isChecked(target))
		})
		opts.AppendChild(appendAll(elem(atom.Label), box, text(opt.label)))
	}
	return opts
}

func isChecked(n *html.Node) bool {
	_, ok := attr(n, "checked")
	return ok
}

// Click fires the click handlers registered on n.
func (v *View) Click(n *html.Node) bool {
	return v.Events.Fire(n, Click)
}

// SetChecked sets a checkbox state and fires its change handlers.
func (v *View) SetChecked(box *html.Node, checked bool) {
	if checked {
		setAttr(box, "checked", "")
	} else {
		removeAttr(box, "checked")
	}
	v.Events.Fire(box, Change)
}

// Checkbox returns the show/hide checkbox for a line status, or nil when the
// view has no filters.
func (v *View) Checkbox(status string) *html.Node {
	id, ok := checkboxIDs[status]
	if !ok {
		return nil
	}
	return find(v.Main, byID(id))
}

// SetFilter shows or hides every line row whose status is status.
func (v *View) SetFilter(status string, show bool) {
	for _, edit := range findAll(v.Main, byClass("edit")) {
		for _, row := range findAll(edit, byTag(atom.Tr)) {
			cell := find(row, byClass("line-status"))
			if cell != nil && textContent(cell) == status {
				setHidden(row, !show)
			}
		}
	}
}

// ApplyQuery pre-applies filters from a query string: culled=0 hides
// autocull lines and live=0 hides live lines, unchecking the matching box.
func (v *View) ApplyQuery(q url.Values) {
	if v.opts.NoFilters {
		return
	}
	for _, p := range queryParams {
		if q.Get(p.param) != "0" {
			continue
		}
		if box := v.Checkbox(p.status); box != nil {
			v.SetChecked(box, false)
		}
	}
}
