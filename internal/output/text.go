// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/config"
	"github.com/ccitool/ccitool/internal/viewer"
)

// TextOptions controls the terminal table.
type TextOptions struct {
	Color      bool
	ShowLive   bool
	ShowCulled bool
	Padding    int
	// Dark selects colors for a dark terminal background. Only consulted when
	// Color is set.
	Dark bool
}

// DefaultTextOptions shows every line without colors.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		ShowLive:   true,
		ShowCulled: true,
		Padding:    2,
	}
}

// WithColor enables colors, picking defaults for the terminal background.
func (o TextOptions) WithColor() TextOptions {
	o.Color = true
	o.Dark = lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return o
}

// Text writes one heading and one table of lines per diff. Diffs whose lines
// are all filtered out still get their heading.
func Text(w io.Writer, edits []cci.Edit, opts TextOptions) error {
	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		liveStyle    = cellStyle
		culledStyle  = cellStyle
		sectionStyle = headerStyle
	)
	// Text attributes go with colors so that plain output stays free of
	// escape sequences.
	if opts.Color {
		headerColor, liveColor, culledColor := getColors("colors", opts.Dark)

		headerStyle = headerStyle.Bold(true).Foreground(headerColor)
		sectionStyle = headerStyle.Underline(true)
		liveStyle = liveStyle.Foreground(liveColor)
		culledStyle = culledStyle.Strikethrough(true).Foreground(culledColor)
	}

	var section string
	for i, edit := range edits {
		if i == 0 || edit.Section != section {
			section = edit.Section
			if _, err := fmt.Fprintln(w, sectionStyle.Render(section)); err != nil {
				return err
			}
		}

		heading := fmt.Sprintf("%s  diff %s", edit.Page, edit.Diff)
		if _, err := fmt.Fprintln(w, headerStyle.Render(heading)); err != nil {
			return err
		}

		var (
			rows     [][]string
			statuses []string
		)
		for _, line := range edit.Delta.Lines {
			status := line.Status()
			if (status == cci.StatusLive && !opts.ShowLive) ||
				(status == cci.StatusAutocull && !opts.ShowCulled) {
				continue
			}
			rows = append(rows, []string{
				strconv.Itoa(line.Index),
				status,
				line.Text,
				ruleTags(line.Rules, opts),
			})
			statuses = append(statuses, status)
		}
		if len(rows) == 0 {
			continue
		}

		pad := opts.Padding
		t := table.New().
			BorderBottom(false).
			BorderTop(false).
			BorderLeft(false).
			BorderRight(false).
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				style := liveStyle
				if row >= 0 && row < len(statuses) && statuses[row] == cci.StatusAutocull {
					style = culledStyle
				}
				if col > 0 {
					style = style.PaddingLeft(pad)
				}
				return style
			}).
			Headers().
			Rows(rows...)

		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
	}

	return nil
}

// ruleTags joins rule names. With color each name gets its palette swatch as
// background.
func ruleTags(rules []cci.Rule, opts TextOptions) string {
	tags := make([]string, 0, len(rules))
	for _, rule := range rules {
		if !opts.Color {
			tags = append(tags, rule.Name)
			continue
		}
		style := lipgloss.NewStyle().Background(RuleColor(rule.Name, opts.Dark))
		tags = append(tags, style.Render(" "+rule.Name+" "))
	}
	if opts.Color {
		return strings.Join(tags, " ")
	}
	return strings.Join(tags, ",")
}

// RuleColor converts the HTML swatch for a rule to an opaque terminal color.
// The swatch is hsla(hue, 70%, 70%, 0.3), so it is blended 30/70 over the
// terminal background.
func RuleColor(name string, dark bool) colorful.Color {
	hue := viewer.Hue(name) % 360
	if hue < 0 {
		hue += 360
	}
	swatch := colorful.Hsl(float64(hue), 0.7, 0.7)

	bg := colorful.Color{R: 1, G: 1, B: 1}
	if dark {
		bg = colorful.Color{R: 0, G: 0, B: 0}
	}
	return bg.BlendRgb(swatch, 0.3).Clamped()
}

// getColors returns configured color values for the table. Explicit config
// colors win; otherwise defaults are picked for the terminal background.
func getColors(key string, isDark bool) (header, live, culled color.Color) {
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil && colorCfg != "" {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	live = resolveColor(key+".live", "#333333", "#ffffff")
	culled = resolveColor(key+".culled", "#888888", "#777777")

	return
}
