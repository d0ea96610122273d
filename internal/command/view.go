// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/net/html"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/filters"
	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/meta"
	"github.com/ccitool/ccitool/internal/output"
	"github.com/ccitool/ccitool/internal/viewer"
)

// viewCommandAction is the action handler for the "view" subcommand. It loads
// one payload and writes the HTML report, a terminal table or stats.
func viewCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	target := cmd.Args().First()
	if target == "" {
		return errors.New("no payload path given")
	}

	w := stdout(cmd)
	if out := cmd.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	edits, loadErr := viewer.Load(ctx, newFetcher(cmd), target)
	if loadErr == nil {
		edits = filters.FilterEdits(edits, cmd.String("filter"))
	}

	format := cmd.String("output")
	if format == "html" {
		title := cmd.String("title")
		if title == "" {
			title = path.Base(target)
		}
		if err := writeReport(w, title, edits, loadErr, cmd); err != nil {
			return err
		}
		return loadErr
	}

	if loadErr != nil {
		return loadErr
	}

	switch format {
	case "text":
		opts := output.DefaultTextOptions()
		if cmd.Bool("color") {
			opts = opts.WithColor()
		}
		opts.ShowLive = cmd.Bool("live")
		opts.ShowCulled = cmd.Bool("culled")
		opts.Padding = cmd.Int("padding")
		if err := output.Text(w, edits, opts); err != nil {
			return err
		}
		footer := output.Footer(output.Summarize(edits))
		if opts.Color {
			footer = lipgloss.NewStyle().Bold(true).Render(footer)
		}
		_, err := fmt.Fprintln(w, footer)
		return err
	default:
		stats := output.Summarize(edits)
		output.SortStats(stats, cmd.String("sort"))
		return output.WriteStats(w, format, stats)
	}
}

// writeReport renders the standalone HTML document. A load failure replaces
// the report with the error message, as the browser viewer does.
func writeReport(w io.Writer, title string, edits []cci.Edit, loadErr error, cmd *cli.Command) error {
	var main *html.Node
	if loadErr != nil {
		main = viewer.ErrorView(loadErr.Error())
	} else {
		v := viewer.Render(edits, viewerOptions(cmd))
		q := url.Values{}
		if !cmd.Bool("culled") {
			q.Set("culled", "0")
		}
		if !cmd.Bool("live") {
			q.Set("live", "0")
		}
		v.ApplyQuery(q)
		main = v.Main
	}

	if err := viewer.WriteHTML(w, viewer.Document(title, main)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// viewCommandBuilder constructs the "view" subcommand.
func viewCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "culled",
			Usage: "show autocull lines",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "live",
			Usage: "show live lines",
			Value: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (html, text, json, yaml)",
			Value:   "html",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of edit filters (e.g. rules@url,culled=false)",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write to this file instead of stdout",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "report title (defaults to the payload file name)",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "column padding for text output",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of stats columns to sort by",
		},
	}
	flags = append(flags, NewLinkFlags("view", meta.Config.Source)...)
	flags = append(flags, NewSourceFlags("view", meta.Config.Source)...)

	return &cli.Command{
		Name:      "view",
		Usage:     "render a cull payload",
		UsageText: "ccitool view [options] PATH",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    viewCommandAction,
	}
}
