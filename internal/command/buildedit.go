// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ccitool/ccitool/internal/casepage"
	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/mediawiki"
	"github.com/ccitool/ccitool/internal/meta"
	"github.com/ccitool/ccitool/internal/version"
	"github.com/ccitool/ccitool/internal/viewer"
)

// buildEditCommandAction is the action handler for the "build-edit"
// subcommand. It reads the live case page, strips the diffs the payload fully
// culled and writes the edit record that "submit" applies.
func buildEditCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	target := cmd.Args().First()
	if target == "" {
		return errors.New("no payload path given")
	}

	edits, err := viewer.Load(ctx, newFetcher(cmd), target)
	if err != nil {
		return err
	}

	client, err := mediawiki.New(cmd.String("api"), mediawiki.WithUserAgent(version.UserAgent()))
	if err != nil {
		return err
	}

	title := casepage.Title(cmd.String("case"), cmd.Int("case-page"))
	rev, err := client.Revision(ctx, title)
	if err != nil {
		return err
	}

	rec, counts := casepage.Build(title, rev.RevID, rev.Content, edits, cmd.String("report-link"))
	log.Infof("%s: culled %d of %d diffs", title, counts.Removed, counts.Total)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode edit record: %w", err)
	}
	data = append(data, '\n')

	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		return nil
	}
	_, err = stdout(cmd).Write(data)
	return err
}

// buildEditCommandBuilder constructs the "build-edit" subcommand.
func buildEditCommandBuilder(meta meta.Meta) *cli.Command {
	link := &cli.StringFlag{
		Name:  "report-link",
		Usage: "wiki link to the published report, cited in the edit summary",
	}
	link = NameSpacedValueChainFlagFromConfigFile("build-edit", meta.Config.Source, link)

	flags := []cli.Flag{
		NewAPIFlag("build-edit", meta.Config.Source),
		&cli.StringFlag{
			Name:     "case",
			Usage:    "case name (the title after the investigations prefix)",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "case-page",
			Usage: "case page number",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the edit record to this file instead of stdout",
		},
		link,
	}
	flags = append(flags, NewSourceFlags("build-edit", meta.Config.Source)...)

	return &cli.Command{
		Name:      "build-edit",
		Usage:     "build the case page edit for a cull payload",
		UsageText: "ccitool build-edit [options] --case NAME PATH",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    buildEditCommandAction,
	}
}
