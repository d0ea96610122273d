// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/mediawiki"
	"github.com/ccitool/ccitool/internal/meta"
	"github.com/ccitool/ccitool/internal/submit"
	"github.com/ccitool/ccitool/internal/version"
)

// submitCommandAction is the action handler for the "submit" subcommand. It
// applies each saved edit file to its case page. Files are independent: one
// failing never stops the rest.
func submitCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errors.New("no edit files given")
	}

	w := stdout(cmd)
	s := &submit.Submitter{Notifier: submit.WriterNotifier{W: w}}
	pending, outcomes := s.Prepare(paths)

	if cmd.Bool("pick") && len(pending) > 0 {
		chosen, err := submit.Pick(os.Stdin, os.Stderr, pending)
		if err != nil {
			return err
		}
		if chosen == nil {
			fmt.Fprintln(os.Stderr, "aborted")
			return submitResult(outcomes, len(paths))
		}
		pending = chosen
	}

	if len(pending) > 0 {
		client, err := mediawiki.New(cmd.String("api"), mediawiki.WithUserAgent(version.UserAgent()))
		if err != nil {
			return err
		}

		if user := cmd.String("user"); user != "" {
			password, err := resolvePassword(cmd, user)
			if err != nil {
				return err
			}
			if err := client.Login(ctx, user, password); err != nil {
				return fmt.Errorf("failed to log in as %s: %w", user, err)
			}
		}

		if cmd.Bool("dry-run") {
			outcomes = append(outcomes, submit.DryRun(ctx, client, w, pending)...)
		} else {
			s.Editor = client
			outcomes = append(outcomes, s.Apply(ctx, pending)...)
		}
	}

	return submitResult(outcomes, len(paths))
}

// submitResult fails the run when any of total files was invalid or rejected.
func submitResult(outcomes []submit.Outcome, total int) error {
	if n := submit.Failures(outcomes); n > 0 {
		return fmt.Errorf("%d of %d edit files failed", n, total)
	}
	return nil
}

// resolvePassword returns the --password value, or prompts without echo when
// stdin is a terminal.
func resolvePassword(cmd *cli.Command, user string) (string, error) {
	if pw := cmd.String("password"); pw != "" {
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password for %s: set --password or CCITOOL_PASSWORD", user)
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", user)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// submitCommandBuilder constructs the "submit" subcommand.
func submitCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "apply saved cull edits to case pages",
		UsageText: "ccitool submit [options] FILE...",
		Metadata:  map[string]any{"meta": meta},
		Flags: []cli.Flag{
			NewAPIFlag("submit", meta.Config.Source),
			NewUserFlag("submit", meta.Config.Source),
			&cli.StringFlag{
				Name:  "password",
				Usage: "bot password",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("CCITOOL_PASSWORD"),
				),
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "show the line diff against the live page instead of saving",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:    "pick",
				Aliases: []string{"p"},
				Usage:   "choose which edits to submit interactively",
				Value:   false,
			},
		},
		Action: submitCommandAction,
	}
}
