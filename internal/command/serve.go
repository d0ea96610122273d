// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/meta"
	"github.com/ccitool/ccitool/internal/server"
	"github.com/ccitool/ccitool/internal/util"
)

// serveCommandAction is the action handler for the "serve" subcommand. It
// runs until interrupted.
func serveCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := util.ParseRootDir(cmd.String("root"))
	if err != nil {
		return fmt.Errorf("invalid payload root %q: %w", cmd.String("root"), err)
	}

	s := server.New(root, newFetcher(cmd), viewerOptions(cmd))
	return s.Run(ctx, cmd.String("addr"))
}

// serveCommandBuilder constructs the "serve" subcommand.
func serveCommandBuilder(meta meta.Meta) *cli.Command {
	addr := &cli.StringFlag{
		Name:  "addr",
		Usage: "listen address",
		Value: server.DefaultAddr,
	}
	root := &cli.StringFlag{
		Name:  "root",
		Usage: "payload root: a directory, http(s) base URL or s3:// prefix",
		Value: ".",
		Validator: func(value string) error {
			return FlagValidators(value, NonEmptyValidator)
		},
	}
	addr = NameSpacedValueChainFlagFromConfigFile("serve", meta.Config.Source, addr, "serve.addr")
	root = NameSpacedValueChainFlagFromConfigFile("serve", meta.Config.Source, root, "serve.root")

	flags := []cli.Flag{addr, root}
	flags = append(flags, NewLinkFlags("serve", meta.Config.Source)...)
	flags = append(flags, NewSourceFlags("serve", meta.Config.Source)...)

	return &cli.Command{
		Name:      "serve",
		Usage:     "serve cull payloads as HTML reports",
		UsageText: "ccitool serve [options]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Action:    serveCommandAction,
	}
}
