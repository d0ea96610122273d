// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ccitool/ccitool/internal/config"
	"github.com/ccitool/ccitool/internal/meta"
	"github.com/ccitool/ccitool/internal/source"
	"github.com/ccitool/ccitool/internal/viewer"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// stdout returns the writer commands print results to.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// newFetcher builds the payload fetcher from the source flags and config.
func newFetcher(cmd *cli.Command) source.Fetcher {
	cache, _ := config.GetBool("cache.enabled", true)
	hours, _ := config.GetInt("cache.hours", 24)

	return source.New(source.Options{
		Cache:      cache && !cmd.Bool("no-cache"),
		CacheHours: hours,
		AWSProfile: cmd.String("aws-profile"),
		AWSRegion:  cmd.String("aws-region"),
		PathStyle:  cmd.Bool("path-style"),
	})
}

// viewerOptions maps the link flags onto renderer options.
func viewerOptions(cmd *cli.Command) viewer.Options {
	return viewer.Options{
		PageBase:  cmd.String("page-base"),
		DiffBase:  cmd.String("diff-base"),
		NoFilters: cmd.Bool("no-filters"),
	}
}
