// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/ccitool/ccitool/internal/mediawiki"
	"github.com/ccitool/ccitool/internal/viewer"
)

// NewAPIFlag constructs the --api flag. params[0] is the namespace and
// params[1] the config file; both are needed to read the value from config.
func NewAPIFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "api",
		Usage: "MediaWiki api.php endpoint",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CCITOOL_API"),
		),
		Value: mediawiki.DefaultAPI,
		Validator: func(value string) error {
			return FlagValidators(value, URLValidator)
		},
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewUserFlag constructs the --user flag. The password never comes from the
// config file.
func NewUserFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "bot password user name (User@botname)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CCITOOL_USER"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewLinkFlags constructs --page-base and --diff-base, read from links.page
// and links.diff in the config file.
func NewLinkFlags(params ...string) []cli.Flag {
	page := &cli.StringFlag{
		Name:  "page-base",
		Usage: "URL prefix for page links",
		Value: viewer.DefaultPageBase,
	}
	diff := &cli.StringFlag{
		Name:  "diff-base",
		Usage: "URL prefix for diff links",
		Value: viewer.DefaultDiffBase,
	}

	if len(params) == 2 {
		page = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], page, "links.page")
		diff = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], diff, "links.diff")
	}

	return []cli.Flag{
		page,
		diff,
		&cli.BoolFlag{
			Name:  "no-filters",
			Usage: "omit the live/culled checkboxes",
			Value: false,
		},
	}
}

// NewSourceFlags constructs the flags that configure payload fetching.
func NewSourceFlags(params ...string) []cli.Flag {
	profile := &cli.StringFlag{
		Name:  "aws-profile",
		Usage: "shared config profile for s3:// payloads",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_PROFILE"),
		),
	}
	region := &cli.StringFlag{
		Name:  "aws-region",
		Usage: "region for s3:// payloads",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_REGION"),
		),
	}

	if len(params) == 2 {
		profile = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], profile, "aws.profile")
		region = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], region, "aws.region")
	}

	return []cli.Flag{
		profile,
		region,
		&cli.BoolFlag{
			Name:  "path-style",
			Usage: "use path-style addressing for S3-compatible stores",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "bypass the payload cache",
			Value: false,
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain. The config key defaults to the
// flag name.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag, key ...string) *cli.StringFlag {
	if path == "" {
		return flag
	}

	k := flag.Name
	if len(key) == 1 {
		k = key[0]
	}

	if ns != "" {
		src := yaml.YAML(ns+"."+k, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(k, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
