// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for ccitool's user
// configuration. The configuration is a YAML document named by
// CCITOOL_CFG_FILE or located in the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/ccitool.yaml or $HOME/.config/ccitool.yaml
//   - macOS: $HOME/Library/Application Support/ccitool.yaml
//   - Windows: %APPDATA%/ccitool.yaml
//
// Keys are dotted paths. A key under a command namespace (for example
// "submit.api") wins over the bare key ("api") while that command runs.
package config
