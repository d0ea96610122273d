// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders edit batches for the terminal: a table of lines per
// diff, or per section statistics as JSON or YAML.
package output
