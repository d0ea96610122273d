// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package server serves rendered diff reports over HTTP. Payload paths are
// resolved below a root that may be a local directory, an http(s) base URL or
// an s3:// prefix.
package server
