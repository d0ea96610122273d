// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source fetches raw diff payloads from local files, HTTP(S) URLs and
// s3://bucket/key objects. Failures carrying a status code are reported as
// *StatusError so callers can show it.
package source
