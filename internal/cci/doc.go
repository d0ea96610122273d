// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cci holds the data shared by the submitter and the viewer: edit
// records saved for on-wiki application, and the culled edit batches the
// viewer renders.
package cci
