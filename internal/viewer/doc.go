// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package viewer loads culled diff payloads and renders them as a
// collapsible, filterable HTML report.
//
// Rendering builds a golang.org/x/net/html node tree. Each template is a pure
// function from data to nodes. Interactive behavior (collapse toggles and the
// live/autocull filters) is modeled by handlers registered on the nodes they
// affect, so it can be driven and inspected without a browser; the same
// behavior ships to browsers as an embedded script.
package viewer
