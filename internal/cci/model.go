// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cci

import (
	"encoding/json"
	"fmt"
)

// Line statuses as rendered in reports.
const (
	StatusLive     = "live"
	StatusAutocull = "autocull"
)

// EditRecord is a saved edit ready to be applied to a case page.
type EditRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
	RevID   int64  `json:"revid"`
}

// Edit is one diff under review, with its per-line cull annotations.
type Edit struct {
	Section string `json:"section"`
	Page    string `json:"page"`
	Diff    DiffID `json:"diff"`
	Delta   Delta  `json:"delta"`
}

// Culled reports whether every line of a non-empty delta was culled.
func (e Edit) Culled() bool {
	if len(e.Delta.Lines) == 0 {
		return false
	}
	for _, line := range e.Delta.Lines {
		if !line.Culled {
			return false
		}
	}
	return true
}

type Delta struct {
	Lines []Line `json:"lines"`
}

type Line struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Culled bool   `json:"culled"`
	Rules  []Rule `json:"rules"`
}

// Status is "autocull" for culled lines and "live" otherwise.
func (l Line) Status() string {
	if l.Culled {
		return StatusAutocull
	}
	return StatusLive
}

// Rule names the heuristic that flagged a line. Detail is nil when the
// payload carries null or omits it.
type Rule struct {
	Name   string  `json:"name"`
	Detail *string `json:"detail"`
}

// DetailText returns the detail or "".
func (r Rule) DetailText() string {
	if r.Detail == nil {
		return ""
	}
	return *r.Detail
}

// DiffID is the revision fragment of a diff URL. Payloads carry it as a JSON
// number; strings are accepted as well.
type DiffID string

func (d *DiffID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*d = DiffID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("diff must be a number or string: %s", b)
	}
	*d = DiffID(s)
	return nil
}

func (d DiffID) String() string {
	return string(d)
}
