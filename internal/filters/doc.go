// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects edits from a batch using --filter expressions.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// comma, override with CCITOOL_FILTER_DELIM). An edit is kept only when it
// matches every expression.
//
// Operators:
//
//   - = : exact match (negate with !=)
//   - ~ : case-insensitive match (negate with !~)
//   - ^ : prefix match (negate with !^)
//   - < : less than, numeric for numeric keys
//   - > : greater than, numeric for numeric keys
//   - @ : substring, or membership for rules (negate with !@)
//   - / : regex match (negate with !/)
//
// Keys:
//
//   - section, page, diff : strings
//   - lines, live_lines, culled_lines : line counts
//   - culled : true when every line of the edit was culled
//   - rules : distinct rule names flagged on the edit
//
// Examples:
//
//   - "culled=false" : edits with at least one live line
//   - "!rules" : edits with no rule flagged; a bare key is false when zero or empty
//   - "page^Talk:" : edits on talk pages
//   - "rules@url,live_lines>2" : url-flagged edits with more than two live lines
//
// Malformed expressions and unknown keys are logged and skipped.
package filters
