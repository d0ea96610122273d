// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package casepage turns a cull payload into an edit record for its case
// page.
//
// A case page lists, per investigated article, the diffs still to be
// reviewed:
//
//	=== Pages 1 through 20 ===
//	*[[:Foo]] (2 edits): [[Special:Diff/101|(+10)]][[Special:Diff/102|(+5)]]
//
// Build removes the links of every fully culled edit from the live wikitext,
// drops article lines left without any diff, and drops "=== Pages" sections
// left without any article line. The resulting record is what the submit
// command applies, guarded by the revision it was built from.
package casepage
