// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package mediawiki is a small client for the MediaWiki action API covering
// what ccitool needs: bot-password login, page edits guarded by a base
// revision, and reading the latest revision of a page.
package mediawiki
