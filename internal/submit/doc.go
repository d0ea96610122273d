// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package submit applies locally saved edit records to the wiki. Each file is
// handled on its own: an unreadable or malformed file, a record missing a
// required field, or a rejected edit never stops the remaining files.
package submit
