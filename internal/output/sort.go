// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// statsField returns the value of a stats column by its json name.
func statsField(s SectionStats, field string) (int, string, bool) {
	switch field {
	case "section":
		return 0, s.Section, false
	case "pages":
		return s.Pages, "", true
	case "diffs":
		return s.Diffs, "", true
	case "live_lines":
		return s.LiveLines, "", true
	case "culled_lines":
		return s.CulledLines, "", true
	case "culled_diffs":
		return s.CulledDiffs, "", true
	}
	return 0, "", false
}

// SortStats orders stats by a comma separated list of column names. A leading
// "-" sorts that column descending and a leading "!" makes a string column
// case sensitive. Unknown columns are ignored.
func SortStats(stats []SectionStats, spec string) {
	if spec == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(stats, func(one, two int) bool {
		for _, field := range fields {
			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}

			oneInt, oneStr, numeric := statsField(stats[one], field)
			twoInt, twoStr, _ := statsField(stats[two], field)

			if numeric {
				if oneInt != twoInt {
					if ascending {
						return oneInt < twoInt
					}
					return oneInt > twoInt
				}
				continue
			}

			if !caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				if ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}
		return false
	})
}
