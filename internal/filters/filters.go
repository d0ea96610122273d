// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/ccitool/ccitool/internal/cci"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. Operators are one of = ^ ~ < > @ or /,
// optionally prefixed with '!'. Examples: "culled" (key only),
// "page=Foo" (key + operator + target), "rules@url" (membership). A leading
// '!' on a bare key ("!culled") negates its truthiness.
var filterRegex = regexp.MustCompile(`^([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Keys is the set of edit attributes a filter can test.
var Keys = []string{"section", "page", "diff", "lines", "culled_lines", "live_lines", "culled", "rules"}

// Filter is a single parsed --filter expression including the key, operand,
// optional negation and value to match against.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed expressions are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	// If there are no filters specified, go home early.
	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("CCITOOL_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		bare := strings.TrimPrefix(filterSpec, "!")
		parts := filterRegex.FindStringSubmatch(bare)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		target := parts[3]

		if key == "" {
			log.Error("invalid filter: empty key in " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		if negate {
			operand = strings.TrimPrefix(operand, "!")
		}

		// Only a bare key takes a leading '!'.
		if bare != filterSpec {
			if operand != "" || negate {
				log.Error("invalid filter: leading ! needs a bare key in " + filterSpec)
				continue
			}
			negate = true
		}

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   target,
		})
	}

	return filters
}

// FilterEdits returns the edits matching every filter in spec, in their
// original order. Grouping is preserved because only whole edits are dropped.
func FilterEdits(edits []cci.Edit, spec string) []cci.Edit {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return edits
	}

	//nolint:prealloc
	var out []cci.Edit
	for _, edit := range edits {
		if applyFilters(row(edit), filters) {
			out = append(out, edit)
		}
	}
	return out
}

// row flattens an edit into the attributes filters can test.
func row(edit cci.Edit) map[string]interface{} {
	var culled, live int
	var rules []interface{}
	seen := map[string]bool{}
	for _, line := range edit.Delta.Lines {
		if line.Culled {
			culled++
		} else {
			live++
		}
		for _, rule := range line.Rules {
			if !seen[rule.Name] {
				seen[rule.Name] = true
				rules = append(rules, rule.Name)
			}
		}
	}

	return map[string]interface{}{
		"section":      edit.Section,
		"page":         edit.Page,
		"diff":         edit.Diff.String(),
		"lines":        len(edit.Delta.Lines),
		"culled_lines": culled,
		"live_lines":   live,
		"culled":       edit.Culled(),
		"rules":        rules,
	}
}

// applyFilters returns true if the candidate row matches all of the provided
// filters. Unknown keys are reported and ignored.
func applyFilters(candidate map[string]interface{}, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := candidate[filter.Key]
		if !ok {
			msg := fmt.Sprintf("filter key not found: %s (valid: %s)", filter.Key, strings.Join(Keys, ", "))
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		// A bare key tests for truthiness, e.g. "culled" or "!rules".
		if filter.Operand == "" {
			if truthy(value) == filter.Negate {
				return false
			}
			continue
		}

		result := true
		if v, ok := value.(string); ok {
			result = checkStringOperand(v, filter)
		} else if v, ok := value.(bool); ok {
			result = checkStringOperand(strconv.FormatBool(v), filter)
		} else if num, ok := toFloat64(value); ok {
			result = checkNumericOperand(num, filter)
		} else if filter.Operand == "@" {
			result = checkContainsOperand(value, filter)
		} else if value == nil || isEmptySlice(value) {
			result = filter.Negate
		}

		if !result {
			return false
		}
	}

	return true
}

// truthy treats false, zero, "", nil and empty slices as false.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	if n, ok := toFloat64(value); ok {
		return n != 0
	}
	return !isEmptySlice(value)
}

func isEmptySlice(value interface{}) bool {
	s, ok := value.([]interface{})
	return ok && len(s) == 0
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against slice or map values.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if item == filter.Value {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]any:
		_, found := val[filter.Value]
		if filter.Negate {
			return !found
		}
		return found
	case nil:
		return filter.Negate
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
}

// checkNumericOperand compares a numeric value against the filter value using
// numeric semantics. Supported operands: =, >, < and the negated form via
// filter.Negate (e.g., != is represented as Negate + "=").
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Error("invalid numeric value: " + filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}

// toFloat64 attempts to normalize various numeric types to float64.
// Returns (0, false) if v is not a recognized numeric type.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
