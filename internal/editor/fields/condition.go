package fields

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================
// Display conditions
// ============================================================

const conditionPrefix = "FIELD"

// MeetsCondition evaluates a displayCond of the form FIELD:<field>:<op>:<value>
// against the values of one focus area.
//
// Missing or malformed conditions and references to absent fields are visible.
// Numeric and range comparisons that cannot be parsed are hidden.
func MeetsCondition(cond string, values map[string]*string) bool {
	if cond == "" {
		return true
	}
	parts := strings.Split(cond, ":")
	if len(parts) < 4 || parts[0] != conditionPrefix {
		return true
	}
	field, op, value := parts[1], parts[2], parts[3]

	raw, ok := values[field]
	if !ok {
		return true
	}
	current := ""
	if raw != nil {
		current = *raw
	}

	switch op {
	case "REQ":
		return raw != nil && current != ""
	case "=":
		return raw != nil && current == value
	case "!=":
		return raw == nil || current != value
	case ">", "<", ">=", "<=":
		a, okA := parseInt(current)
		b, okB := parseInt(value)
		if raw == nil || !okA || !okB {
			return false
		}
		switch op {
		case ">":
			return a > b
		case "<":
			return a < b
		case ">=":
			return a >= b
		default:
			return a <= b
		}
	case "IN":
		return raw != nil && slices.Contains(strings.Split(value, ","), current)
	case "!IN":
		return raw == nil || !slices.Contains(strings.Split(value, ","), current)
	case "-", "!-":
		lo, hi, ok := parseRange(value)
		if !ok {
			return false
		}
		v, ok := parseInt(current)
		if raw == nil || !ok {
			return false
		}
		inside := v >= lo && v <= hi
		if op == "-" {
			return inside
		}
		return !inside
	default:
		return false
	}
}

// parseRange reads "min-max". Anything other than exactly two parts fails.
func parseRange(value string) (int64, int64, bool) {
	bounds := strings.Split(value, "-")
	if len(bounds) != 2 {
		return 0, 0, false
	}
	lo, okLo := parseInt(bounds[0])
	hi, okHi := parseInt(bounds[1])
	if !okLo || !okHi {
		return 0, 0, false
	}
	return lo, hi, true
}

// parseInt reads a leading base-10 integer, ignoring trailing characters
// ("12px" is 12). It fails when no digit is found.
func parseInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
