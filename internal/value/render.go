package value

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Render returns the canonical display form of v. Function examples state
// their expected results in this form.
func Render(v Value) string {
	var sb strings.Builder
	render(&sb, v)
	return sb.String()
}

func render(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case Bytes:
		sb.WriteString(strconv.Quote(string(x)))
	case Integer:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		sb.WriteString(formatFloat(float64(x)))
	case Boolean:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case Timestamp:
		sb.WriteString("t'")
		sb.WriteString(x.Time().UTC().Format(time.RFC3339Nano))
		sb.WriteString("'")
	case Regex:
		sb.WriteString("r'")
		if x.Regexp != nil {
			sb.WriteString(x.String())
		}
		sb.WriteString("'")
	case Array:
		sb.WriteString("[")
		for i, elem := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			render(sb, elem)
		}
		sb.WriteString("]")
	case Object:
		if len(x) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{ ")
		for i, key := range sortedKeys(x) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(key))
			sb.WriteString(": ")
			render(sb, x[key])
		}
		sb.WriteString(" }")
	default:
		sb.WriteString("null")
	}
}

// formatFloat always includes a decimal point so floats never render like integers.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// sortedKeys returns object keys in lexical order for deterministic output.
func sortedKeys(o Object) []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
