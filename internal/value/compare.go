// internal/value/compare.go
package value

import (
	"bytes"
	"math"
)

/*
 * Value comparison.
 *
 * Equal is structural equality with one deliberate coercion: Integer and
 * Float compare numerically, so an enrichment condition {"id": 1} matches a
 * row decoded as {"id": 1.0}. NaN is never equal to anything, including
 * itself, which keeps float comparison consistent with IEEE-754.
 *
 * Numeric equality goes through CompareFloat, which reports NaN as
 * unordered rather than choosing an arbitrary position for it.
 */

// Equal reports whether a and b are the same value.
func Equal(a, b Value) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		cmp, ordered := CompareFloat(na, nb)
		return ordered && cmp == 0
	}

	switch x := a.(type) {
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Timestamp:
		y, ok := b.(Timestamp)
		return ok && x.Time().Equal(y.Time())
	case Regex:
		y, ok := b.(Regex)
		return ok && x.Regexp != nil && y.Regexp != nil && x.String() == y.String()
	case Null:
		return KindOf(b) == KindNull
	case nil:
		return KindOf(b) == KindNull
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CompareFloat performs three-way comparison (-1/0/1).
// ok is false when either operand is NaN.
func CompareFloat(a, b float64) (cmp int, ok bool) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// asNumbers converts both values to float64 when both are numeric.
// Two integers compare exactly; mixing goes through float64.
func asNumbers(a, b Value) (float64, float64, bool) {
	if ia, ok := a.(Integer); ok {
		if ib, ok := b.(Integer); ok {
			if ia == ib {
				return 0, 0, true
			}
			return 0, 1, true
		}
	}
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

func toFloat64(v Value) (float64, bool) {
	switch n := v.(type) {
	case Float:
		return float64(n), true
	case Integer:
		return float64(n), true
	default:
		return 0, false
	}
}
