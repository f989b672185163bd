// internal/value/convert.go
package value

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

/*
 * Narrowing accessors.
 *
 * Each TryX either returns the inner data of the expected variant or a
 * *ConversionError naming expected vs. actual kind. This is the only place
 * a runtime type mismatch can surface: a sound static check prevents it for
 * well-typed programs, but built-ins still narrow through these accessors
 * so a mismatch is reported, never a panic.
 */

// ErrConversion is matched by every *ConversionError via errors.Is.
var ErrConversion = errors.New("value conversion failed")

// ConversionError reports a failed narrowing of a Value to an expected kind.
type ConversionError struct {
	Expected Kind
	Actual   Kind
}

// Error implements error.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrConversion) true for any ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func conversionError(expected Kind, v Value) error {
	return &ConversionError{Expected: expected, Actual: KindOf(v)}
}

// TryBytes narrows v to a byte slice.
func TryBytes(v Value) ([]byte, error) {
	if b, ok := v.(Bytes); ok {
		return []byte(b), nil
	}
	return nil, conversionError(KindBytes, v)
}

// TryInteger narrows v to an int64.
func TryInteger(v Value) (int64, error) {
	if i, ok := v.(Integer); ok {
		return int64(i), nil
	}
	return 0, conversionError(KindInteger, v)
}

// TryFloat narrows v to a float64.
func TryFloat(v Value) (float64, error) {
	if f, ok := v.(Float); ok {
		return float64(f), nil
	}
	return 0, conversionError(KindFloat, v)
}

// TryBoolean narrows v to a bool.
func TryBoolean(v Value) (bool, error) {
	if b, ok := v.(Boolean); ok {
		return bool(b), nil
	}
	return false, conversionError(KindBoolean, v)
}

// TryTimestamp narrows v to a time.Time.
func TryTimestamp(v Value) (time.Time, error) {
	if t, ok := v.(Timestamp); ok {
		return t.Time(), nil
	}
	return time.Time{}, conversionError(KindTimestamp, v)
}

// TryRegex narrows v to a compiled regexp.
func TryRegex(v Value) (*regexp.Regexp, error) {
	if r, ok := v.(Regex); ok && r.Regexp != nil {
		return r.Regexp, nil
	}
	return nil, conversionError(KindRegex, v)
}

// TryArray narrows v to an Array. The result must not be mutated.
func TryArray(v Value) (Array, error) {
	if a, ok := v.(Array); ok {
		return a, nil
	}
	return nil, conversionError(KindArray, v)
}

// TryObject narrows v to an Object. The result must not be mutated.
func TryObject(v Value) (Object, error) {
	if o, ok := v.(Object); ok {
		return o, nil
	}
	return nil, conversionError(KindObject, v)
}
