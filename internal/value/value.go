// Package value implements the runtime data model of the remap language.
//
// Value is a sealed interface over nine variants. Values are immutable once
// constructed: composite values own their elements, and writers must go
// through Set, which copies containers along the written path.
package value

import (
	"regexp"
	"time"
)

// Value is a runtime datum. Implementations are restricted to this package.
type Value interface {
	// Kind returns the single-bit kind of this value.
	Kind() Kind
	value() // sealed marker
}

// Bytes is a byte string. Event strings are stored as Bytes.
type Bytes []byte

// Integer is a 64-bit signed integer.
type Integer int64

// Float is a 64-bit IEEE-754 float.
type Float float64

// Boolean is true or false.
type Boolean bool

// Timestamp is a point in time.
type Timestamp time.Time

// Regex is a compiled regular expression.
type Regex struct {
	*regexp.Regexp
}

// Null is the absent value.
type Null struct{}

// Array is an ordered sequence of values.
type Array []Value

// Object maps string keys to values. Key order is not significant.
type Object map[string]Value

func (Bytes) Kind() Kind     { return KindBytes }
func (Integer) Kind() Kind   { return KindInteger }
func (Float) Kind() Kind     { return KindFloat }
func (Boolean) Kind() Kind   { return KindBoolean }
func (Timestamp) Kind() Kind { return KindTimestamp }
func (Regex) Kind() Kind     { return KindRegex }
func (Null) Kind() Kind      { return KindNull }
func (Array) Kind() Kind     { return KindArray }
func (Object) Kind() Kind    { return KindObject }

func (Bytes) value()     {}
func (Integer) value()   {}
func (Float) value()     {}
func (Boolean) value()   {}
func (Timestamp) value() {}
func (Regex) value()     {}
func (Null) value()      {}
func (Array) value()     {}
func (Object) value()    {}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// NewBytes creates a Bytes value from a string.
func NewBytes(s string) Value {
	return Bytes(s)
}

// NewTimestamp creates a Timestamp value normalized to UTC.
func NewTimestamp(t time.Time) Value {
	return Timestamp(t.UTC())
}

// NewRegex compiles pattern into a Regex value.
func NewRegex(pattern string) (Value, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return Regex{re}, nil
}

// KindOf returns the kind of v, treating a nil interface as Null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
