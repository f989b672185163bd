package value

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testTime = time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC)

func mustRegex(t *testing.T, pattern string) Value {
	t.Helper()
	re, err := NewRegex(pattern)
	if err != nil {
		t.Fatalf("NewRegex(%q) error = %v", pattern, err)
	}
	return re
}

func TestTryAccessors(t *testing.T) {
	if b, err := TryBytes(Bytes("foo")); err != nil || string(b) != "foo" {
		t.Errorf("TryBytes() = %q, %v, want foo, nil", b, err)
	}
	if i, err := TryInteger(Integer(-3)); err != nil || i != -3 {
		t.Errorf("TryInteger() = %v, %v, want -3, nil", i, err)
	}
	if f, err := TryFloat(Float(2.5)); err != nil || f != 2.5 {
		t.Errorf("TryFloat() = %v, %v, want 2.5, nil", f, err)
	}
	if b, err := TryBoolean(Boolean(true)); err != nil || !b {
		t.Errorf("TryBoolean() = %v, %v, want true, nil", b, err)
	}
	if ts, err := TryTimestamp(NewTimestamp(testTime)); err != nil || !ts.Equal(testTime) {
		t.Errorf("TryTimestamp() = %v, %v, want %v", ts, err, testTime)
	}
	if re, err := TryRegex(mustRegex(t, "^a")); err != nil || !re.MatchString("abc") {
		t.Errorf("TryRegex() = %v, %v", re, err)
	}
	if a, err := TryArray(Array{Integer(1)}); err != nil || len(a) != 1 {
		t.Errorf("TryArray() = %v, %v", a, err)
	}
	if o, err := TryObject(Object{"a": Null{}}); err != nil || len(o) != 1 {
		t.Errorf("TryObject() = %v, %v", o, err)
	}
}

func TestTryAccessors_ConversionError(t *testing.T) {
	tests := []struct {
		name     string
		try      func() error
		expected Kind
		actual   Kind
	}{
		{
			name:     "bytes from integer",
			try:      func() error { _, err := TryBytes(Integer(1)); return err },
			expected: KindBytes,
			actual:   KindInteger,
		},
		{
			name:     "integer from float",
			try:      func() error { _, err := TryInteger(Float(1)); return err },
			expected: KindInteger,
			actual:   KindFloat,
		},
		{
			name:     "boolean from nil",
			try:      func() error { _, err := TryBoolean(nil); return err },
			expected: KindBoolean,
			actual:   KindNull,
		},
		{
			name:     "object from array",
			try:      func() error { _, err := TryObject(Array{}); return err },
			expected: KindObject,
			actual:   KindArray,
		},
		{
			name:     "regex from zero regex",
			try:      func() error { _, err := TryRegex(Regex{}); return err },
			expected: KindRegex,
			actual:   KindRegex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.try()
			if !errors.Is(err, ErrConversion) {
				t.Fatalf("error = %v, want ErrConversion", err)
			}
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("error = %T, want *ConversionError", err)
			}
			if convErr.Expected != tt.expected || convErr.Actual != tt.actual {
				t.Errorf("ConversionError = {%v, %v}, want {%v, %v}", convErr.Expected, convErr.Actual, tt.expected, tt.actual)
			}
		})
	}
}

func TestConversionError_Message(t *testing.T) {
	_, err := TryBytes(Boolean(true))
	if got, want := err.Error(), "expected bytes, got boolean"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "bytes", value: Bytes("foo"), want: `"foo"`},
		{name: "bytes with quote", value: Bytes(`a"b`), want: `"a\"b"`},
		{name: "integer", value: Integer(-2796170501982571315), want: "-2796170501982571315"},
		{name: "float", value: Float(1.5), want: "1.5"},
		{name: "integral float", value: Float(2), want: "2.0"},
		{name: "nan", value: Float(math.NaN()), want: "NaN"},
		{name: "negative infinity", value: Float(math.Inf(-1)), want: "-Infinity"},
		{name: "boolean", value: Boolean(false), want: "false"},
		{name: "timestamp", value: NewTimestamp(testTime), want: "t'2021-02-03T04:05:06Z'"},
		{name: "regex", value: mustRegex(t, "^a+$"), want: "r'^a+$'"},
		{name: "null", value: Null{}, want: "null"},
		{name: "nil", value: nil, want: "null"},
		{name: "array", value: Array{Integer(1), Bytes("x")}, want: `[1, "x"]`},
		{name: "empty array", value: Array{}, want: "[]"},
		{name: "object sorted", value: Object{"b": Integer(2), "a": Integer(1)}, want: `{ "a": 1, "b": 2 }`},
		{name: "empty object", value: Object{}, want: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.value); got != tt.want {
				t.Errorf("Render() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromJSON(t *testing.T) {
	v, err := FromJSON([]byte(`{"n": 12, "f": 1.5, "big": 18446744073709551615, "s": "x", "b": true, "z": null, "a": [1]}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	obj, err := TryObject(v)
	if err != nil {
		t.Fatalf("TryObject() error = %v", err)
	}

	checks := map[string]Value{
		"n":   Integer(12),
		"f":   Float(1.5),
		"big": Float(18446744073709551615),
		"s":   Bytes("x"),
		"b":   Boolean(true),
		"z":   Null{},
		"a":   Array{Integer(1)},
	}
	for key, want := range checks {
		got := obj[key]
		if got == nil || got.Kind() != want.Kind() || !Equal(got, want) {
			t.Errorf("FromJSON()[%q] = %v, want %v", key, Render(got), Render(want))
		}
	}
}

func TestFromJSON_Errors(t *testing.T) {
	if _, err := FromJSON([]byte(`{"a":`)); err == nil {
		t.Error("FromJSON() expected error for truncated JSON")
	}
	if _, err := FromJSON([]byte(`1 2`)); !errors.Is(err, ErrTrailingData) {
		t.Errorf("FromJSON() error = %v, want ErrTrailingData", err)
	}
}

func TestEncodeJSON(t *testing.T) {
	v := Object{
		"b":  Bytes("<x>"),
		"a":  Integer(1),
		"ts": NewTimestamp(testTime),
		"f":  Float(math.NaN()),
		"l":  Array{Boolean(true), Null{}},
	}
	got := string(EncodeJSON(v))
	want := `{"a":1,"b":"<x>","f":null,"l":[true,null],"ts":"2021-02-03T04:05:06Z"}`
	if got != want {
		t.Errorf("EncodeJSON() = %s, want %s", got, want)
	}
}

func TestFromAny_ToAny(t *testing.T) {
	in := map[string]any{
		"i":  int(3),
		"u":  uint64(math.MaxUint64),
		"t":  testTime,
		"bs": []byte("raw"),
	}
	obj, err := TryObject(FromAny(in))
	if err != nil {
		t.Fatalf("TryObject() error = %v", err)
	}
	if obj["i"].Kind() != KindInteger {
		t.Errorf("int kind = %v, want integer", obj["i"].Kind())
	}
	if obj["u"].Kind() != KindFloat {
		t.Errorf("uint64 overflow kind = %v, want float", obj["u"].Kind())
	}
	if obj["t"].Kind() != KindTimestamp {
		t.Errorf("time kind = %v, want timestamp", obj["t"].Kind())
	}
	if s, ok := ToAny(obj["bs"]).(string); !ok || s != "raw" {
		t.Errorf("ToAny(bytes) = %v, want raw", ToAny(obj["bs"]))
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "integer and float", a: Integer(1), b: Float(1.0), want: true},
		{name: "large integers exact", a: Integer(math.MaxInt64), b: Integer(math.MaxInt64 - 1), want: false},
		{name: "nan", a: Float(math.NaN()), b: Float(math.NaN()), want: false},
		{name: "nan vs integer", a: Float(math.NaN()), b: Integer(0), want: false},
		{name: "infinities", a: Float(math.Inf(1)), b: Float(math.Inf(1)), want: true},
		{name: "bytes", a: Bytes("a"), b: Bytes("a"), want: true},
		{name: "bytes vs integer", a: Bytes("1"), b: Integer(1), want: false},
		{name: "null vs nil", a: Null{}, b: nil, want: true},
		{name: "arrays", a: Array{Integer(1), Bytes("x")}, b: Array{Float(1), Bytes("x")}, want: true},
		{name: "array length", a: Array{Integer(1)}, b: Array{}, want: false},
		{name: "objects", a: Object{"a": Boolean(true)}, b: Object{"a": Boolean(true)}, want: true},
		{name: "object keys", a: Object{"a": Null{}}, b: Object{"b": Null{}}, want: false},
		{name: "timestamps", a: NewTimestamp(testTime), b: NewTimestamp(testTime.In(time.FixedZone("x", 3600))), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareFloat(t *testing.T) {
	if cmp, ok := CompareFloat(1, 2); !ok || cmp != -1 {
		t.Errorf("CompareFloat(1, 2) = %v, %v, want -1, true", cmp, ok)
	}
	if cmp, ok := CompareFloat(math.Inf(1), 2); !ok || cmp != 1 {
		t.Errorf("CompareFloat(+Inf, 2) = %v, %v, want 1, true", cmp, ok)
	}
	if _, ok := CompareFloat(math.NaN(), 2); ok {
		t.Error("CompareFloat(NaN, 2) ok = true, want false")
	}
}
