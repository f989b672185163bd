// internal/stdlib/timestamp.go
package stdlib

import (
	"fmt"
	"math"
	"time"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// ParseTimestamp parses a string using a Go reference-time layout.
type ParseTimestamp struct{}

func (ParseTimestamp) Identifier() string { return "parse_timestamp" }

func (ParseTimestamp) Summary() string {
	return "Parses the value using a Go reference-time layout (for example \"2006-01-02 15:04:05\"). Timestamps without a zone are UTC."
}

func (ParseTimestamp) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The text of the timestamp."},
		{Keyword: "format", Kind: value.KindBytes, Required: true, Description: "The layout the timestamp is in."},
	}
}

func (ParseTimestamp) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "Parse timestamp",
			Source: `parse_timestamp("10-Oct-2020 16:00:00", format: "02-Jan-2006 15:04:05")`,
			Result: "t'2020-10-10T16:00:00Z'",
		},
		{
			Title:  "Parse timestamp with offset",
			Source: `parse_timestamp("2020-10-10T16:00:00+02:00", format: "2006-01-02T15:04:05Z07:00")`,
			Result: "t'2020-10-10T14:00:00Z'",
		},
		{
			Title:  "Unparsable timestamp",
			Source: `parse_timestamp("yesterday", format: "2006-01-02")`,
			Error:  `malformed input: unable to parse "yesterday" with format "2006-01-02"`,
		},
	}
}

func (ParseTimestamp) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &parseTimestampFn{value: args.Required("value"), format: args.Required("format")}, nil
}

type parseTimestampFn struct {
	value  expr.Expression
	format expr.Expression
}

func (f *parseTimestampFn) Resolve(ctx *expr.Context) (value.Value, error) {
	b, err := resolveBytes(ctx, f.value)
	if err != nil {
		return nil, err
	}
	layout, err := resolveBytes(ctx, f.format)
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(string(layout), string(b))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse %q with format %q", types.ErrMalformedInput, b, layout)
	}
	return value.NewTimestamp(ts), nil
}

func (f *parseTimestampFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Timestamp().Fallible()
}

// Units accepted by to_unix_timestamp.
const (
	unitSeconds      = "seconds"
	unitMilliseconds = "milliseconds"
	unitNanoseconds  = "nanoseconds"
)

// ToUnixTimestamp converts a timestamp to an integer offset from the Unix epoch.
type ToUnixTimestamp struct{}

func (ToUnixTimestamp) Identifier() string { return "to_unix_timestamp" }

func (ToUnixTimestamp) Summary() string {
	return "Converts the timestamp to a Unix timestamp in the given unit. Milliseconds and nanoseconds fail when the result does not fit in 64 bits."
}

func (ToUnixTimestamp) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindTimestamp, Required: true, Description: "The timestamp to convert."},
		{Keyword: "unit", Kind: value.KindBytes, Description: "One of seconds, milliseconds or nanoseconds. Must be a literal. Defaults to seconds."},
	}
}

func (ToUnixTimestamp) Examples() []function.Example {
	return []function.Example{
		{Title: "Convert to seconds", Source: `to_unix_timestamp(t'2021-01-01T00:00:00Z')`, Result: "1609459200"},
		{Title: "Convert to milliseconds", Source: `to_unix_timestamp(t'2021-01-01T00:00:00Z', unit: "milliseconds")`, Result: "1609459200000"},
		{Title: "Convert to nanoseconds", Source: `to_unix_timestamp(t'2021-01-01T00:00:00Z', unit: "nanoseconds")`, Result: "1609459200000000000"},
	}
}

func (ToUnixTimestamp) Compile(_ typedef.TypeState, ctx *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	unit := unitSeconds
	if args.Has("unit") {
		lit, ok := args.Literal("unit")
		if !ok {
			return nil, ctx.Errorf(types.ErrInvalidArgument, "unit", "unit must be a literal")
		}
		unit = string(lit.(value.Bytes))
		switch unit {
		case unitSeconds, unitMilliseconds, unitNanoseconds:
		default:
			return nil, ctx.Errorf(types.ErrInvalidArgument, "unit", "unknown unit %q, expected seconds, milliseconds or nanoseconds", unit)
		}
	}
	return &toUnixTimestampFn{value: args.Required("value"), unit: unit}, nil
}

type toUnixTimestampFn struct {
	value expr.Expression
	unit  string
}

// Representable range of int64 nanoseconds since the epoch.
var (
	minNanoTime = time.Unix(0, math.MinInt64).UTC()
	maxNanoTime = time.Unix(0, math.MaxInt64).UTC()
)

// Representable range of int64 milliseconds since the epoch.
var (
	minMilliTime = time.UnixMilli(math.MinInt64).UTC()
	maxMilliTime = time.UnixMilli(math.MaxInt64).UTC()
)

func (f *toUnixTimestampFn) Resolve(ctx *expr.Context) (value.Value, error) {
	ts, err := resolveTimestamp(ctx, f.value)
	if err != nil {
		return nil, err
	}
	switch f.unit {
	case unitMilliseconds:
		if ts.Before(minMilliTime) || ts.After(maxMilliTime) {
			return nil, fmt.Errorf("%w: %s in milliseconds", types.ErrIntegerOverflow, ts.Format(time.RFC3339Nano))
		}
		return value.Integer(ts.UnixMilli()), nil
	case unitNanoseconds:
		if ts.Before(minNanoTime) || ts.After(maxNanoTime) {
			return nil, fmt.Errorf("%w: %s in nanoseconds", types.ErrIntegerOverflow, ts.Format(time.RFC3339Nano))
		}
		return value.Integer(ts.UnixNano()), nil
	default:
		return value.Integer(ts.Unix()), nil
	}
}

func (f *toUnixTimestampFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Integer().WithFallibility(f.unit != unitSeconds)
}
