// internal/stdlib/numeric.go
package stdlib

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Integer functions and their overflow policies.
 *
 *   parse_int  error (types.ErrIntegerOverflow) when the text is outside int64
 *   mod        error on a zero modulus; MinInt64 mod -1 is 0, never a trap
 *   abs        error on abs(MinInt64), which has no int64 result
 *
 * No integer function wraps silently.
 */

// ParseInt parses a string as a signed integer.
type ParseInt struct{}

func (ParseInt) Identifier() string { return "parse_int" }

func (ParseInt) Summary() string {
	return "Parses the string as a signed integer. Without a base the prefix decides: 0b binary, 0o octal, 0x hexadecimal, otherwise decimal."
}

func (ParseInt) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The string to parse."},
		{Keyword: "base", Kind: value.KindInteger, Description: "The base, between 2 and 36. Must be a literal."},
	}
}

func (ParseInt) Examples() []function.Example {
	return []function.Example{
		{Title: "Parse decimal", Source: `parse_int("-42")`, Result: "-42"},
		{Title: "Parse with prefix", Source: `parse_int("0x2A")`, Result: "42"},
		{Title: "Parse with explicit base", Source: `parse_int("2a", base: 16)`, Result: "42"},
		{Title: "Invalid input", Source: `parse_int("abc")`, Error: `malformed input: could not parse "abc" as a base 10 integer`},
		{Title: "Out of range", Source: `parse_int("9223372036854775808")`, Error: `integer overflow: "9223372036854775808" does not fit in 64 bits`},
	}
}

func (ParseInt) Compile(_ typedef.TypeState, ctx *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	base := 0
	if args.Has("base") {
		lit, ok := args.Literal("base")
		if !ok {
			return nil, ctx.Errorf(types.ErrInvalidArgument, "base", "base must be a literal")
		}
		n := int64(lit.(value.Integer))
		if n < 2 || n > 36 {
			return nil, ctx.Errorf(types.ErrInvalidArgument, "base", "base must be between 2 and 36, got %d", n)
		}
		base = int(n)
	}
	return &parseIntFn{value: args.Required("value"), base: base}, nil
}

type parseIntFn struct {
	value expr.Expression
	base  int // 0 means detect from prefix
}

func (f *parseIntFn) Resolve(ctx *expr.Context) (value.Value, error) {
	b, err := resolveBytes(ctx, f.value)
	if err != nil {
		return nil, err
	}
	n, err := parseInt(string(b), f.base)
	if err != nil {
		return nil, err
	}
	return value.Integer(n), nil
}

func (f *parseIntFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Integer().Fallible()
}

func parseInt(s string, base int) (int64, error) {
	digits := s
	if base == 0 {
		base = 10
		sign := ""
		if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
			sign, digits = digits[:1], digits[1:]
		}
		lower := strings.ToLower(digits)
		switch {
		case strings.HasPrefix(lower, "0b"):
			base, digits = 2, digits[2:]
		case strings.HasPrefix(lower, "0o"):
			base, digits = 8, digits[2:]
		case strings.HasPrefix(lower, "0x"):
			base, digits = 16, digits[2:]
		}
		digits = sign + digits
	}

	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q does not fit in 64 bits", types.ErrIntegerOverflow, s)
		}
		return 0, fmt.Errorf("%w: could not parse %q as a base %d integer", types.ErrMalformedInput, s, base)
	}
	return n, nil
}

// Mod is the remainder of integer division, with the sign of the dividend.
type Mod struct{}

func (Mod) Identifier() string { return "mod" }

func (Mod) Summary() string {
	return "Calculates the remainder of value divided by modulus. Fails on a zero modulus unless the modulus is a non-zero literal."
}

func (Mod) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindInteger, Required: true, Description: "The dividend."},
		{Keyword: "modulus", Kind: value.KindInteger, Required: true, Description: "The divisor."},
	}
}

func (Mod) Examples() []function.Example {
	return []function.Example{
		{Title: "Remainder", Source: `mod(5, 2)`, Result: "1"},
		{Title: "Negative dividend", Source: `mod(-7, modulus: 3)`, Result: "-1"},
		{Title: "Most negative value", Source: `mod(-9223372036854775808, -1)`, Result: "0"},
		{Title: "Zero modulus", Source: `mod(5, 0)`, Error: "division by zero"},
	}
}

func (Mod) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	fallible := true
	if lit, ok := args.Literal("modulus"); ok && lit.(value.Integer) != 0 {
		fallible = false
	}
	return &modFn{
		value:   args.Required("value"),
		modulus: args.Required("modulus"),
		def:     typedef.Integer().WithFallibility(fallible),
	}, nil
}

type modFn struct {
	value   expr.Expression
	modulus expr.Expression
	def     typedef.TypeDef
}

func (f *modFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := resolveInteger(ctx, f.value)
	if err != nil {
		return nil, err
	}
	m, err := resolveInteger(ctx, f.modulus)
	if err != nil {
		return nil, err
	}
	if m == 0 {
		return nil, types.ErrDivisionByZero
	}
	if m == -1 {
		return value.Integer(0), nil
	}
	return value.Integer(v % m), nil
}

func (f *modFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return f.def
}

// Abs returns the absolute value of an integer or float.
type Abs struct{}

func (Abs) Identifier() string { return "abs" }

func (Abs) Summary() string {
	return "Computes the absolute value. Fails for the most negative integer, whose absolute value does not fit in 64 bits."
}

func (Abs) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindNumeric, Required: true, Description: "The number to calculate the absolute value of."},
	}
}

func (Abs) Examples() []function.Example {
	return []function.Example{
		{Title: "Integer", Source: `abs(-42)`, Result: "42"},
		{Title: "Float", Source: `abs(-1.5)`, Result: "1.5"},
		{Title: "Most negative integer", Source: `abs(-9223372036854775808)`, Error: "integer overflow: abs(-9223372036854775808)"},
	}
}

func (Abs) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	argDef, _ := args.TypeDef("value")
	kind := argDef.Kind()
	return &absFn{
		value: args.Required("value"),
		def:   typedef.New(kind).WithFallibility(kind.Contains(value.KindInteger)),
	}, nil
}

type absFn struct {
	value expr.Expression
	def   typedef.TypeDef
}

func (f *absFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case value.Integer:
		if n == math.MinInt64 {
			return nil, fmt.Errorf("%w: abs(%d)", types.ErrIntegerOverflow, int64(n))
		}
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case value.Float:
		return value.Float(math.Abs(float64(n))), nil
	}
	return nil, &value.ConversionError{Expected: value.KindNumeric, Actual: value.KindOf(v)}
}

func (f *absFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return f.def
}
