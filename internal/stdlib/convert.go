// internal/stdlib/convert.go
package stdlib

import (
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/value"
)

/*
 * Type assertions.
 *
 * string and int narrow an argument of unknown kind to one kind, failing at
 * runtime on anything else. They are the way to feed event fields (which
 * the checker only knows as any) into functions with strict parameters:
 *
 *   .id = seahash(string(.message) ?? "")
 *
 * When the argument is already proven to have the asserted kind the call is
 * infallible.
 */

// String asserts that its argument is bytes.
type String struct{}

func (String) Identifier() string { return "string" }

func (String) Summary() string {
	return "Returns the value if it is a string, otherwise fails."
}

func (String) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindAny, Required: true, Description: "The value to check."},
	}
}

func (String) Examples() []function.Example {
	return []function.Example{
		{Title: "Valid string", Source: `string("foobar")`, Result: `"foobar"`},
		{Title: "Invalid string", Source: `string(42)`, Error: "expected bytes, got integer"},
	}
}

func (String) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return newAssertFn(args, value.KindBytes), nil
}

// Int asserts that its argument is an integer.
type Int struct{}

func (Int) Identifier() string { return "int" }

func (Int) Summary() string {
	return "Returns the value if it is an integer, otherwise fails."
}

func (Int) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindAny, Required: true, Description: "The value to check."},
	}
}

func (Int) Examples() []function.Example {
	return []function.Example{
		{Title: "Valid integer", Source: `int(42)`, Result: "42"},
		{Title: "Invalid integer", Source: `int("42")`, Error: "expected integer, got bytes"},
	}
}

func (Int) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return newAssertFn(args, value.KindInteger), nil
}

type assertFn struct {
	value expr.Expression
	kind  value.Kind
	def   typedef.TypeDef
}

func newAssertFn(args *function.ArgumentList, kind value.Kind) *assertFn {
	argDef, _ := args.TypeDef("value")
	return &assertFn{
		value: args.Required("value"),
		kind:  kind,
		def:   typedef.New(kind).WithFallibility(!argDef.Kind().IsSubsetOf(kind)),
	}
}

func (f *assertFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if actual := value.KindOf(v); actual != f.kind {
		return nil, &value.ConversionError{Expected: f.kind, Actual: actual}
	}
	return v, nil
}

func (f *assertFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return f.def
}
