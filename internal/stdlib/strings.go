// internal/stdlib/strings.go
package stdlib

import (
	"bytes"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/value"
)

// Upcase converts bytes to upper case (UTF-8 aware).
type Upcase struct{}

func (Upcase) Identifier() string { return "upcase" }

func (Upcase) Summary() string { return "Upcases the value." }

func (Upcase) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The string to convert to uppercase."},
	}
}

func (Upcase) Examples() []function.Example {
	return []function.Example{
		{Title: "Upcase a string", Source: `upcase("Hello, World!")`, Result: `"HELLO, WORLD!"`},
	}
}

func (Upcase) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &caseFn{value: args.Required("value"), convert: bytes.ToUpper}, nil
}

// Downcase converts bytes to lower case (UTF-8 aware).
type Downcase struct{}

func (Downcase) Identifier() string { return "downcase" }

func (Downcase) Summary() string { return "Downcases the value." }

func (Downcase) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The string to convert to lowercase."},
	}
}

func (Downcase) Examples() []function.Example {
	return []function.Example{
		{Title: "Downcase a string", Source: `downcase("Hello, World!")`, Result: `"hello, world!"`},
	}
}

func (Downcase) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &caseFn{value: args.Required("value"), convert: bytes.ToLower}, nil
}

type caseFn struct {
	value   expr.Expression
	convert func([]byte) []byte
}

func (f *caseFn) Resolve(ctx *expr.Context) (value.Value, error) {
	b, err := resolveBytes(ctx, f.value)
	if err != nil {
		return nil, err
	}
	return value.Bytes(f.convert(b)), nil
}

func (f *caseFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Bytes()
}

// Length counts bytes, array elements or top-level object keys.
type Length struct{}

func (Length) Identifier() string { return "length" }

func (Length) Summary() string {
	return "Returns the number of bytes in a string, elements in an array, or top-level keys in an object."
}

func (Length) Parameters() []function.Parameter {
	return []function.Parameter{
		{
			Keyword:     "value",
			Kind:        value.KindBytes | value.KindArray | value.KindObject,
			Required:    true,
			Description: "The string, array or object to measure.",
		},
	}
}

func (Length) Examples() []function.Example {
	return []function.Example{
		{Title: "Length of a string", Source: `length("foobar")`, Result: "6"},
		{Title: "Length of an array", Source: `length([1, 2, "three"])`, Result: "3"},
		{Title: "Length of an object", Source: `length({"a": 1, "b": {"c": 2}})`, Result: "2"},
	}
}

func (Length) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &lengthFn{value: args.Required("value")}, nil
}

type lengthFn struct {
	value expr.Expression
}

func (f *lengthFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case value.Bytes:
		return value.Integer(len(v)), nil
	case value.Array:
		return value.Integer(len(v)), nil
	case value.Object:
		return value.Integer(len(v)), nil
	}
	return nil, &value.ConversionError{
		Expected: value.KindBytes | value.KindArray | value.KindObject,
		Actual:   value.KindOf(v),
	}
}

func (f *lengthFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Integer()
}
