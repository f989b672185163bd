// internal/stdlib/seahash.go
package stdlib

import (
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/hash/seahash"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/value"
)

// seahashOf reinterprets the unsigned hash as a signed integer; values above
// MaxInt64 wrap to negative.
func seahashOf(b []byte) value.Value {
	return value.Integer(int64(seahash.Sum64(b)))
}

// Seahash computes a non-cryptographic hash of its bytes argument.
type Seahash struct{}

func (Seahash) Identifier() string { return "seahash" }

func (Seahash) Summary() string {
	return "Calculates a Seahash hash of the value. The 64-bit unsigned hash is returned as a signed integer."
}

func (Seahash) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The string to calculate the hash for."},
	}
}

func (Seahash) Examples() []function.Example {
	return []function.Example{
		{Title: "Calculate seahash", Source: `seahash("foobar")`, Result: "5348458858952426560"},
		{Title: "Calculate negative seahash", Source: `seahash("bar")`, Result: "-2796170501982571315"},
	}
}

func (Seahash) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &seahashFn{value: args.Required("value")}, nil
}

type seahashFn struct {
	value expr.Expression
}

func (f *seahashFn) Resolve(ctx *expr.Context) (value.Value, error) {
	b, err := resolveBytes(ctx, f.value)
	if err != nil {
		return nil, err
	}
	return seahashOf(b), nil
}

func (f *seahashFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Integer()
}
