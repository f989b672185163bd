// internal/stdlib/stdlib.go

// Package stdlib is the built-in function catalog.
package stdlib

import (
	"time"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/value"
)

/*
 * Every built-in follows the same four-part shape:
 *   1. a pure function over already unwrapped arguments
 *   2. a definition type (identifier, parameters, examples, Compile)
 *   3. an execution node holding the compiled arguments; Resolve unwraps
 *      them and delegates to (1)
 *   4. the node's TypeDef, computed in Compile from the bound argument
 *      TypeDefs and stored, so it always states exactly what was proven
 *
 * Nodes unwrap arguments with the value.Try* accessors even where the type
 * checker already guarantees the kind; a mismatch then surfaces as an error
 * that expr.FunctionCall reports as a soundness violation.
 */

// All returns the full catalog.
func All() []function.Function {
	return []function.Function{
		Abs{},
		Downcase{},
		EncodeJSON{},
		GetEnrichmentTableRecord{},
		Int{},
		Length{},
		Match{},
		Mod{},
		ParseInt{},
		ParseJSON{},
		ParseTimestamp{},
		Seahash{},
		String{},
		ToUnixTimestamp{},
		Upcase{},
	}
}

// NewRegistry returns a registry over All.
func NewRegistry() (*function.Registry, error) {
	return function.NewRegistry(All()...)
}

func resolveBytes(ctx *expr.Context, e expr.Expression) ([]byte, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return value.TryBytes(v)
}

func resolveInteger(ctx *expr.Context, e expr.Expression) (int64, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	return value.TryInteger(v)
}

func resolveTimestamp(ctx *expr.Context, e expr.Expression) (time.Time, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return value.TryTimestamp(v)
}
