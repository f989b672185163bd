// internal/function/function.go

// Package function defines the contract every built-in implements and the
// registry that dispatches calls by identifier.
package function

import (
	"fmt"
	"log/slog"

	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Function contract.
 *
 * A Function has two roles. At compile time it describes itself
 * (identifier, parameters, examples) and its Compile step turns a bound
 * ArgumentList into an expr.Expression. That expression is the execution
 * role: it resolves against a Context and reports its TypeDef.
 *
 * The framework runs Bind before Compile, so Compile only ever sees
 * arguments whose kinds fit their parameters and every required parameter
 * present. Compile adds function-specific checks (literal-only arguments,
 * value ranges) through CompileContext.Errorf.
 */

// Function is implemented by every callable operation.
type Function interface {
	Identifier() string
	Summary() string
	Parameters() []Parameter
	Examples() []Example
	Compile(state typedef.TypeState, ctx *CompileContext, args *ArgumentList) (expr.Expression, error)
}

// Parameter describes one argument slot.
type Parameter struct {
	Keyword     string
	Kind        value.Kind
	Required    bool
	Description string
}

// Example is a documented usage that doubles as a conformance case.
// Exactly one of Result (rendered value) and Error (error message) is set.
type Example struct {
	Title  string
	Source string
	Result string
	Error  string
}

// CompileContext is handed to Compile for one call site.
type CompileContext struct {
	Span     types.Span
	Function string
	Tables   *enrichment.Tables // snapshot known at compile time, may be nil
	Logger   *slog.Logger
}

// Errorf builds a CompileError for a function-specific check on param.
func (c *CompileContext) Errorf(cause error, param string, format string, args ...any) *types.CompileError {
	return &types.CompileError{
		Span:      c.Span,
		Function:  c.Function,
		Parameter: param,
		Message:   fmt.Sprintf(format, args...),
		Cause:     cause,
	}
}
