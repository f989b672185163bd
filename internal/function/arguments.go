// internal/function/arguments.go
package function

import (
	"fmt"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Argument binding.
 *
 * Positional arguments bind to parameters in declaration order; keyword
 * arguments bind by name. Once a keyword argument appears, positional ones
 * are rejected. Binding checks, in order:
 *   1. positional after keyword
 *   2. too many positional arguments
 *   3. unknown keyword
 *   4. a parameter bound twice
 *   5. argument kind not a subset of the parameter kind
 *   6. missing required parameters (in declaration order)
 *
 * The first failure aborts binding with a CompileError; no partial list is
 * returned.
 */

// CallArgument is one compiled call-site argument before binding.
type CallArgument struct {
	Keyword string // empty for positional
	Expr    expr.Expression
	TypeDef typedef.TypeDef
	Span    types.Span
}

// Argument is an argument bound to its parameter.
type Argument struct {
	Parameter Parameter
	Expr      expr.Expression
	TypeDef   typedef.TypeDef
	Span      types.Span
}

// ArgumentList is the binding for one call site.
type ArgumentList struct {
	args map[string]Argument
}

// Bind validates call-site arguments against fn's parameters.
func Bind(fn Function, span types.Span, args []CallArgument) (*ArgumentList, error) {
	params := fn.Parameters()
	ident := fn.Identifier()
	bound := make(map[string]Argument, len(args))

	fail := func(cause error, at types.Span, param, format string, a ...any) error {
		return &types.CompileError{
			Span:      at,
			Function:  ident,
			Parameter: param,
			Message:   fmt.Sprintf(format, a...),
			Cause:     cause,
		}
	}

	sawKeyword := false
	for i, arg := range args {
		var param Parameter
		if arg.Keyword == "" {
			if sawKeyword {
				return nil, fail(types.ErrPositionalAfterKeyword, arg.Span, "", "argument %d", i+1)
			}
			if i >= len(params) {
				return nil, fail(types.ErrTooManyArguments, arg.Span, "", "%s accepts at most %d", ident, len(params))
			}
			param = params[i]
		} else {
			sawKeyword = true
			p, ok := lookupParameter(params, arg.Keyword)
			if !ok {
				return nil, fail(types.ErrUnknownArgument, arg.Span, arg.Keyword, "%q", arg.Keyword)
			}
			param = p
		}

		if _, dup := bound[param.Keyword]; dup {
			return nil, fail(types.ErrDuplicateArgument, arg.Span, param.Keyword, "%q", param.Keyword)
		}

		if !arg.TypeDef.Kind().IsSubsetOf(param.Kind) {
			return nil, &types.CompileError{
				Span:      arg.Span,
				Function:  ident,
				Parameter: param.Keyword,
				Expected:  param.Kind.String(),
				Actual:    arg.TypeDef.Kind().String(),
				Message:   fmt.Sprintf("argument %q", param.Keyword),
				Cause:     types.ErrArgumentKind,
			}
		}

		bound[param.Keyword] = Argument{
			Parameter: param,
			Expr:      arg.Expr,
			TypeDef:   arg.TypeDef,
			Span:      arg.Span,
		}
	}

	for _, p := range params {
		if !p.Required {
			continue
		}
		if _, ok := bound[p.Keyword]; !ok {
			return nil, fail(types.ErrMissingArgument, span, p.Keyword, "%q", p.Keyword)
		}
	}

	return &ArgumentList{args: bound}, nil
}

func lookupParameter(params []Parameter, keyword string) (Parameter, bool) {
	for _, p := range params {
		if p.Keyword == keyword {
			return p, true
		}
	}
	return Parameter{}, false
}

// Required returns the expression bound to a required parameter.
// Bind guarantees presence; a nil result means keyword is not a required
// parameter of this function.
func (a *ArgumentList) Required(keyword string) expr.Expression {
	return a.args[keyword].Expr
}

// Optional returns the expression bound to keyword, or nil when omitted.
func (a *ArgumentList) Optional(keyword string) expr.Expression {
	arg, ok := a.args[keyword]
	if !ok {
		return nil
	}
	return arg.Expr
}

// Literal returns the constant value of keyword when it was given as a literal.
func (a *ArgumentList) Literal(keyword string) (value.Value, bool) {
	arg, ok := a.args[keyword]
	if !ok {
		return nil, false
	}
	lit, ok := arg.Expr.(*expr.Literal)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}

// TypeDef returns the TypeDef of the argument bound to keyword.
func (a *ArgumentList) TypeDef(keyword string) (typedef.TypeDef, bool) {
	arg, ok := a.args[keyword]
	return arg.TypeDef, ok
}

// Span returns the source span of the argument bound to keyword.
func (a *ArgumentList) Span(keyword string) types.Span {
	return a.args[keyword].Span
}

// Has reports whether keyword was supplied.
func (a *ArgumentList) Has(keyword string) bool {
	_, ok := a.args[keyword]
	return ok
}

// Len returns the number of bound arguments.
func (a *ArgumentList) Len() int {
	return len(a.args)
}

// AnyFallible reports whether any bound argument may fail.
func (a *ArgumentList) AnyFallible() bool {
	for _, arg := range a.args {
		if arg.TypeDef.IsFallible() {
			return true
		}
	}
	return false
}
