// internal/expr/call.go
package expr

import (
	"errors"
	"fmt"

	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Function call wrapper.
 *
 * The compiler wraps every compiled function node in a FunctionCall carrying
 * the TypeDef proven at compile time. FunctionCall is where the soundness
 * contract is enforced: a node declared infallible that returns an error, or
 * any node returning a value outside its declared kinds, yields an Error
 * wrapping types.ErrUnsoundTypeDef and is logged at error level. Such
 * results never pass through as ordinary values or ordinary failures.
 *
 * Errors returned by a fallible node are attributed to this call (function
 * identifier plus span) unless they already carry a location from a nested
 * call.
 */

// FunctionCall is a compiled call to a registered function.
type FunctionCall struct {
	Ident    string
	Span     types.Span
	Node     Expression
	declared typedef.TypeDef
}

// NewFunctionCall wraps node with its proven TypeDef.
func NewFunctionCall(ident string, span types.Span, node Expression, declared typedef.TypeDef) *FunctionCall {
	return &FunctionCall{Ident: ident, Span: span, Node: node, declared: declared}
}

func (f *FunctionCall) Resolve(ctx *Context) (value.Value, error) {
	v, err := f.Node.Resolve(ctx)
	if err != nil {
		if !f.declared.IsFallible() {
			return nil, f.unsound(ctx, fmt.Errorf("%w: infallible function failed: %v", types.ErrUnsoundTypeDef, err))
		}
		var located *Error
		if errors.As(err, &located) {
			return nil, located
		}
		return nil, &Error{Function: f.Ident, Span: f.Span, Err: err}
	}

	if !f.declared.Contains(v) {
		return nil, f.unsound(ctx, fmt.Errorf("%w: produced %s, declared %s",
			types.ErrUnsoundTypeDef, value.KindOf(v), f.declared.Kind()))
	}
	return v, nil
}

func (f *FunctionCall) TypeDef(typedef.TypeState) typedef.TypeDef {
	return f.declared
}

func (f *FunctionCall) unsound(ctx *Context, err error) error {
	ctx.Logger().Error("type definition violated",
		"function", f.Ident,
		"span", f.Span.String(),
		"declared", f.declared.String(),
		"error", err,
	)
	return &Error{Function: f.Ident, Span: f.Span, Err: err}
}
