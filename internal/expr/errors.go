// internal/expr/errors.go
package expr

import (
	"fmt"

	"github.com/solatis/remap/internal/types"
)

// Error is a runtime expression failure. It is always returned as a value;
// resolution never panics on bad input.
type Error struct {
	Function string // function identifier, empty for non-call nodes
	Span     types.Span
	Err      error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("function call error for %q at (%s): %v", e.Function, e.Span, e.Err)
	}
	return fmt.Sprintf("error at (%s): %v", e.Span, e.Err)
}

// Message returns the cause text without location.
func (e *Error) Message() string {
	return e.Err.Error()
}

// Unwrap exposes the cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
