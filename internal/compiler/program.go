// internal/compiler/program.go
package compiler

import (
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// Program is a compiled, immutable program. It is safe for concurrent use;
// each Resolve call gets its own Context.
type Program struct {
	ID     types.ProgramID
	Source string

	root  expr.Expression
	def   typedef.TypeDef
	state typedef.TypeState
}

// Resolve runs the program against ctx and returns the value of the last
// expression. The transformed event is ctx.Target().
func (p *Program) Resolve(ctx *expr.Context) (value.Value, error) {
	return p.root.Resolve(ctx)
}

// TypeDef returns the proven TypeDef of the program's result.
func (p *Program) TypeDef() typedef.TypeDef {
	return p.def
}

// State returns the TypeState after the last expression.
func (p *Program) State() typedef.TypeState {
	return p.state
}

// IsFallible reports whether any resolution may fail.
func (p *Program) IsFallible() bool {
	return p.def.IsFallible()
}
