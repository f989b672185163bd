// internal/syntax/ast.go
package syntax

import (
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// Node is an untyped syntax tree node.
type Node interface {
	Span() types.Span
	node()
}

// Program is the root of a parsed source: a sequence of expressions.
type Program struct {
	Exprs  []Node
	Source string
	span   types.Span
}

func (p *Program) Span() types.Span { return p.span }

// Literal is a constant: string, integer, float, boolean, null, regex, timestamp.
type Literal struct {
	Value value.Value
	span  types.Span
}

// Query reads an event field; an empty Path is the event root.
type Query struct {
	Path []types.PathSegment
	span types.Span
}

// Variable reads a local.
type Variable struct {
	Name string
	span types.Span
}

// Assign writes Value into Target, which is a *Query or *Variable.
type Assign struct {
	Target Node
	Value  Node
	span   types.Span
}

// Argument is one call-site argument. Keyword is empty for positional arguments.
type Argument struct {
	Keyword string
	Value   Node
	Span    types.Span
}

// Call invokes a registered function.
type Call struct {
	Name string
	Args []Argument
	span types.Span
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Items []Node
	span  types.Span
}

// ObjectEntry is one key/value pair of an object literal, in source order.
type ObjectEntry struct {
	Key   string
	Value Node
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Entries []ObjectEntry
	span    types.Span
}

// Coalesce is `Left ?? Right`: Right is used when Left fails.
type Coalesce struct {
	Left  Node
	Right Node
	span  types.Span
}

// Block is a braced expression sequence.
type Block struct {
	Exprs []Node
	span  types.Span
}

// IfElse is a conditional. Else may be nil.
type IfElse struct {
	Predicate Node
	Then      *Block
	Else      *Block
	span      types.Span
}

func (n *Literal) Span() types.Span   { return n.span }
func (n *Query) Span() types.Span     { return n.span }
func (n *Variable) Span() types.Span  { return n.span }
func (n *Assign) Span() types.Span    { return n.span }
func (n *Call) Span() types.Span      { return n.span }
func (n *ArrayLit) Span() types.Span  { return n.span }
func (n *ObjectLit) Span() types.Span { return n.span }
func (n *Coalesce) Span() types.Span  { return n.span }
func (n *Block) Span() types.Span     { return n.span }
func (n *IfElse) Span() types.Span    { return n.span }

func (*Program) node()   {}
func (*Literal) node()   {}
func (*Query) node()     {}
func (*Variable) node()  {}
func (*Assign) node()    {}
func (*Call) node()      {}
func (*ArrayLit) node()  {}
func (*ObjectLit) node() {}
func (*Coalesce) node()  {}
func (*Block) node()     {}
func (*IfElse) node()    {}
