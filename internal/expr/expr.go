// internal/expr/expr.go

// Package expr defines the compiled expression tree and its execution context.
package expr

import (
	"errors"

	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Compiled expression tree.
 *
 * Every node owns its children; the tree is built once by the compiler and
 * then only read, so one tree serves any number of concurrent resolutions.
 * Resolution is synchronous and depth-first: children resolve left to right
 * before their parent combines the results.
 *
 * TypeDef(state) reports what the node was proven to produce. Leaf nodes
 * (Literal, Query, Variable) derive it from the state they are asked about;
 * composite nodes store the TypeDef computed at compile time, because the
 * state changes as their children are compiled.
 */

// Expression is a compiled node.
type Expression interface {
	Resolve(ctx *Context) (value.Value, error)
	TypeDef(state typedef.TypeState) typedef.TypeDef
}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

func NewLiteral(v value.Value) *Literal {
	return &Literal{Value: v}
}

func (l *Literal) Resolve(*Context) (value.Value, error) {
	return l.Value, nil
}

func (l *Literal) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.New(value.KindOf(l.Value))
}

// Query reads an event path.
type Query struct {
	Path []types.PathSegment
}

func NewQuery(path []types.PathSegment) *Query {
	return &Query{Path: path}
}

func (q *Query) Resolve(ctx *Context) (value.Value, error) {
	return ctx.Get(q.Path), nil
}

func (q *Query) TypeDef(state typedef.TypeState) typedef.TypeDef {
	return state.Field(q.Path)
}

// Variable reads a local.
type Variable struct {
	Name string
}

func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

func (v *Variable) Resolve(ctx *Context) (value.Value, error) {
	return ctx.Local(v.Name), nil
}

func (v *Variable) TypeDef(state typedef.TypeState) typedef.TypeDef {
	if d, ok := state.Local(v.Name); ok {
		return d
	}
	return typedef.Null()
}

// Assignment writes the resolved value to an event path or a local and
// returns it. Exactly one of Path / Local is the target; Path is nil for a
// local target.
type Assignment struct {
	Path  []types.PathSegment
	Local string
	Value Expression
	Span  types.Span
	def   typedef.TypeDef
}

// NewFieldAssignment assigns to an event path.
func NewFieldAssignment(path []types.PathSegment, rhs Expression, span types.Span, def typedef.TypeDef) *Assignment {
	return &Assignment{Path: path, Value: rhs, Span: span, def: def}
}

// NewLocalAssignment assigns to a local.
func NewLocalAssignment(name string, rhs Expression, span types.Span, def typedef.TypeDef) *Assignment {
	return &Assignment{Local: name, Value: rhs, Span: span, def: def}
}

func (a *Assignment) Resolve(ctx *Context) (value.Value, error) {
	v, err := a.Value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if a.Local != "" {
		ctx.SetLocal(a.Local, v)
		return v, nil
	}
	if err := ctx.Set(a.Path, v); err != nil {
		return nil, &Error{Span: a.Span, Err: err}
	}
	return v, nil
}

func (a *Assignment) TypeDef(typedef.TypeState) typedef.TypeDef {
	return a.def
}

// Array builds an array from its items in order.
type Array struct {
	Items []Expression
	def   typedef.TypeDef
}

func NewArray(items []Expression, def typedef.TypeDef) *Array {
	return &Array{Items: items, def: def}
}

func (a *Array) Resolve(ctx *Context) (value.Value, error) {
	out := make(value.Array, len(a.Items))
	for i, item := range a.Items {
		v, err := item.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (a *Array) TypeDef(typedef.TypeState) typedef.TypeDef {
	return a.def
}

// ObjectEntry is one key of an object literal.
type ObjectEntry struct {
	Key   string
	Value Expression
}

// Object builds an object; entries resolve in source order.
type Object struct {
	Entries []ObjectEntry
	def     typedef.TypeDef
}

func NewObject(entries []ObjectEntry, def typedef.TypeDef) *Object {
	return &Object{Entries: entries, def: def}
}

func (o *Object) Resolve(ctx *Context) (value.Value, error) {
	out := make(value.Object, len(o.Entries))
	for _, e := range o.Entries {
		v, err := e.Value.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out[e.Key] = v
	}
	return out, nil
}

func (o *Object) TypeDef(typedef.TypeState) typedef.TypeDef {
	return o.def
}

// Coalesce resolves Right when Left fails.
type Coalesce struct {
	Left  Expression
	Right Expression
	def   typedef.TypeDef
}

func NewCoalesce(left, right Expression, def typedef.TypeDef) *Coalesce {
	return &Coalesce{Left: left, Right: right, def: def}
}

func (c *Coalesce) Resolve(ctx *Context) (value.Value, error) {
	v, err := c.Left.Resolve(ctx)
	if err == nil {
		return v, nil
	}
	// soundness violations are framework bugs and must not be swallowed
	if errors.Is(err, types.ErrUnsoundTypeDef) {
		return nil, err
	}
	return c.Right.Resolve(ctx)
}

func (c *Coalesce) TypeDef(typedef.TypeState) typedef.TypeDef {
	return c.def
}

// IfElse resolves Then or Else depending on Predicate. A nil Else yields null.
type IfElse struct {
	Predicate Expression
	Then      Expression
	Else      Expression
	def       typedef.TypeDef
}

func NewIfElse(pred, then, els Expression, def typedef.TypeDef) *IfElse {
	return &IfElse{Predicate: pred, Then: then, Else: els, def: def}
}

func (n *IfElse) Resolve(ctx *Context) (value.Value, error) {
	p, err := n.Predicate.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := value.TryBoolean(p)
	if err != nil {
		return nil, err
	}
	if ok {
		return n.Then.Resolve(ctx)
	}
	if n.Else == nil {
		return value.Null{}, nil
	}
	return n.Else.Resolve(ctx)
}

func (n *IfElse) TypeDef(typedef.TypeState) typedef.TypeDef {
	return n.def
}

// Block resolves its expressions in order and yields the last value.
// An empty block yields null.
type Block struct {
	Exprs []Expression
	def   typedef.TypeDef
}

func NewBlock(exprs []Expression, def typedef.TypeDef) *Block {
	return &Block{Exprs: exprs, def: def}
}

func (b *Block) Resolve(ctx *Context) (value.Value, error) {
	var last value.Value = value.Null{}
	for _, e := range b.Exprs {
		v, err := e.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (b *Block) TypeDef(typedef.TypeState) typedef.TypeDef {
	return b.def
}
