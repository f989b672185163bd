// internal/compiler/compiler.go

// Package compiler turns source text into an immutable, type-checked Program.
package compiler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/syntax"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Program compilation.
 *
 * Compile walks the syntax tree once, left to right, threading a TypeState
 * through every node. Each syntax node produces an expr.Expression plus the
 * state that holds after it. Calls go through the registry:
 *
 *   1. compile every argument against the current state
 *   2. function.Bind checks arity, keywords and kinds
 *   3. the function's Compile builds its node from the bound arguments
 *   4. the node is wrapped in expr.FunctionCall with its proven TypeDef
 *      (the node's own TypeDef, made fallible if any argument is)
 *
 * The first error aborts compilation. Nothing partial is ever returned.
 *
 * Source length is checked before parsing, the same guard the CEL engine in
 * toolhive-core applies, so oversized input costs nothing to reject.
 */

// Compiler compiles programs against a function registry.
type Compiler struct {
	registry        *function.Registry
	tables          *enrichment.Tables
	logger          *slog.Logger
	maxSourceLength int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithEnrichmentTables provides the table snapshot visible at compile time.
func WithEnrichmentTables(tables *enrichment.Tables) Option {
	return func(c *Compiler) {
		c.tables = tables
	}
}

// WithLogger sets the logger handed to functions' compile step.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMaxSourceLength bounds accepted source size in bytes.
func WithMaxSourceLength(n int) Option {
	return func(c *Compiler) {
		c.maxSourceLength = n
	}
}

// New returns a Compiler using registry.
func New(registry *function.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		registry:        registry,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxSourceLength: types.DefaultMaxSourceLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and compiles source with an empty initial state.
func (c *Compiler) Compile(source string) (*Program, error) {
	if len(source) > c.maxSourceLength {
		return nil, &types.CompileError{
			Span:    types.Span{Start: c.maxSourceLength, End: len(source)},
			Message: fmt.Sprintf("%d bytes exceeds limit of %d", len(source), c.maxSourceLength),
			Cause:   types.ErrSourceTooLong,
		}
	}
	tree, err := syntax.Parse(source)
	if err != nil {
		return nil, err
	}
	return c.CompileAST(tree, typedef.NewState())
}

// CompileAST compiles an already parsed tree against state.
func (c *Compiler) CompileAST(tree *syntax.Program, state typedef.TypeState) (*Program, error) {
	exprs, state, err := c.compileSequence(tree.Exprs, state)
	if err != nil {
		return nil, err
	}
	root := expr.NewBlock(exprs, sequenceTypeDef(exprs, state))

	prog := &Program{
		ID:     types.NewProgramID(),
		Source: tree.Source,
		root:   root,
		def:    root.TypeDef(state),
		state:  state,
	}
	c.logger.Debug("compiled program",
		"program_id", prog.ID,
		"expressions", len(exprs),
		"type_def", prog.def.String(),
	)
	return prog, nil
}

func (c *Compiler) compileSequence(nodes []syntax.Node, state typedef.TypeState) ([]expr.Expression, typedef.TypeState, error) {
	exprs := make([]expr.Expression, 0, len(nodes))
	for _, n := range nodes {
		e, next, err := c.compileNode(n, state)
		if err != nil {
			return nil, state, err
		}
		exprs = append(exprs, e)
		state = next
	}
	return exprs, state, nil
}

// sequenceTypeDef is the last expression's kinds, fallible if any expression is.
func sequenceTypeDef(exprs []expr.Expression, final typedef.TypeState) typedef.TypeDef {
	if len(exprs) == 0 {
		return typedef.Null()
	}
	fallible := false
	for _, e := range exprs {
		if e.TypeDef(final).IsFallible() {
			fallible = true
		}
	}
	return exprs[len(exprs)-1].TypeDef(final).WithFallibility(fallible)
}

func (c *Compiler) compileNode(n syntax.Node, state typedef.TypeState) (expr.Expression, typedef.TypeState, error) {
	switch n := n.(type) {
	case *syntax.Literal:
		return expr.NewLiteral(n.Value), state, nil

	case *syntax.Query:
		if len(n.Path) > types.MaxPathDepth {
			return nil, state, &types.CompileError{Span: n.Span(), Message: value.FormatPath(n.Path), Cause: types.ErrPathTooDeep}
		}
		return expr.NewQuery(n.Path), state, nil

	case *syntax.Variable:
		if _, ok := state.Local(n.Name); !ok {
			return nil, state, &types.CompileError{Span: n.Span(), Message: n.Name, Cause: types.ErrUndefinedVariable}
		}
		return expr.NewVariable(n.Name), state, nil

	case *syntax.Assign:
		return c.compileAssign(n, state)

	case *syntax.Call:
		return c.compileCall(n, state)

	case *syntax.ArrayLit:
		items := make([]expr.Expression, 0, len(n.Items))
		fallible := false
		for _, item := range n.Items {
			e, next, err := c.compileNode(item, state)
			if err != nil {
				return nil, state, err
			}
			fallible = fallible || e.TypeDef(state).IsFallible()
			items = append(items, e)
			state = next
		}
		return expr.NewArray(items, typedef.Array().WithFallibility(fallible)), state, nil

	case *syntax.ObjectLit:
		entries := make([]expr.ObjectEntry, 0, len(n.Entries))
		fallible := false
		for _, entry := range n.Entries {
			e, next, err := c.compileNode(entry.Value, state)
			if err != nil {
				return nil, state, err
			}
			fallible = fallible || e.TypeDef(state).IsFallible()
			entries = append(entries, expr.ObjectEntry{Key: entry.Key, Value: e})
			state = next
		}
		return expr.NewObject(entries, typedef.Object().WithFallibility(fallible)), state, nil

	case *syntax.Coalesce:
		return c.compileCoalesce(n, state)

	case *syntax.IfElse:
		return c.compileIfElse(n, state)

	case *syntax.Block:
		exprs, next, err := c.compileSequence(n.Exprs, state)
		if err != nil {
			return nil, state, err
		}
		return expr.NewBlock(exprs, sequenceTypeDef(exprs, next)), next, nil
	}

	return nil, state, &types.CompileError{
		Span:    n.Span(),
		Message: fmt.Sprintf("unsupported syntax node %T", n),
		Cause:   types.ErrSyntax,
	}
}

func (c *Compiler) compileAssign(n *syntax.Assign, state typedef.TypeState) (expr.Expression, typedef.TypeState, error) {
	rhs, next, err := c.compileNode(n.Value, state)
	if err != nil {
		return nil, state, err
	}
	def := rhs.TypeDef(state)

	switch target := n.Target.(type) {
	case *syntax.Variable:
		// the variable holds the value, never the failure
		next = next.WithLocal(target.Name, def.Infallible())
		return expr.NewLocalAssignment(target.Name, rhs, n.Span(), def), next, nil

	case *syntax.Query:
		if len(target.Path) > types.MaxPathDepth {
			return nil, state, &types.CompileError{Span: target.Span(), Message: value.FormatPath(target.Path), Cause: types.ErrPathTooDeep}
		}
		if len(target.Path) == 0 && !def.Is(value.KindObject) {
			return nil, state, &types.CompileError{
				Span:     n.Span(),
				Expected: value.KindObject.String(),
				Actual:   def.Kind().String(),
				Message:  "the event root can only be assigned an object",
				Cause:    types.ErrInvalidArgument,
			}
		}
		// a negative index may reach before the start of the array at runtime
		for _, seg := range target.Path {
			if seg.IsIndex && seg.Index < 0 {
				def = def.Fallible()
				break
			}
		}
		next = next.WithField(target.Path, def.Infallible())
		return expr.NewFieldAssignment(target.Path, rhs, n.Span(), def), next, nil
	}

	return nil, state, &types.CompileError{Span: n.Span(), Message: "invalid assignment target", Cause: types.ErrSyntax}
}

func (c *Compiler) compileCall(n *syntax.Call, state typedef.TypeState) (expr.Expression, typedef.TypeState, error) {
	fn, ok := c.registry.Get(n.Name)
	if !ok {
		return nil, state, &types.CompileError{
			Span:     n.Span(),
			Function: n.Name,
			Message:  fmt.Sprintf("%q", n.Name),
			Cause:    types.ErrUnknownFunction,
		}
	}

	args := make([]function.CallArgument, 0, len(n.Args))
	for _, a := range n.Args {
		e, next, err := c.compileNode(a.Value, state)
		if err != nil {
			return nil, state, err
		}
		args = append(args, function.CallArgument{
			Keyword: a.Keyword,
			Expr:    e,
			TypeDef: e.TypeDef(state),
			Span:    a.Span,
		})
		state = next
	}

	bound, err := function.Bind(fn, n.Span(), args)
	if err != nil {
		return nil, state, err
	}

	cctx := &function.CompileContext{
		Span:     n.Span(),
		Function: n.Name,
		Tables:   c.tables,
		Logger:   c.logger,
	}
	node, err := fn.Compile(state, cctx, bound)
	if err != nil {
		return nil, state, err
	}

	def := node.TypeDef(state)
	if bound.AnyFallible() {
		def = def.Fallible()
	}
	return expr.NewFunctionCall(n.Name, n.Span(), node, def), state, nil
}

func (c *Compiler) compileCoalesce(n *syntax.Coalesce, state typedef.TypeState) (expr.Expression, typedef.TypeState, error) {
	left, afterLeft, err := c.compileNode(n.Left, state)
	if err != nil {
		return nil, state, err
	}
	leftDef := left.TypeDef(state)
	if !leftDef.IsFallible() {
		return nil, state, &types.CompileError{
			Span:    n.Left.Span(),
			Message: "left side of ?? can never fail",
			Cause:   types.ErrUnnecessaryCoalesce,
		}
	}

	// The right side runs after the left failed part way, so it sees
	// whatever the left assigned before failing.
	rightState := partialState(n.Left, state)
	right, afterRight, err := c.compileNode(n.Right, rightState)
	if err != nil {
		return nil, state, err
	}
	rightDef := right.TypeDef(rightState)

	def := typedef.New(leftDef.Kind().Union(rightDef.Kind())).WithFallibility(rightDef.IsFallible())
	return expr.NewCoalesce(left, right, def), afterLeft.Merge(afterRight), nil
}

func (c *Compiler) compileIfElse(n *syntax.IfElse, state typedef.TypeState) (expr.Expression, typedef.TypeState, error) {
	pred, afterPred, err := c.compileNode(n.Predicate, state)
	if err != nil {
		return nil, state, err
	}
	predDef := pred.TypeDef(state)
	if !predDef.Is(value.KindBoolean) {
		return nil, state, &types.CompileError{
			Span:     n.Predicate.Span(),
			Expected: value.KindBoolean.String(),
			Actual:   predDef.Kind().String(),
			Cause:    types.ErrPredicateKind,
		}
	}

	then, afterThen, err := c.compileNode(n.Then, afterPred)
	if err != nil {
		return nil, state, err
	}
	thenDef := then.TypeDef(afterThen)
	def := typedef.New(thenDef.Kind()).WithFallibility(predDef.IsFallible() || thenDef.IsFallible())

	var els expr.Expression
	afterElse := afterPred
	if n.Else != nil {
		els, afterElse, err = c.compileNode(n.Else, afterPred)
		if err != nil {
			return nil, state, err
		}
		def = def.Union(els.TypeDef(afterElse))
	} else {
		def = def.Or(value.KindNull)
	}

	return expr.NewIfElse(pred, then, els, def), afterThen.Merge(afterElse), nil
}

// partialState is state after an unknown prefix of n has run: every local n
// may assign can hold any value, and every field it may write is unknown.
func partialState(n syntax.Node, state typedef.TypeState) typedef.TypeState {
	switch n := n.(type) {
	case *syntax.Assign:
		state = partialState(n.Value, state)
		switch target := n.Target.(type) {
		case *syntax.Variable:
			state = state.WithLocal(target.Name, typedef.Any())
		case *syntax.Query:
			state = state.WithoutField(target.Path)
		}
	case *syntax.Call:
		for _, a := range n.Args {
			state = partialState(a.Value, state)
		}
	case *syntax.ArrayLit:
		for _, item := range n.Items {
			state = partialState(item, state)
		}
	case *syntax.ObjectLit:
		for _, entry := range n.Entries {
			state = partialState(entry.Value, state)
		}
	case *syntax.Coalesce:
		state = partialState(n.Right, partialState(n.Left, state))
	case *syntax.Block:
		for _, e := range n.Exprs {
			state = partialState(e, state)
		}
	case *syntax.IfElse:
		state = partialState(n.Then, partialState(n.Predicate, state))
		if n.Else != nil {
			state = partialState(n.Else, state)
		}
	}
	return state
}
