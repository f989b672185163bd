package expr

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

var errBoom = errors.New("boom")

// stubNode returns a fixed result; it stands in for a compiled function body.
type stubNode struct {
	v   value.Value
	err error
	def typedef.TypeDef
}

func (s *stubNode) Resolve(*Context) (value.Value, error)      { return s.v, s.err }
func (s *stubNode) TypeDef(typedef.TypeState) typedef.TypeDef { return s.def }

func key(k string) types.PathSegment { return types.PathSegment{Key: k} }

func TestContext(t *testing.T) {
	ctx := NewContext(value.Object{"a": value.Integer(1)})

	if got := ctx.Get([]types.PathSegment{key("a")}); !value.Equal(got, value.Integer(1)) {
		t.Errorf("Get(.a) = %s, want 1", value.Render(got))
	}
	if got := ctx.Get([]types.PathSegment{key("missing")}); got.Kind() != value.KindNull {
		t.Errorf("Get(.missing) = %s, want null", value.Render(got))
	}
	if err := ctx.Set([]types.PathSegment{key("b"), key("c")}, value.Bytes("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	want := value.Object{"a": value.Integer(1), "b": value.Object{"c": value.Bytes("x")}}
	if !value.Equal(ctx.Target(), want) {
		t.Errorf("Target() = %s, want %s", value.Render(ctx.Target()), value.Render(want))
	}

	if got := ctx.Local("x"); got.Kind() != value.KindNull {
		t.Errorf("Local(unset) = %s, want null", value.Render(got))
	}
	ctx.SetLocal("x", value.Boolean(true))
	if got := ctx.Local("x"); !value.Equal(got, value.Boolean(true)) {
		t.Errorf("Local(x) = %s, want true", value.Render(got))
	}

	if ctx.Tables() != nil {
		t.Error("Tables() should be nil by default")
	}
	if ctx.Logger() == nil {
		t.Error("Logger() should never be nil")
	}
}

func TestContext_Options(t *testing.T) {
	tables := enrichment.NewTables(nil)
	logger := slog.Default()
	ctx := NewContext(nil, WithTables(tables), WithLogger(logger))
	if ctx.Tables() != tables || ctx.Logger() != logger {
		t.Error("options were not applied")
	}
	if !value.Equal(ctx.Target(), value.Object{}) {
		t.Errorf("nil event should start as an empty object, got %s", value.Render(ctx.Target()))
	}
}

func TestNodes_Resolve(t *testing.T) {
	lit := func(v value.Value) Expression { return NewLiteral(v) }

	tests := []struct {
		name string
		expr Expression
		want value.Value
	}{
		{name: "literal", expr: lit(value.Integer(3)), want: value.Integer(3)},
		{name: "query", expr: NewQuery([]types.PathSegment{key("msg")}), want: value.Bytes("hello")},
		{name: "missing query", expr: NewQuery([]types.PathSegment{key("nope")}), want: value.Null{}},
		{name: "unset variable", expr: NewVariable("v"), want: value.Null{}},
		{
			name: "array",
			expr: NewArray([]Expression{lit(value.Integer(1)), lit(value.Bytes("x"))}, typedef.Array()),
			want: value.Array{value.Integer(1), value.Bytes("x")},
		},
		{
			name: "object",
			expr: NewObject([]ObjectEntry{{Key: "k", Value: lit(value.Boolean(true))}}, typedef.Object()),
			want: value.Object{"k": value.Boolean(true)},
		},
		{
			name: "coalesce takes left",
			expr: NewCoalesce(&stubNode{v: value.Integer(1)}, lit(value.Integer(2)), typedef.Integer()),
			want: value.Integer(1),
		},
		{
			name: "coalesce falls back",
			expr: NewCoalesce(&stubNode{err: errBoom}, lit(value.Integer(2)), typedef.Integer()),
			want: value.Integer(2),
		},
		{
			name: "if true",
			expr: NewIfElse(lit(value.Boolean(true)), lit(value.Integer(1)), lit(value.Integer(2)), typedef.Integer()),
			want: value.Integer(1),
		},
		{
			name: "if false",
			expr: NewIfElse(lit(value.Boolean(false)), lit(value.Integer(1)), lit(value.Integer(2)), typedef.Integer()),
			want: value.Integer(2),
		},
		{
			name: "if false without else",
			expr: NewIfElse(lit(value.Boolean(false)), lit(value.Integer(1)), nil, typedef.Integer().Or(value.KindNull)),
			want: value.Null{},
		},
		{name: "empty block", expr: NewBlock(nil, typedef.Null()), want: value.Null{}},
		{
			name: "block yields last",
			expr: NewBlock([]Expression{lit(value.Integer(1)), lit(value.Bytes("last"))}, typedef.Bytes()),
			want: value.Bytes("last"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(value.Object{"msg": value.Bytes("hello")})
			got, err := tt.expr.Resolve(ctx)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("Resolve() = %s, want %s", value.Render(got), value.Render(tt.want))
			}
		})
	}
}

func TestAssignment(t *testing.T) {
	ctx := NewContext(value.Object{})

	field := NewFieldAssignment([]types.PathSegment{key("out")}, NewLiteral(value.Integer(5)), types.Span{}, typedef.Integer())
	if got, err := field.Resolve(ctx); err != nil || !value.Equal(got, value.Integer(5)) {
		t.Fatalf("field assignment = %v, %v, want 5", got, err)
	}
	if got := ctx.Get([]types.PathSegment{key("out")}); !value.Equal(got, value.Integer(5)) {
		t.Errorf("event .out = %s, want 5", value.Render(got))
	}

	local := NewLocalAssignment("x", NewLiteral(value.Bytes("v")), types.Span{}, typedef.Bytes())
	if _, err := local.Resolve(ctx); err != nil {
		t.Fatalf("local assignment error = %v", err)
	}
	if got := NewVariable("x"); !value.Equal(mustResolve(t, got, ctx), value.Bytes("v")) {
		t.Error("variable should read the assigned local")
	}

	bad := NewFieldAssignment([]types.PathSegment{key("arr"), {Index: -1, IsIndex: true}}, NewLiteral(value.Null{}), types.Span{Start: 1, End: 4}, typedef.Null().Fallible())
	_, err := bad.Resolve(ctx)
	var exprErr *Error
	if !errors.As(err, &exprErr) || !errors.Is(err, value.ErrIndexOutOfRange) {
		t.Fatalf("bad assignment error = %v, want *Error wrapping ErrIndexOutOfRange", err)
	}
	if exprErr.Span != (types.Span{Start: 1, End: 4}) {
		t.Errorf("Error.Span = %v, want 1:4", exprErr.Span)
	}
}

func mustResolve(t *testing.T, e Expression, ctx *Context) value.Value {
	t.Helper()
	v, err := e.Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return v
}

func TestIfElse_PredicateErrors(t *testing.T) {
	ctx := NewContext(nil)

	failing := NewIfElse(&stubNode{err: errBoom}, NewLiteral(value.Integer(1)), nil, typedef.Integer().Fallible())
	if _, err := failing.Resolve(ctx); !errors.Is(err, errBoom) {
		t.Errorf("Resolve() error = %v, want errBoom", err)
	}

	nonBool := NewIfElse(NewLiteral(value.Integer(1)), NewLiteral(value.Integer(1)), nil, typedef.Integer())
	if _, err := nonBool.Resolve(ctx); !errors.Is(err, value.ErrConversion) {
		t.Errorf("Resolve() error = %v, want ErrConversion", err)
	}
}

func TestBlock_StopsAtFirstError(t *testing.T) {
	ctx := NewContext(nil)
	block := NewBlock([]Expression{
		&stubNode{err: errBoom},
		NewLocalAssignment("after", NewLiteral(value.Integer(1)), types.Span{}, typedef.Integer()),
	}, typedef.Integer().Fallible())

	if _, err := block.Resolve(ctx); !errors.Is(err, errBoom) {
		t.Fatalf("Resolve() error = %v, want errBoom", err)
	}
	if got := ctx.Local("after"); got.Kind() != value.KindNull {
		t.Error("expressions after a failure must not run")
	}
}

func TestFunctionCall(t *testing.T) {
	span := types.Span{Start: 0, End: 9}

	tests := []struct {
		name       string
		node       *stubNode
		declared   typedef.TypeDef
		want       value.Value
		wantErr    error
		wantLogged bool
	}{
		{
			name:     "value within declared kinds",
			node:     &stubNode{v: value.Integer(1)},
			declared: typedef.Integer(),
			want:     value.Integer(1),
		},
		{
			name:     "fallible error is attributed",
			node:     &stubNode{err: errBoom},
			declared: typedef.Integer().Fallible(),
			wantErr:  errBoom,
		},
		{
			name:       "infallible node failing",
			node:       &stubNode{err: errBoom},
			declared:   typedef.Integer(),
			wantErr:    types.ErrUnsoundTypeDef,
			wantLogged: true,
		},
		{
			name:       "value outside declared kinds",
			node:       &stubNode{v: value.Bytes("x")},
			declared:   typedef.Integer(),
			wantErr:    types.ErrUnsoundTypeDef,
			wantLogged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			ctx := NewContext(nil, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

			call := NewFunctionCall("probe", span, tt.node, tt.declared)
			if call.TypeDef(typedef.NewState()) != tt.declared {
				t.Errorf("TypeDef() = %v, want %v", call.TypeDef(typedef.NewState()), tt.declared)
			}

			got, err := call.Resolve(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				var exprErr *Error
				if !errors.As(err, &exprErr) || exprErr.Function != "probe" || exprErr.Span != span {
					t.Errorf("Resolve() error = %v, want *Error for probe at %v", err, span)
				}
			} else if err != nil || !value.Equal(got, tt.want) {
				t.Errorf("Resolve() = %v, %v, want %s", got, err, value.Render(tt.want))
			}

			logged := strings.Contains(logs.String(), "type definition violated")
			if logged != tt.wantLogged {
				t.Errorf("logged = %v, want %v (logs: %s)", logged, tt.wantLogged, logs.String())
			}
		})
	}
}

func TestFunctionCall_NestedErrorKeepsLocation(t *testing.T) {
	inner := NewFunctionCall("inner", types.Span{Start: 5, End: 8}, &stubNode{err: errBoom}, typedef.Bytes().Fallible())
	outer := NewFunctionCall("outer", types.Span{Start: 0, End: 9}, inner, typedef.Integer().Fallible())

	_, err := outer.Resolve(NewContext(nil))
	var exprErr *Error
	if !errors.As(err, &exprErr) {
		t.Fatalf("Resolve() error = %T, want *Error", err)
	}
	if exprErr.Function != "inner" {
		t.Errorf("Error.Function = %q, want inner", exprErr.Function)
	}
}

func TestCoalesce_DoesNotSwallowUnsoundResults(t *testing.T) {
	unsound := NewFunctionCall("probe", types.Span{}, &stubNode{v: value.Bytes("x")}, typedef.Integer().Fallible())
	c := NewCoalesce(unsound, NewLiteral(value.Integer(0)), typedef.Integer())
	if _, err := c.Resolve(NewContext(nil)); !errors.Is(err, types.ErrUnsoundTypeDef) {
		t.Errorf("Resolve() error = %v, want ErrUnsoundTypeDef", err)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Function: "parse_int", Span: types.Span{Start: 0, End: 13}, Err: errBoom}
	if got, want := err.Error(), `function call error for "parse_int" at (0:13): boom`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := err.Message(); got != "boom" {
		t.Errorf("Message() = %q, want boom", got)
	}

	plain := &Error{Span: types.Span{Start: 2, End: 3}, Err: errBoom}
	if got, want := plain.Error(), "error at (2:3): boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLeafTypeDefs(t *testing.T) {
	state := typedef.NewState().
		WithLocal("n", typedef.Integer()).
		WithField([]types.PathSegment{key("msg")}, typedef.Bytes())

	tests := []struct {
		name string
		expr Expression
		want typedef.TypeDef
	}{
		{name: "literal", expr: NewLiteral(value.Float(1)), want: typedef.Float()},
		{name: "known local", expr: NewVariable("n"), want: typedef.Integer()},
		{name: "unknown local", expr: NewVariable("u"), want: typedef.Null()},
		{name: "known field", expr: NewQuery([]types.PathSegment{key("msg")}), want: typedef.Bytes()},
		{name: "unknown field", expr: NewQuery([]types.PathSegment{key("x")}), want: typedef.Any()},
		{name: "root", expr: NewQuery(nil), want: typedef.Object()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.TypeDef(state); got != tt.want {
				t.Errorf("TypeDef() = %v, want %v", got, tt.want)
			}
		})
	}
}
