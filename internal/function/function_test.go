package function

import (
	"errors"
	"testing"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// fakeFunction is a minimal Function for exercising the framework.
type fakeFunction struct {
	ident    string
	params   []Parameter
	examples []Example
}

func (f *fakeFunction) Identifier() string      { return f.ident }
func (f *fakeFunction) Summary() string         { return "test function" }
func (f *fakeFunction) Parameters() []Parameter { return f.params }
func (f *fakeFunction) Examples() []Example     { return f.examples }
func (f *fakeFunction) Compile(_ typedef.TypeState, _ *CompileContext, args *ArgumentList) (expr.Expression, error) {
	return args.Required("value"), nil
}

func newFake(ident string) *fakeFunction {
	return &fakeFunction{
		ident: ident,
		params: []Parameter{
			{Keyword: "value", Kind: value.KindBytes, Required: true},
			{Keyword: "base", Kind: value.KindInteger},
		},
		examples: []Example{{Title: "t", Source: ident + `("x")`, Result: `"x"`}},
	}
}

func arg(keyword string, v value.Value) CallArgument {
	return CallArgument{
		Keyword: keyword,
		Expr:    expr.NewLiteral(v),
		TypeDef: typedef.New(v.Kind()),
		Span:    types.Span{Start: 1, End: 2},
	}
}

func TestBind(t *testing.T) {
	fn := newFake("probe")
	span := types.Span{Start: 0, End: 10}

	tests := []struct {
		name      string
		args      []CallArgument
		wantErr   error
		wantParam string
	}{
		{name: "positional", args: []CallArgument{arg("", value.Bytes("x")), arg("", value.Integer(2))}},
		{name: "keyword", args: []CallArgument{arg("base", value.Integer(2)), arg("value", value.Bytes("x"))}},
		{name: "optional omitted", args: []CallArgument{arg("", value.Bytes("x"))}},
		{name: "missing required", args: []CallArgument{arg("base", value.Integer(2))}, wantErr: types.ErrMissingArgument, wantParam: "value"},
		{name: "none", args: nil, wantErr: types.ErrMissingArgument, wantParam: "value"},
		{name: "unknown keyword", args: []CallArgument{arg("nope", value.Bytes("x"))}, wantErr: types.ErrUnknownArgument, wantParam: "nope"},
		{
			name:    "too many",
			args:    []CallArgument{arg("", value.Bytes("x")), arg("", value.Integer(2)), arg("", value.Null{})},
			wantErr: types.ErrTooManyArguments,
		},
		{
			name:      "duplicate",
			args:      []CallArgument{arg("", value.Bytes("x")), arg("value", value.Bytes("y"))},
			wantErr:   types.ErrDuplicateArgument,
			wantParam: "value",
		},
		{
			name:    "positional after keyword",
			args:    []CallArgument{arg("base", value.Integer(2)), arg("", value.Bytes("x"))},
			wantErr: types.ErrPositionalAfterKeyword,
		},
		{name: "wrong kind", args: []CallArgument{arg("", value.Boolean(true))}, wantErr: types.ErrArgumentKind, wantParam: "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Bind(fn, span, tt.args)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Bind() error = %v", err)
				}
				if list.Required("value") == nil {
					t.Error("Required(value) = nil after successful bind")
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Bind() error = %v, want %v", err, tt.wantErr)
			}
			var compileErr *types.CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("Bind() error = %T, want *types.CompileError", err)
			}
			if compileErr.Function != "probe" {
				t.Errorf("CompileError.Function = %q, want probe", compileErr.Function)
			}
			if compileErr.Parameter != tt.wantParam {
				t.Errorf("CompileError.Parameter = %q, want %q", compileErr.Parameter, tt.wantParam)
			}
		})
	}
}

func TestBind_KindMismatchDetails(t *testing.T) {
	_, err := Bind(newFake("probe"), types.Span{}, []CallArgument{{
		Expr:    expr.NewQuery(nil),
		TypeDef: typedef.New(value.KindBytes | value.KindNull),
		Span:    types.Span{Start: 6, End: 8},
	}})
	var compileErr *types.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Bind() error = %v, want *types.CompileError", err)
	}
	if compileErr.Expected != "bytes" || compileErr.Actual != "bytes or null" {
		t.Errorf("Expected/Actual = %q/%q, want bytes/bytes or null", compileErr.Expected, compileErr.Actual)
	}
	if compileErr.Span != (types.Span{Start: 6, End: 8}) {
		t.Errorf("Span = %v, want the argument span", compileErr.Span)
	}
}

func TestArgumentList(t *testing.T) {
	fallible := CallArgument{
		Keyword: "base",
		Expr:    expr.NewQuery(nil),
		TypeDef: typedef.Integer().Fallible(),
		Span:    types.Span{Start: 3, End: 9},
	}
	list, err := Bind(newFake("probe"), types.Span{}, []CallArgument{arg("", value.Bytes("x")), fallible})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if v, ok := list.Literal("value"); !ok || !value.Equal(v, value.Bytes("x")) {
		t.Errorf("Literal(value) = %v, %v, want \"x\", true", v, ok)
	}
	if _, ok := list.Literal("base"); ok {
		t.Error("Literal(base) should be false for a non-literal argument")
	}
	if _, ok := list.Literal("missing"); ok {
		t.Error("Literal(missing) should be false")
	}
	if list.Optional("missing") != nil {
		t.Error("Optional(missing) should be nil")
	}
	if !list.Has("base") || list.Len() != 2 {
		t.Errorf("Has/Len = %v/%d, want true/2", list.Has("base"), list.Len())
	}
	if d, ok := list.TypeDef("base"); !ok || !d.IsFallible() {
		t.Errorf("TypeDef(base) = %v, %v", d, ok)
	}
	if got := list.Span("base"); got != (types.Span{Start: 3, End: 9}) {
		t.Errorf("Span(base) = %v, want 3:9", got)
	}
	if !list.AnyFallible() {
		t.Error("AnyFallible() = false, want true")
	}
}

func TestCompileContext_Errorf(t *testing.T) {
	ctx := &CompileContext{Span: types.Span{Start: 1, End: 5}, Function: "probe"}
	err := ctx.Errorf(types.ErrInvalidArgument, "base", "must be between %d and %d", 2, 36)
	if !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("Errorf() = %v, want ErrInvalidArgument", err)
	}
	want := "error at 1:5: invalid argument: must be between 2 and 36"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(newFake("zeta"), newFake("alpha"))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
	fns := reg.Functions()
	if fns[0].Identifier() != "alpha" || fns[1].Identifier() != "zeta" {
		t.Errorf("Functions() not sorted: %s, %s", fns[0].Identifier(), fns[1].Identifier())
	}
	if _, ok := reg.Get("alpha"); !ok {
		t.Error("Get(alpha) not found")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) found")
	}

	// callers cannot mutate the registry through Functions()
	fns[0] = nil
	if reg.Functions()[0] == nil {
		t.Error("Functions() exposes internal slice")
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	noExamples := newFake("bare")
	noExamples.examples = nil

	dupParam := newFake("dup_param")
	dupParam.params = append(dupParam.params, Parameter{Keyword: "value", Kind: value.KindAny})

	tests := []struct {
		name    string
		fns     []Function
		wantErr error
	}{
		{name: "empty identifier", fns: []Function{newFake("")}, wantErr: ErrEmptyIdentifier},
		{name: "duplicate", fns: []Function{newFake("a"), newFake("a")}, wantErr: ErrDuplicateFunction},
		{name: "no examples", fns: []Function{noExamples}, wantErr: ErrNoExamples},
		{name: "duplicate parameter", fns: []Function{dupParam}, wantErr: ErrDuplicateParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.fns...); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRegistry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	doc := Document(newFake("probe"))
	if doc.Identifier != "probe" || doc.Summary != "test function" {
		t.Errorf("Document() = %+v", doc)
	}
	if len(doc.Parameters) != 2 || doc.Parameters[0].Type != "bytes" || !doc.Parameters[0].Required {
		t.Errorf("Parameters = %+v", doc.Parameters)
	}
	if len(doc.Examples) != 1 || doc.Examples[0].Result != `"x"` {
		t.Errorf("Examples = %+v", doc.Examples)
	}
}
