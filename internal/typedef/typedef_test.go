package typedef

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

func TestTypeDef_String(t *testing.T) {
	tests := []struct {
		name string
		def  TypeDef
		want string
	}{
		{name: "integer infallible", def: Integer(), want: "integer, infallible"},
		{name: "bytes fallible", def: Bytes().Fallible(), want: "bytes, fallible"},
		{name: "union", def: Bytes().Or(value.KindNull), want: "bytes or null, infallible"},
		{name: "any", def: Any(), want: "any, infallible"},
		{name: "never", def: Merge(), want: "never, infallible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeDef_Fallibility(t *testing.T) {
	d := Integer()
	if d.IsFallible() {
		t.Error("constructors should be infallible")
	}
	if !d.Fallible().IsFallible() {
		t.Error("Fallible() should set the flag")
	}
	if d.Fallible().Infallible().IsFallible() {
		t.Error("Infallible() should clear the flag")
	}
	if !d.WithFallibility(true).IsFallible() {
		t.Error("WithFallibility(true) should set the flag")
	}
	if d.IsFallible() {
		t.Error("methods must not mutate the receiver")
	}
}

func TestTypeDef_Union(t *testing.T) {
	got := Integer().Union(Bytes().Fallible())
	if got.Kind() != value.KindInteger|value.KindBytes {
		t.Errorf("Union() kind = %v, want integer or bytes", got.Kind())
	}
	if !got.IsFallible() {
		t.Error("Union() should be fallible when either side is")
	}

	merged := Merge(Integer(), Float(), Null())
	if merged.Kind() != value.KindNumeric|value.KindNull || merged.IsFallible() {
		t.Errorf("Merge() = %v, want integer or float or null, infallible", merged)
	}
}

func TestTypeDef_Contains(t *testing.T) {
	d := New(value.KindNumeric)
	if !d.Contains(value.Integer(1)) || !d.Contains(value.Float(1)) {
		t.Error("numeric should contain integer and float values")
	}
	if d.Contains(value.Bytes("x")) {
		t.Error("numeric should not contain bytes")
	}
	if !Null().Contains(nil) {
		t.Error("null should contain a nil value")
	}
}

func TestTypeDef_IsSubsetOf(t *testing.T) {
	tests := []struct {
		name string
		a, b TypeDef
		want bool
	}{
		{name: "same", a: Integer(), b: Integer(), want: true},
		{name: "narrower kind", a: Integer(), b: New(value.KindNumeric), want: true},
		{name: "wider kind", a: Any(), b: Integer(), want: false},
		{name: "infallible within fallible", a: Integer(), b: Integer().Fallible(), want: true},
		{name: "fallible within infallible", a: Integer().Fallible(), b: Integer(), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsSubsetOf(tt.b); got != tt.want {
				t.Errorf("IsSubsetOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func genTypeDef() gopter.Gen {
	return gopter.CombineGens(
		gen.UInt16Range(0, uint16(value.KindAny)),
		gen.Bool(),
	).Map(func(vals []interface{}) TypeDef {
		return New(value.Kind(vals[0].(uint16))).WithFallibility(vals[1].(bool))
	})
}

// Property-based test: union over-approximates both operands
func TestTypeDef_PropertyUnion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("operands are subsets of their union", prop.ForAll(
		func(a, b TypeDef) bool {
			u := a.Union(b)
			return a.IsSubsetOf(u) && b.IsSubsetOf(u)
		},
		genTypeDef(), genTypeDef(),
	))

	properties.Property("union is commutative", prop.ForAll(
		func(a, b TypeDef) bool {
			return a.Union(b) == b.Union(a)
		},
		genTypeDef(), genTypeDef(),
	))

	properties.TestingRun(t)
}

func path(keys ...string) []types.PathSegment {
	out := make([]types.PathSegment, len(keys))
	for i, k := range keys {
		out[i] = types.PathSegment{Key: k}
	}
	return out
}

func TestTypeState_Locals(t *testing.T) {
	s := NewState()
	if _, ok := s.Local("x"); ok {
		t.Fatal("empty state should know no locals")
	}

	s2 := s.WithLocal("x", Integer())
	if _, ok := s.Local("x"); ok {
		t.Error("WithLocal() must not mutate the receiver")
	}
	d, ok := s2.Local("x")
	if !ok || d != Integer() {
		t.Errorf("Local(x) = %v, %v, want integer, true", d, ok)
	}
	if names := s2.Locals(); len(names) != 1 || names[0] != "x" {
		t.Errorf("Locals() = %v, want [x]", names)
	}
}

func TestTypeState_Fields(t *testing.T) {
	s := NewState()
	if got := s.Field(nil); got != Object() {
		t.Errorf("Field(root) = %v, want object", got)
	}
	if got := s.Field(path("a")); got != Any() {
		t.Errorf("Field(.a) = %v, want any", got)
	}

	s = s.WithField(path("a", "b"), Bytes())
	s = s.WithField(path("c"), Integer())
	if got := s.Field(path("a", "b")); got != Bytes() {
		t.Errorf("Field(.a.b) = %v, want bytes", got)
	}

	// writing an ancestor drops descendants
	s2 := s.WithField(path("a"), Object())
	if s2.KnowsField(path("a", "b")) {
		t.Error("writing .a should forget .a.b")
	}
	if !s2.KnowsField(path("c")) {
		t.Error("writing .a should keep .c")
	}

	// writing a descendant drops the ancestor
	s3 := s2.WithField(path("a", "z"), Boolean())
	if s3.KnowsField(path("a")) {
		t.Error("writing .a.z should forget .a")
	}
}

func TestTypeState_FieldAliasing(t *testing.T) {
	key := func(k string) types.PathSegment { return types.PathSegment{Key: k} }
	index := func(i int) types.PathSegment { return types.PathSegment{Index: i, IsIndex: true} }
	seg := func(segs ...types.PathSegment) []types.PathSegment { return segs }

	tests := []struct {
		name      string
		known     []types.PathSegment
		written   []types.PathSegment
		wantKnown bool
	}{
		{name: "key write over index", known: seg(key("a"), index(0)), written: seg(key("a"), key("b"))},
		{name: "index write over key", known: seg(key("a"), key("b")), written: seg(key("a"), index(0))},
		{name: "negative write over index", known: seg(key("a"), index(0)), written: seg(key("a"), index(-1))},
		{name: "index write over negative", known: seg(key("a"), index(-1), key("b")), written: seg(key("a"), index(3))},
		{name: "distinct indices", known: seg(key("a"), index(0)), written: seg(key("a"), index(1)), wantKnown: true},
		{name: "distinct keys", known: seg(key("a"), key("b")), written: seg(key("a"), key("c")), wantKnown: true},
		{name: "same negative slot deeper", known: seg(key("a"), index(-1), key("b")), written: seg(key("a"), index(-1), key("c")), wantKnown: true},
		{name: "unrelated parent", known: seg(key("x"), index(0)), written: seg(key("a"), key("b")), wantKnown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState().WithField(tt.known, Bytes()).WithField(tt.written, Integer())
			if got := s.KnowsField(tt.known); got != tt.wantKnown {
				t.Errorf("KnowsField(known) = %v, want %v", got, tt.wantKnown)
			}
			if got := s.Field(tt.written); got != Integer() {
				t.Errorf("Field(written) = %v, want integer", got)
			}

			forgotten := NewState().WithField(tt.known, Bytes()).WithoutField(tt.written)
			if forgotten.KnowsField(tt.written) {
				t.Error("WithoutField() kept the written path")
			}
			if got := forgotten.KnowsField(tt.known); got != tt.wantKnown {
				t.Errorf("WithoutField() KnowsField(known) = %v, want %v", got, tt.wantKnown)
			}
		})
	}
}

func TestTypeState_Merge(t *testing.T) {
	base := NewState().WithLocal("shared", Integer())

	left := base.WithLocal("shared", Bytes()).WithLocal("only_left", Boolean()).
		WithField(path("f"), Integer()).WithField(path("g"), Bytes())
	right := base.WithLocal("only_right", Float()).
		WithField(path("f"), Float())

	m := left.Merge(right)

	tests := []struct {
		name string
		want TypeDef
	}{
		{name: "shared", want: New(value.KindBytes | value.KindInteger)},
		{name: "only_left", want: New(value.KindBoolean | value.KindNull)},
		{name: "only_right", want: New(value.KindFloat | value.KindNull)},
	}
	for _, tt := range tests {
		got, ok := m.Local(tt.name)
		if !ok || got != tt.want {
			t.Errorf("Local(%s) = %v, %v, want %v", tt.name, got, ok, tt.want)
		}
	}

	if got := m.Field(path("f")); got != New(value.KindNumeric) {
		t.Errorf("Field(.f) = %v, want integer or float", got)
	}
	if m.KnowsField(path("g")) {
		t.Error("a field known in one branch only should be forgotten")
	}
}
