// internal/typedef/typedef.go
package typedef

import (
	"github.com/solatis/remap/internal/value"
)

/*
 * Static type definitions.
 *
 * A TypeDef is what the compiler proves about one expression: the kind set it
 * may produce and whether resolving it may fail. It must over-approximate
 * runtime behavior; a node that produces a value outside its kind set, or
 * fails while declared infallible, breaks every guarantee built on top.
 *
 * Combination is conservative. Union joins branches (if/else, coalesce) by
 * uniting kinds and OR-ing fallibility. Fallibility only ever disappears
 * through constructs that catch errors, never through ordinary composition.
 *
 * TypeDef is a small value type; every method returns a new value.
 */

// TypeDef describes the kinds an expression may produce and whether it may fail.
type TypeDef struct {
	kind     value.Kind
	fallible bool
}

// New returns an infallible TypeDef over kind.
func New(kind value.Kind) TypeDef {
	return TypeDef{kind: kind}
}

func Bytes() TypeDef     { return New(value.KindBytes) }
func Integer() TypeDef   { return New(value.KindInteger) }
func Float() TypeDef     { return New(value.KindFloat) }
func Boolean() TypeDef   { return New(value.KindBoolean) }
func Timestamp() TypeDef { return New(value.KindTimestamp) }
func Regex() TypeDef     { return New(value.KindRegex) }
func Null() TypeDef      { return New(value.KindNull) }
func Array() TypeDef     { return New(value.KindArray) }
func Object() TypeDef    { return New(value.KindObject) }
func Any() TypeDef       { return New(value.KindAny) }

// Kind returns the kind set.
func (t TypeDef) Kind() value.Kind {
	return t.kind
}

// IsFallible reports whether resolution may fail.
func (t TypeDef) IsFallible() bool {
	return t.fallible
}

// Fallible returns t marked as possibly failing.
func (t TypeDef) Fallible() TypeDef {
	t.fallible = true
	return t
}

// Infallible returns t marked as never failing.
func (t TypeDef) Infallible() TypeDef {
	t.fallible = false
	return t
}

// WithFallibility sets the fallibility flag.
func (t TypeDef) WithFallibility(fallible bool) TypeDef {
	t.fallible = fallible
	return t
}

// WithKind replaces the kind set, keeping fallibility.
func (t TypeDef) WithKind(kind value.Kind) TypeDef {
	t.kind = kind
	return t
}

// Or returns t with additional kinds.
func (t TypeDef) Or(kind value.Kind) TypeDef {
	t.kind = t.kind.Union(kind)
	return t
}

// Union joins two TypeDefs: kinds are united and fallibility is contagious.
func (t TypeDef) Union(o TypeDef) TypeDef {
	return TypeDef{
		kind:     t.kind.Union(o.kind),
		fallible: t.fallible || o.fallible,
	}
}

// Merge unions every def. Merge() is the never-kind infallible TypeDef.
func Merge(defs ...TypeDef) TypeDef {
	var out TypeDef
	for _, d := range defs {
		out = out.Union(d)
	}
	return out
}

// IsSubsetOf reports whether t is at least as precise as o:
// t's kinds are within o's and t fails only if o may.
func (t TypeDef) IsSubsetOf(o TypeDef) bool {
	return t.kind.IsSubsetOf(o.kind) && (!t.fallible || o.fallible)
}

// Contains reports whether v is a member of the kind set.
func (t TypeDef) Contains(v value.Value) bool {
	return t.kind.Contains(value.KindOf(v))
}

// IsExact reports whether t names a single kind.
func (t TypeDef) IsExact() bool {
	return t.kind.IsExact()
}

// Is reports whether t is exactly the given kind.
func (t TypeDef) Is(kind value.Kind) bool {
	return t.kind == kind
}

// String renders e.g. "integer, infallible".
func (t TypeDef) String() string {
	if t.fallible {
		return t.kind.String() + ", fallible"
	}
	return t.kind.String() + ", infallible"
}
