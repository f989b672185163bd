// internal/typedef/state.go
package typedef

import (
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Compile-time type state.
 *
 * TypeState records what the compiler knows at a given point in a program:
 * the TypeDef of every assigned local variable, and of event fields written
 * earlier in the program. It is immutable. Every With* method copies the
 * affected map and returns a new state, so a function's compile step can be
 * handed the state without being able to change it.
 *
 * Field knowledge is keyed by the rendered path. Writing a path invalidates
 * every known path that may share storage with it:
 *   - its descendants (they were replaced) and its ancestors (their shape changed)
 *   - siblings reached through a segment of the other shape, since a key write
 *     turns an array into an object and an index write does the reverse
 *   - index siblings when either index is negative, since .a[-1] and .a[0]
 *     can be the same slot and an index write can change the array length
 * Reading an unknown field yields Any; the root path is always an Object.
 *
 * Merge joins the states of two exclusive branches:
 *   - a local known in both gets the union of both TypeDefs
 *   - a local known in one only gets that TypeDef united with null, since
 *     the other branch left it unassigned and reads of it resolve to null
 *   - a field known in one branch only is forgotten
 */

// TypeState is an immutable snapshot of local and field type knowledge.
type TypeState struct {
	locals map[string]TypeDef
	fields map[string]fieldDef
}

type fieldDef struct {
	path []types.PathSegment
	def  TypeDef
}

// NewState returns an empty state.
func NewState() TypeState {
	return TypeState{}
}

// Local returns the TypeDef of a local variable.
func (s TypeState) Local(name string) (TypeDef, bool) {
	d, ok := s.locals[name]
	return d, ok
}

// Locals returns the names of all known locals.
func (s TypeState) Locals() []string {
	out := make([]string, 0, len(s.locals))
	for name := range s.locals {
		out = append(out, name)
	}
	return out
}

// WithLocal returns a state in which name has TypeDef d.
func (s TypeState) WithLocal(name string, d TypeDef) TypeState {
	locals := make(map[string]TypeDef, len(s.locals)+1)
	for k, v := range s.locals {
		locals[k] = v
	}
	locals[name] = d
	return TypeState{locals: locals, fields: s.fields}
}

// Field returns the TypeDef of an event path. The root is always an Object;
// a path never written reads as Any.
func (s TypeState) Field(path []types.PathSegment) TypeDef {
	if len(path) == 0 {
		return Object()
	}
	if f, ok := s.fields[value.FormatPath(path)]; ok {
		return f.def
	}
	return Any()
}

// KnowsField reports whether the state holds knowledge about path.
func (s TypeState) KnowsField(path []types.PathSegment) bool {
	_, ok := s.fields[value.FormatPath(path)]
	return ok
}

// WithField returns a state in which path has TypeDef d. Knowledge of every
// path that may alias it is dropped.
func (s TypeState) WithField(path []types.PathSegment, d TypeDef) TypeState {
	next := s.WithoutField(path)
	if len(path) > 0 {
		owned := make([]types.PathSegment, len(path))
		copy(owned, path)
		next.fields[value.FormatPath(path)] = fieldDef{path: owned, def: d}
	}
	return next
}

// WithoutField returns a state that knows nothing about path or any path
// that may alias it.
func (s TypeState) WithoutField(path []types.PathSegment) TypeState {
	fields := make(map[string]fieldDef, len(s.fields)+1)
	for k, f := range s.fields {
		if mayAlias(path, f.path) {
			continue
		}
		fields[k] = f
	}
	return TypeState{locals: s.locals, fields: fields}
}

// Merge joins the states at the end of two exclusive branches.
func (s TypeState) Merge(o TypeState) TypeState {
	locals := make(map[string]TypeDef, len(s.locals)+len(o.locals))
	for name, d := range s.locals {
		if od, ok := o.locals[name]; ok {
			locals[name] = d.Union(od)
		} else {
			locals[name] = d.Or(value.KindNull)
		}
	}
	for name, d := range o.locals {
		if _, ok := s.locals[name]; !ok {
			locals[name] = d.Or(value.KindNull)
		}
	}

	fields := make(map[string]fieldDef)
	for k, f := range s.fields {
		if of, ok := o.fields[k]; ok {
			fields[k] = fieldDef{path: f.path, def: f.def.Union(of.def)}
		}
	}
	return TypeState{locals: locals, fields: fields}
}

// mayAlias reports whether writing written can change the value at known.
func mayAlias(written, known []types.PathSegment) bool {
	if isPrefix(written, known) || isPrefix(known, written) {
		return true
	}
	i := 0
	for written[i] == known[i] {
		i++
	}
	w, k := written[i], known[i]
	if w.IsIndex != k.IsIndex {
		return true
	}
	return w.IsIndex && (w.Index < 0 || k.Index < 0)
}

// isPrefix reports whether prefix is a prefix of path (or equal to it).
func isPrefix(prefix, path []types.PathSegment) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if prefix[i] != path[i] {
			return false
		}
	}
	return true
}
