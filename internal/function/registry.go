// internal/function/registry.go
package function

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyIdentifier indicates a function without an identifier.
	ErrEmptyIdentifier = errors.New("function identifier must not be empty")

	// ErrDuplicateFunction indicates two functions share an identifier.
	ErrDuplicateFunction = errors.New("duplicate function identifier")

	// ErrDuplicateParameter indicates a function declares a keyword twice.
	ErrDuplicateParameter = errors.New("duplicate parameter keyword")

	// ErrNoExamples indicates a function without documented examples.
	ErrNoExamples = errors.New("function must declare at least one example")
)

// Registry maps identifiers to functions. It is immutable after NewRegistry.
type Registry struct {
	byIdent map[string]Function
	sorted  []Function
}

// NewRegistry validates fns and builds the lookup table.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{byIdent: make(map[string]Function, len(fns))}

	for _, fn := range fns {
		ident := fn.Identifier()
		if ident == "" {
			return nil, ErrEmptyIdentifier
		}
		if _, dup := r.byIdent[ident]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFunction, ident)
		}
		if len(fn.Examples()) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoExamples, ident)
		}

		seen := make(map[string]bool)
		for _, p := range fn.Parameters() {
			if seen[p.Keyword] {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParameter, p.Keyword, ident)
			}
			seen[p.Keyword] = true
		}

		r.byIdent[ident] = fn
		r.sorted = append(r.sorted, fn)
	}

	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].Identifier() < r.sorted[j].Identifier()
	})
	return r, nil
}

// Get returns the function registered under ident.
func (r *Registry) Get(ident string) (Function, bool) {
	fn, ok := r.byIdent[ident]
	return fn, ok
}

// Functions returns all functions sorted by identifier.
func (r *Registry) Functions() []Function {
	out := make([]Function, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.sorted)
}
