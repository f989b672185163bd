// Package types provides domain primitives shared across remap components.
//
// Only google/uuid is imported (ids.go) so every engine package can depend on
// this one without pulling in transport or storage dependencies.
package types

import "fmt"

// ProgramID identifies one compiled program (UUIDv7).
type ProgramID string

// RowID identifies one enrichment table row (UUIDv7).
type RowID string

// NamedComponent is any registrable entity with a stable, compile-time-constant name.
// The name is used for diagnostics, documentation and registry lookup.
type NamedComponent interface {
	ComponentName() string
}

// Span is a half-open byte range [Start, End) into program source.
type Span struct {
	Start int
	End   int
}

// String renders the span as "start:end".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Merge returns the smallest span covering both s and o.
func (s Span) Merge(o Span) Span {
	out := s
	if o.Start < out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

// PathSegment represents one component of an event field path.
// String for object keys, int for array indices.
type PathSegment struct {
	Key     string // object key (mutually exclusive with Index)
	Index   int    // array index; negative counts from the end
	IsIndex bool   // disambiguates Index=0 from unset
}

// Resource limits enforced by the compiler and the transform.
const (
	// MaxPathDepth prevents unbounded recursion during path resolution and assignment.
	MaxPathDepth = 16

	// MaxPayloadSize limits an event payload to prevent OOM during batch processing.
	MaxPayloadSize = 1024 * 1024

	// DefaultMaxSourceLength rejects overly long programs before parsing.
	DefaultMaxSourceLength = 64 * 1024

	// MaxExpressionDepth bounds parser recursion for nested expressions.
	MaxExpressionDepth = 128
)
