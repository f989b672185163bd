// internal/value/kind.go
package value

import "strings"

/*
 * Kind sets.
 *
 * A Kind is a fixed-width bitset with one bit per Value variant. A single bit
 * names the kind of a concrete value; several bits describe what an
 * expression may produce. All operations are constant time and allocate
 * nothing, since the type checker calls them for every node it compiles.
 */

// Kind is a set of Value variants.
type Kind uint16

const (
	KindBytes Kind = 1 << iota
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
	KindRegex
	KindNull
	KindArray
	KindObject
)

const (
	// KindNever is the empty set; no value has this kind.
	KindNever Kind = 0

	// KindAny contains every variant.
	KindAny = KindBytes | KindInteger | KindFloat | KindBoolean | KindTimestamp |
		KindRegex | KindNull | KindArray | KindObject

	// KindNumeric is integer or float.
	KindNumeric = KindInteger | KindFloat
)

// kindNames is ordered by bit position.
var kindNames = [...]string{
	"bytes",
	"integer",
	"float",
	"boolean",
	"timestamp",
	"regex",
	"null",
	"array",
	"object",
}

// Union returns k ∪ o.
func (k Kind) Union(o Kind) Kind {
	return k | o
}

// Intersect returns k ∩ o.
func (k Kind) Intersect(o Kind) Kind {
	return k & o
}

// Without returns k \ o.
func (k Kind) Without(o Kind) Kind {
	return k &^ o
}

// Contains reports whether o ⊆ k.
func (k Kind) Contains(o Kind) bool {
	return o&^k == 0
}

// IsSubsetOf reports whether k ⊆ o.
func (k Kind) IsSubsetOf(o Kind) bool {
	return o.Contains(k)
}

// Intersects reports whether k ∩ o is non-empty.
func (k Kind) Intersects(o Kind) bool {
	return k&o != 0
}

// IsExact reports whether k names exactly one variant.
func (k Kind) IsExact() bool {
	return k != 0 && k&(k-1) == 0
}

// IsAny reports whether k contains every variant.
func (k Kind) IsAny() bool {
	return k&KindAny == KindAny
}

// String renders the set as "any", "never", or names joined with " or ".
func (k Kind) String() string {
	switch {
	case k&KindAny == KindNever:
		return "never"
	case k.IsAny():
		return "any"
	}
	parts := make([]string, 0, len(kindNames))
	for i, name := range kindNames {
		if k&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " or ")
}
