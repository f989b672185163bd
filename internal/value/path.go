// internal/value/path.go
package value

import (
	"errors"
	"strconv"
	"strings"

	"github.com/solatis/remap/internal/types"
)

/*
 * Field path resolution and copy-on-write assignment.
 *
 * Get walks objects by key and arrays by index. A negative index counts
 * from the end. Anything that cannot be followed (missing key, index out of
 * range, scalar in the middle of the path) reads as not found; the language
 * treats that as null.
 *
 * Set never mutates its input. It clones each container along the path and
 * shares every untouched subtree, so literal values held by a compiled
 * program can appear inside many events at once without data races.
 * Intermediate containers are created as needed: a key segment turns a
 * non-object into a fresh object, an index segment turns a non-array into a
 * fresh array, and writing past the end of an array pads with null.
 */

// ErrIndexOutOfRange indicates a negative index that reaches before the start of an array.
var ErrIndexOutOfRange = errors.New("negative index out of range")

// Get returns the value at path, or (Null, false) if the path does not resolve.
func Get(root Value, path []types.PathSegment) (Value, bool) {
	current := root
	for _, seg := range path {
		switch v := current.(type) {
		case Object:
			if seg.IsIndex {
				return Null{}, false
			}
			next, ok := v[seg.Key]
			if !ok {
				return Null{}, false
			}
			current = next
		case Array:
			if !seg.IsIndex {
				return Null{}, false
			}
			idx := seg.Index
			if idx < 0 {
				idx += len(v)
			}
			if idx < 0 || idx >= len(v) {
				return Null{}, false
			}
			current = v[idx]
		default:
			return Null{}, false
		}
	}
	if current == nil {
		return Null{}, true
	}
	return current, true
}

// Set returns a copy of root with v written at path.
// Returns types.ErrPathTooDeep past MaxPathDepth and ErrIndexOutOfRange for
// negative indices before the start of an array.
func Set(root Value, path []types.PathSegment, v Value) (Value, error) {
	if len(path) > types.MaxPathDepth {
		return nil, types.ErrPathTooDeep
	}
	return setRecursive(root, path, v)
}

func setRecursive(current Value, path []types.PathSegment, v Value) (Value, error) {
	if len(path) == 0 {
		return v, nil
	}

	seg := path[0]
	remaining := path[1:]

	if !seg.IsIndex {
		src, _ := current.(Object)
		out := make(Object, len(src)+1)
		for k, elem := range src {
			out[k] = elem
		}
		child, err := setRecursive(src[seg.Key], remaining, v)
		if err != nil {
			return nil, err
		}
		out[seg.Key] = child
		return out, nil
	}

	src, _ := current.(Array)
	idx := seg.Index
	if idx < 0 {
		idx += len(src)
		if idx < 0 {
			return nil, ErrIndexOutOfRange
		}
	}

	size := len(src)
	if idx >= size {
		size = idx + 1
	}
	out := make(Array, size)
	copy(out, src)
	for i := len(src); i < size; i++ {
		out[i] = Null{}
	}

	var existing Value
	if idx < len(src) {
		existing = src[idx]
	}
	child, err := setRecursive(existing, remaining, v)
	if err != nil {
		return nil, err
	}
	out[idx] = child
	return out, nil
}

// FormatPath renders a path in source syntax, e.g. `.a."b c"[0]`.
// The empty path renders as the root ".".
func FormatPath(path []types.PathSegment) string {
	if len(path) == 0 {
		return "."
	}
	var sb strings.Builder
	for _, seg := range path {
		if seg.IsIndex {
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteString("]")
			continue
		}
		sb.WriteString(".")
		if isIdentifier(seg.Key) {
			sb.WriteString(seg.Key)
		} else {
			sb.WriteString(strconv.Quote(seg.Key))
		}
	}
	return sb.String()
}

// isIdentifier reports whether s can be written as a bare path segment.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
