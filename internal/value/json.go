// internal/value/json.go
package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

/*
 * JSON interop.
 *
 * Events arrive as JSON (CLI, enrichment rows) or as already-decoded Go
 * values (gRPC structpb, YAML). FromJSON decodes numbers with UseNumber so
 * integers that fit int64 stay Integer instead of collapsing to float64.
 *
 * ToAny produces only JSON-encodable Go values: bytes become strings,
 * timestamps RFC3339Nano strings, regexes their pattern, and non-finite
 * floats null. EncodeJSON therefore cannot fail.
 */

// ErrTrailingData indicates extra content after the first JSON document.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// FromJSON decodes a single JSON document into a Value.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, ErrTrailingData
	}
	return FromAny(parsed), nil
}

// FromAny converts decoded Go data into a Value.
// Unrecognized types are rendered with fmt and stored as Bytes.
func FromAny(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null{}
	case Value:
		return v
	case bool:
		return Boolean(v)
	case string:
		return Bytes(v)
	case []byte:
		return Bytes(append([]byte(nil), v...))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Integer(i)
		}
		f, err := v.Float64()
		if err != nil {
			return Bytes(v.String())
		}
		return Float(f)
	case float64:
		return Float(v)
	case float32:
		return Float(float64(v))
	case int:
		return Integer(int64(v))
	case int8:
		return Integer(int64(v))
	case int16:
		return Integer(int64(v))
	case int32:
		return Integer(int64(v))
	case int64:
		return Integer(v)
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Integer(int64(v))
	case uint16:
		return Integer(int64(v))
	case uint32:
		return Integer(int64(v))
	case uint64:
		return fromUint(v)
	case time.Time:
		return Timestamp(v.UTC())
	case []any:
		arr := make(Array, len(v))
		for i, elem := range v {
			arr[i] = FromAny(elem)
		}
		return arr
	case map[string]any:
		obj := make(Object, len(v))
		for k, elem := range v {
			obj[k] = FromAny(elem)
		}
		return obj
	default:
		return Bytes(fmt.Sprintf("%v", v))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Integer(int64(u))
}

// ToAny converts v into JSON-encodable Go data.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Bytes:
		return string(x)
	case Integer:
		return int64(x)
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case Boolean:
		return bool(x)
	case Timestamp:
		return x.Time().UTC().Format(time.RFC3339Nano)
	case Regex:
		if x.Regexp == nil {
			return ""
		}
		return x.String()
	case Array:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = ToAny(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			out[k] = ToAny(elem)
		}
		return out
	default:
		return nil
	}
}

// EncodeJSON renders v as compact JSON with sorted object keys.
func EncodeJSON(v Value) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// ToAny only yields encodable values, so Encode cannot fail.
	_ = enc.Encode(ToAny(v))
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}
