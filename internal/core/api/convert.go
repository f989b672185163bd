// internal/core/api/convert.go
package api

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/remap/internal/value"
)

// Largest integer magnitude a protobuf number (float64) holds exactly.
const maxExactFloatInt = 1 << 53

// ErrNotEncodable indicates a transformed event that a Struct cannot carry.
var ErrNotEncodable = errors.New("event cannot be encoded as a protobuf Struct")

// StructToObject converts a request Struct into an event. Whole numbers
// within float64's exact range become integers, everything else floats.
func StructToObject(s *structpb.Struct) value.Object {
	obj := make(value.Object, len(s.GetFields()))
	for k, v := range s.GetFields() {
		obj[k] = fromProto(v)
	}
	return obj
}

func fromProto(v *structpb.Value) value.Value {
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return value.Boolean(k.BoolValue)
	case *structpb.Value_StringValue:
		return value.Bytes(k.StringValue)
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) <= maxExactFloatInt {
			return value.Integer(int64(f))
		}
		return value.Float(f)
	case *structpb.Value_ListValue:
		items := k.ListValue.GetValues()
		arr := make(value.Array, len(items))
		for i, item := range items {
			arr[i] = fromProto(item)
		}
		return arr
	case *structpb.Value_StructValue:
		return StructToObject(k.StructValue)
	default:
		return value.Null{}
	}
}

// ObjectToStruct converts an event into a response Struct. Timestamps render
// as RFC3339 strings and regexes as their pattern. Integers beyond float64's
// exact range render as decimal strings, the way the protobuf JSON mapping
// carries int64, so seahash results survive intact. Non-finite floats become
// null. Bytes that are not valid UTF-8 fail with ErrNotEncodable.
func ObjectToStruct(obj value.Object) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(obj))}
	for k, v := range obj {
		if !utf8.ValidString(k) {
			return nil, fmt.Errorf("%w: key %q is not valid UTF-8", ErrNotEncodable, k)
		}
		pv, err := toProto(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out.Fields[k] = pv
	}
	return out, nil
}

func toProto(v value.Value) (*structpb.Value, error) {
	switch x := v.(type) {
	case value.Bytes:
		if !utf8.Valid(x) {
			return nil, fmt.Errorf("%w: bytes are not valid UTF-8", ErrNotEncodable)
		}
		return structpb.NewStringValue(string(x)), nil
	case value.Integer:
		if x > maxExactFloatInt || x < -maxExactFloatInt {
			return structpb.NewStringValue(strconv.FormatInt(int64(x), 10)), nil
		}
		return structpb.NewNumberValue(float64(x)), nil
	case value.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return structpb.NewNullValue(), nil
		}
		return structpb.NewNumberValue(f), nil
	case value.Boolean:
		return structpb.NewBoolValue(bool(x)), nil
	case value.Timestamp:
		return structpb.NewStringValue(x.Time().UTC().Format(time.RFC3339Nano)), nil
	case value.Regex:
		if x.Regexp == nil {
			return structpb.NewStringValue(""), nil
		}
		return structpb.NewStringValue(x.String()), nil
	case value.Array:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(x))}
		for i, elem := range x {
			pv, err := toProto(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list.Values[i] = pv
		}
		return structpb.NewListValue(list), nil
	case value.Object:
		st, err := ObjectToStruct(x)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(st), nil
	default:
		return structpb.NewNullValue(), nil
	}
}
