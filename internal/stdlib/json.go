// internal/stdlib/json.go
package stdlib

import (
	"fmt"

	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// jsonKinds are the kinds a decoded JSON document can produce.
const jsonKinds = value.KindBytes | value.KindInteger | value.KindFloat |
	value.KindBoolean | value.KindNull | value.KindArray | value.KindObject

// ParseJSON decodes a JSON document.
type ParseJSON struct{}

func (ParseJSON) Identifier() string { return "parse_json" }

func (ParseJSON) Summary() string {
	return "Parses the value as JSON. Numbers representable as 64-bit integers decode as integers, all others as floats."
}

func (ParseJSON) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The string representation of the JSON to parse."},
	}
}

func (ParseJSON) Examples() []function.Example {
	return []function.Example{
		{Title: "Parse JSON", Source: `parse_json("{\"key\": \"val\", \"n\": [1, 2.5]}")`, Result: `{ "key": "val", "n": [1, 2.5] }`},
		{Title: "Parse a JSON scalar", Source: `parse_json("true")`, Result: "true"},
	}
}

func (ParseJSON) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &parseJSONFn{value: args.Required("value")}, nil
}

type parseJSONFn struct {
	value expr.Expression
}

func (f *parseJSONFn) Resolve(ctx *expr.Context) (value.Value, error) {
	b, err := resolveBytes(ctx, f.value)
	if err != nil {
		return nil, err
	}
	v, err := value.FromJSON(b)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse json: %v", types.ErrMalformedInput, err)
	}
	return v, nil
}

func (f *parseJSONFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.New(jsonKinds).Fallible()
}

// EncodeJSON serializes any value to a JSON string.
type EncodeJSON struct{}

func (EncodeJSON) Identifier() string { return "encode_json" }

func (EncodeJSON) Summary() string {
	return "Encodes the value to JSON. Timestamps encode as RFC3339 strings, regexes as their pattern."
}

func (EncodeJSON) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindAny, Required: true, Description: "The value to encode."},
	}
}

func (EncodeJSON) Examples() []function.Example {
	return []function.Example{
		{Title: "Encode an object", Source: `encode_json({"field": "value", "list": [1, true, null]})`, Result: `"{\"field\":\"value\",\"list\":[1,true,null]}"`},
	}
}

func (EncodeJSON) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &encodeJSONFn{value: args.Required("value")}, nil
}

type encodeJSONFn struct {
	value expr.Expression
}

func (f *encodeJSONFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return value.Bytes(value.EncodeJSON(v)), nil
}

func (f *encodeJSONFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Bytes()
}
