// internal/stdlib/match.go
package stdlib

import (
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/value"
)

// Match reports whether a regex matches anywhere in the value.
type Match struct{}

func (Match) Identifier() string { return "match" }

func (Match) Summary() string {
	return "Determines whether the value matches the pattern."
}

func (Match) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true, Description: "The value to match."},
		{Keyword: "pattern", Kind: value.KindRegex, Required: true, Description: "The regular expression pattern to match against."},
	}
}

func (Match) Examples() []function.Example {
	return []function.Example{
		{Title: "Regex match on a string", Source: `match("I'm a little teapot", r'teapot')`, Result: "true"},
		{Title: "String does not match the regular expression", Source: `match("I'm a little teapot", r'.*balloon')`, Result: "false"},
	}
}

func (Match) Compile(_ typedef.TypeState, _ *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	return &matchFn{value: args.Required("value"), pattern: args.Required("pattern")}, nil
}

type matchFn struct {
	value   expr.Expression
	pattern expr.Expression
}

func (f *matchFn) Resolve(ctx *expr.Context) (value.Value, error) {
	b, err := resolveBytes(ctx, f.value)
	if err != nil {
		return nil, err
	}
	p, err := f.pattern.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	re, err := value.TryRegex(p)
	if err != nil {
		return nil, err
	}
	return value.Boolean(re.Match(b)), nil
}

func (f *matchFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Boolean()
}
