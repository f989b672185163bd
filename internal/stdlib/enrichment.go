// internal/stdlib/enrichment.go
package stdlib

import (
	"github.com/solatis/remap/internal/expr"
	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/typedef"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// GetEnrichmentTableRecord looks up exactly one row of an enrichment table.
type GetEnrichmentTableRecord struct{}

func (GetEnrichmentTableRecord) Identifier() string { return "get_enrichment_table_record" }

func (GetEnrichmentTableRecord) Summary() string {
	return "Searches an enrichment table for a row matching every field of condition. Fails unless exactly one row matches."
}

func (GetEnrichmentTableRecord) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "table", Kind: value.KindBytes, Required: true, Description: "The table name. Must be a literal."},
		{Keyword: "condition", Kind: value.KindObject, Required: true, Description: "Field values the row must equal."},
	}
}

func (GetEnrichmentTableRecord) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "Table not loaded",
			Source: `get_enrichment_table_record("users", {"id": 1})`,
			Error:  `enrichment table not loaded: "users"`,
		},
	}
}

func (GetEnrichmentTableRecord) Compile(_ typedef.TypeState, ctx *function.CompileContext, args *function.ArgumentList) (expr.Expression, error) {
	lit, ok := args.Literal("table")
	if !ok {
		return nil, ctx.Errorf(types.ErrInvalidArgument, "table", "table must be a literal")
	}
	table := string(lit.(value.Bytes))

	// Without a compile-time snapshot the table is resolved at runtime.
	if ctx.Tables != nil && !ctx.Tables.Has(table) {
		return nil, ctx.Errorf(types.ErrUnknownEnrichmentTable, "table", "%q, loaded tables: %v", table, ctx.Tables.Names())
	}
	return &enrichmentRecordFn{table: table, condition: args.Required("condition")}, nil
}

type enrichmentRecordFn struct {
	table     string
	condition expr.Expression
}

func (f *enrichmentRecordFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := f.condition.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	cond, err := value.TryObject(v)
	if err != nil {
		return nil, err
	}
	row, err := ctx.Tables().Find(f.table, cond)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (f *enrichmentRecordFn) TypeDef(typedef.TypeState) typedef.TypeDef {
	return typedef.Object().Fallible()
}
