// internal/core/db/enrichment.go
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

// ErrInvalidRow indicates stored row data that is not a JSON object.
var ErrInvalidRow = errors.New("enrichment row is not a JSON object")

// EnrichmentRow is one stored row as scanned from enrichment_rows.
type EnrichmentRow struct {
	RowID     types.RowID `db:"row_id"`
	TableName string      `db:"table_name"`
	RowData   string      `db:"row_data"`
	CreatedAt string      `db:"created_at"`
}

// LoadEnrichmentTables reads every stored row into an immutable snapshot.
func (q *Queries) LoadEnrichmentTables(ctx context.Context) (*enrichment.Tables, error) {
	var rows []EnrichmentRow
	if err := q.Select(ctx, "list-enrichment-rows", &rows); err != nil {
		return nil, fmt.Errorf("failed to list enrichment rows: %w", err)
	}

	data := make(map[string][]value.Object)
	for _, row := range rows {
		v, err := value.FromJSON([]byte(row.RowData))
		if err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", ErrInvalidRow, row.RowID, err)
		}
		obj, ok := v.(value.Object)
		if !ok {
			return nil, fmt.Errorf("%w: row %s is %s", ErrInvalidRow, row.RowID, value.KindOf(v))
		}
		data[row.TableName] = append(data[row.TableName], obj)
	}
	return enrichment.NewTables(data), nil
}

// InsertEnrichmentRow stores row under table.
func (q *Queries) InsertEnrichmentRow(ctx context.Context, table string, row value.Object) (types.RowID, error) {
	id := types.NewRowID()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := q.Exec(ctx, "insert-enrichment-row", string(id), table, string(value.EncodeJSON(row)), createdAt); err != nil {
		return "", fmt.Errorf("failed to insert enrichment row into %q: %w", table, err)
	}
	return id, nil
}

// ReplaceEnrichmentTable swaps the whole content of table in one transaction.
func (q *Queries) ReplaceEnrichmentTable(ctx context.Context, table string, rows []value.Object) error {
	del, err := q.raw("delete-enrichment-table")
	if err != nil {
		return err
	}
	ins, err := q.raw("insert-enrichment-row")
	if err != nil {
		return err
	}

	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, table); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear enrichment table %q: %w", table, err)
	}
	for _, row := range rows {
		createdAt := time.Now().UTC().Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(ctx, ins, string(types.NewRowID()), table, string(value.EncodeJSON(row)), createdAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert enrichment row into %q: %w", table, err)
		}
	}
	return tx.Commit()
}

// CountEnrichmentRows returns the number of stored rows in table.
func (q *Queries) CountEnrichmentRows(ctx context.Context, table string) (int, error) {
	var n int
	if err := q.Get(ctx, "count-enrichment-rows", &n, table); err != nil {
		return 0, fmt.Errorf("failed to count enrichment rows: %w", err)
	}
	return n, nil
}
