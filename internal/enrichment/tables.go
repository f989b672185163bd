// internal/enrichment/tables.go

// Package enrichment provides read-only lookup tables for programs.
package enrichment

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/solatis/remap/internal/value"
)

/*
 * Enrichment tables.
 *
 * Tables is an immutable snapshot: rows are copied in at construction and
 * never touched again, so any number of workers may call Find concurrently
 * without locking. Reloading builds a new snapshot and swaps it into a Store;
 * in-flight resolutions keep the snapshot they started with.
 *
 * Find is an exact-match scan: a row matches when every condition key is
 * present and value.Equal to the condition value. Exactly one row must
 * match.
 */

var (
	// ErrTableNotLoaded indicates a lookup against a table that is not in the snapshot.
	ErrTableNotLoaded = errors.New("enrichment table not loaded")

	// ErrRecordNotFound indicates no row matched the condition.
	ErrRecordNotFound = errors.New("enrichment record not found")

	// ErrAmbiguousRecord indicates more than one row matched the condition.
	ErrAmbiguousRecord = errors.New("enrichment condition matched more than one record")
)

// Tables is an immutable set of named tables.
type Tables struct {
	tables map[string][]value.Object
}

// NewTables snapshots data. Later changes to data are not observed.
func NewTables(data map[string][]value.Object) *Tables {
	tables := make(map[string][]value.Object, len(data))
	for name, rows := range data {
		owned := make([]value.Object, len(rows))
		for i, row := range rows {
			cp := make(value.Object, len(row))
			for k, v := range row {
				cp[k] = v
			}
			owned[i] = cp
		}
		tables[name] = owned
	}
	return &Tables{tables: tables}
}

// Names returns the sorted table names. A nil snapshot has none.
func (t *Tables) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.tables))
	for name := range t.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is loaded.
func (t *Tables) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.tables[name]
	return ok
}

// Len returns the number of rows in name.
func (t *Tables) Len(name string) int {
	if t == nil {
		return 0
	}
	return len(t.tables[name])
}

// Find returns the single row of table matching condition.
func (t *Tables) Find(table string, condition value.Object) (value.Object, error) {
	if !t.Has(table) {
		return nil, fmt.Errorf("%w: %q", ErrTableNotLoaded, table)
	}

	var found value.Object
	for _, row := range t.tables[table] {
		if !matches(row, condition) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: table %q", ErrAmbiguousRecord, table)
		}
		found = row
	}
	if found == nil {
		return nil, fmt.Errorf("%w: table %q", ErrRecordNotFound, table)
	}
	return found, nil
}

func matches(row, condition value.Object) bool {
	for k, want := range condition {
		got, ok := row[k]
		if !ok || !value.Equal(got, want) {
			return false
		}
	}
	return true
}

// Store holds the current snapshot and swaps it atomically on reload.
type Store struct {
	current atomic.Pointer[Tables]
}

// NewStore returns a Store holding initial (which may be nil).
func NewStore(initial *Tables) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Tables {
	return s.current.Load()
}

// Swap installs next and returns the previous snapshot.
func (s *Store) Swap(next *Tables) *Tables {
	return s.current.Swap(next)
}
