package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/solatis/remap/internal/value"
)

func openTestDB(t *testing.T) *Queries {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "enrichment.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	q, err := LoadQueries(db)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}
	return q
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{url: "sqlite://data/enrichment.db", wantDriver: DriverSqlite, wantSource: "data/enrichment.db"},
		{url: "sqlite:///var/lib/remap.db", wantDriver: DriverSqlite, wantSource: "/var/lib/remap.db"},
		{url: "postgres://remap@localhost/remap", wantDriver: DriverPostgres, wantSource: "postgres://remap@localhost/remap"},
		{url: "mysql://localhost/remap", wantErr: true},
		{url: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, source, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if driver != tt.wantDriver || source != tt.wantSource {
				t.Errorf("ParseURL() = %q, %q, want %q, %q", driver, source, tt.wantDriver, tt.wantSource)
			}
		})
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	applied, err := MigrateUp(ctx, db)
	if err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if len(applied) != 1 || applied[0] != "001_enrichment_rows.sql" {
		t.Errorf("MigrateUp() applied = %v, want [001_enrichment_rows.sql]", applied)
	}

	applied, err = MigrateUp(ctx, db)
	if err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second MigrateUp() applied = %v, want none", applied)
	}

	statuses, err := MigrateStatus(ctx, db)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v", err)
	}
	for _, s := range statuses {
		if !s.Applied || s.AppliedAt.IsZero() {
			t.Errorf("MigrateStatus() %s applied=%v at=%v, want applied with time", s.ID, s.Applied, s.AppliedAt)
		}
	}
}

func TestMigrateUp_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if _, err := db.Exec("UPDATE migrations SET checksum = 'tampered'"); err != nil {
		t.Fatal(err)
	}
	if _, err := MigrateUp(ctx, db); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("MigrateUp() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestEnrichmentRows_RoundTrip(t *testing.T) {
	ctx := context.Background()
	q := openTestDB(t)

	rows := []value.Object{
		{"id": value.Integer(1), "name": value.Bytes("alice"), "score": value.Float(0.5)},
		{"id": value.Integer(2), "name": value.Bytes("bob"), "tags": value.Array{value.Bytes("a")}},
	}
	for _, row := range rows {
		id, err := q.InsertEnrichmentRow(ctx, "users", row)
		if err != nil {
			t.Fatalf("InsertEnrichmentRow() error = %v", err)
		}
		if id == "" {
			t.Error("InsertEnrichmentRow() returned empty row ID")
		}
	}
	if _, err := q.InsertEnrichmentRow(ctx, "hosts", value.Object{"host": value.Bytes("web-1")}); err != nil {
		t.Fatalf("InsertEnrichmentRow() error = %v", err)
	}

	n, err := q.CountEnrichmentRows(ctx, "users")
	if err != nil || n != 2 {
		t.Errorf("CountEnrichmentRows(users) = %d, %v, want 2", n, err)
	}

	tables, err := q.LoadEnrichmentTables(ctx)
	if err != nil {
		t.Fatalf("LoadEnrichmentTables() error = %v", err)
	}
	if got := tables.Names(); len(got) != 2 || got[0] != "hosts" || got[1] != "users" {
		t.Errorf("Names() = %v, want [hosts users]", got)
	}

	got, err := tables.Find("users", value.Object{"name": value.Bytes("bob")})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if !value.Equal(got, rows[1]) {
		t.Errorf("Find() = %s, want %s", value.Render(got), value.Render(rows[1]))
	}
}

func TestReplaceEnrichmentTable(t *testing.T) {
	ctx := context.Background()
	q := openTestDB(t)

	if _, err := q.InsertEnrichmentRow(ctx, "users", value.Object{"id": value.Integer(1)}); err != nil {
		t.Fatalf("InsertEnrichmentRow() error = %v", err)
	}
	replacement := []value.Object{{"id": value.Integer(7)}, {"id": value.Integer(8)}}
	if err := q.ReplaceEnrichmentTable(ctx, "users", replacement); err != nil {
		t.Fatalf("ReplaceEnrichmentTable() error = %v", err)
	}

	tables, err := q.LoadEnrichmentTables(ctx)
	if err != nil {
		t.Fatalf("LoadEnrichmentTables() error = %v", err)
	}
	if tables.Len("users") != 2 {
		t.Errorf("Len(users) = %d, want 2", tables.Len("users"))
	}
	if _, err := tables.Find("users", value.Object{"id": value.Integer(1)}); err == nil {
		t.Error("Find(id=1) succeeded after replacement")
	}
}

func TestLoadEnrichmentTables_InvalidRow(t *testing.T) {
	ctx := context.Background()
	q := openTestDB(t)

	if _, err := q.Exec(ctx, "insert-enrichment-row", "r1", "bad", "[1, 2]", "2026-01-01T00:00:00Z"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if _, err := q.LoadEnrichmentTables(ctx); !errors.Is(err, ErrInvalidRow) {
		t.Errorf("LoadEnrichmentTables() error = %v, want ErrInvalidRow", err)
	}
}
