// internal/core/db/db.go

// Package db persists enrichment tables in SQLite or PostgreSQL.
//
// Connections go through sqlx. The schema is created by embedded,
// checksum-validated migrations and every statement is a dotsql named query
// from queries/*.sql.
package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Pool limits. Enrichment loads are bulk reads at startup and on reload, so
// the pool stays small.
const (
	maxOpenConns    = 8
	maxIdleConns    = 2
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// Driver names as registered with database/sql.
const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ParseURL maps a database URL to a driver name and data source.
// Accepted forms:
//
//	sqlite://relative/file.db
//	sqlite:///absolute/file.db
//	postgres://user@host:5432/dbname?sslmode=disable
func ParseURL(dbURL string) (driver, dataSource string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		if u.Host != "" {
			return DriverSqlite, u.Host + u.Path, nil
		}
		if u.Path == "" {
			return "", "", fmt.Errorf("sqlite URL has no file path: %s", dbURL)
		}
		return DriverSqlite, u.Path, nil
	case "postgres", "postgresql":
		return DriverPostgres, dbURL, nil
	}
	return "", "", fmt.Errorf("unsupported database scheme: %q (expected sqlite or postgres)", u.Scheme)
}

// Open connects to dbURL and verifies the connection.
func Open(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	driver, dataSource, err := ParseURL(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
