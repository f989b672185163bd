// Package migrations embeds the enrichment store schema for each driver.
package migrations

import "embed"

// Files are applied in filename order and checksummed once applied.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
