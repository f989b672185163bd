package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/solatis/remap/internal/compiler"
	"github.com/solatis/remap/internal/core/db"
	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/stdlib"
)

// programPath picks the positional argument over remap.program_file.
func programPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.ProgramFile != "" {
		return cfg.ProgramFile, nil
	}
	return "", fmt.Errorf("no program given (pass a file or set remap.program_file)")
}

// loadTables reads the enrichment snapshot. Without a database URL there are
// no tables and lookups fail at runtime.
func loadTables(ctx context.Context) (*enrichment.Tables, error) {
	if cfg.EnrichmentDBURL == "" {
		return nil, nil
	}

	database, err := db.Open(ctx, cfg.EnrichmentDBURL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}
	tables, err := queries.LoadEnrichmentTables(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded enrichment tables", "tables", tables.Names())
	return tables, nil
}

// compileFile compiles the program at path against tables.
func compileFile(path string, tables *enrichment.Tables) (*compiler.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	registry, err := stdlib.NewRegistry()
	if err != nil {
		return nil, err
	}
	c := compiler.New(registry,
		compiler.WithEnrichmentTables(tables),
		compiler.WithLogger(logger),
		compiler.WithMaxSourceLength(cfg.MaxSourceLength),
	)
	prog, err := c.Compile(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
