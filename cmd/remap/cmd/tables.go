package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/remap/internal/core/db"
	"github.com/solatis/remap/internal/value"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage enrichment tables",
}

var tablesLoadCmd = &cobra.Command{
	Use:   "load <table> <rows.jsonl>",
	Short: "Replace a table with the JSON objects in a file, one per line",
	Args:  cobra.ExactArgs(2),
	RunE:  runTablesLoad,
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tables and their row counts",
	Args:  cobra.NoArgs,
	RunE:  runTablesList,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tablesLoadCmd, tablesListCmd)
}

func openQueries(cmd *cobra.Command) (*db.Queries, func(), error) {
	if cfg.EnrichmentDBURL == "" {
		return nil, nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(cmd.Context(), cfg.EnrichmentDBURL)
	if err != nil {
		return nil, nil, err
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return queries, func() { database.Close() }, nil
}

func runTablesLoad(cmd *cobra.Command, args []string) error {
	table, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open rows: %w", err)
	}
	defer f.Close()

	var rows []value.Object
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), cfg.MaxPayloadSize)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		v, err := value.FromJSON(scanner.Bytes())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		row, ok := v.(value.Object)
		if !ok {
			return fmt.Errorf("%s:%d: %w", path, line, db.ErrInvalidRow)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	queries, closeDB, err := openQueries(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := queries.ReplaceEnrichmentTable(cmd.Context(), table, rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d row(s) into %s\n", len(rows), table)
	return nil
}

func runTablesList(cmd *cobra.Command, _ []string) error {
	queries, closeDB, err := openQueries(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	tables, err := queries.LoadEnrichmentTables(cmd.Context())
	if err != nil {
		return err
	}
	for _, name := range tables.Names() {
		n, err := queries.CountEnrichmentRows(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, n)
	}
	return nil
}
