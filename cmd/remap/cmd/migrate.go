package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/remap/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply enrichment database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("status", false, "list migrations without applying them")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cfg.EnrichmentDBURL == "" {
		return fmt.Errorf("--db-url required")
	}

	database, err := db.Open(ctx, cfg.EnrichmentDBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	out := cmd.OutOrStdout()
	if status, _ := cmd.Flags().GetBool("status"); status {
		statuses, err := db.MigrateStatus(ctx, database)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			if s.Applied {
				fmt.Fprintf(out, "%s  applied  %s  %dms\n", s.ID, s.AppliedAt.Format("2006-01-02T15:04:05Z07:00"), s.ExecutionMs)
			} else {
				fmt.Fprintf(out, "%s  pending\n", s.ID)
			}
		}
		return nil
	}

	applied, err := db.MigrateUp(ctx, database)
	if err != nil {
		return err
	}
	for _, id := range applied {
		logger.Info("applied migration", "migration_id", id)
	}
	fmt.Fprintf(out, "%d migration(s) applied\n", len(applied))
	return nil
}
