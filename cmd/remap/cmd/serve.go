package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solatis/remap/internal/core/api"
	"github.com/solatis/remap/internal/core/server"
	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/transform"
)

var serveCmd = &cobra.Command{
	Use:   "serve [program-file]",
	Short: "Start the gRPC transform service",
	Long: `Serves remap.v1.Transform and the standard gRPC health service. SIGHUP
reloads enrichment tables from the database without restarting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
	serveCmd.Flags().String("program", "", "program file (overrides remap.program_file)")
	serveCmd.Flags().Int("workers", 0, "batch worker count (default one per CPU)")
	serveCmd.Flags().Bool("drop-on-error", false, "reject events that fail instead of returning them unchanged")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path, err := programPath(args)
	if err != nil {
		return err
	}
	tables, err := loadTables(ctx)
	if err != nil {
		return err
	}
	prog, err := compileFile(path, tables)
	if err != nil {
		return err
	}

	store := enrichment.NewStore(tables)
	remap := transform.New(prog,
		transform.WithTables(store),
		transform.WithLogger(logger),
		transform.WithWorkers(cfg.Workers),
		transform.WithMaxBatchSize(cfg.MaxBatchSize),
		transform.WithDropOnError(cfg.DropOnError),
	)

	service, err := api.NewTransformService(remap, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	grpcServer, err := server.NewGRPCServer(cfg, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting remap transform service",
		"version", Version,
		"addr", cfg.Addr(),
		"program", path,
		"program_id", prog.ID,
	)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case err := <-errChan:
			return err
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				reloadTables(ctx, store)
				continue
			}
			logger.Info("shutting down gracefully")
			return grpcServer.Shutdown(context.Background())
		}
	}
}

// reloadTables swaps in a fresh snapshot. Tables the program was checked
// against at compile time may disappear; lookups then fail per event.
func reloadTables(ctx context.Context, store *enrichment.Store) {
	tables, err := loadTables(ctx)
	if err != nil {
		logger.Error("enrichment reload failed, keeping previous tables", "error", err)
		return
	}
	store.Swap(tables)
}
