package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/solatis/remap/internal/core/config"
	"github.com/solatis/remap/internal/core/logging"
)

// Version is the CLI version.
const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string

	// set by PersistentPreRunE
	cfg    *config.RemapConfig
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "remap",
	Short:   "remap telemetry transformation language",
	Long:    `remap compiles type-checked transformation programs and applies them to events from the command line or over gRPC.`,
	Version: Version,

	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "enrichment database URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// setup loads configuration (flags > env > file > defaults) and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logging.ParseLevel(loaded.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(loaded.LogFormat)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(
		logging.WithFormat(format),
		logging.WithLevel(level),
		logging.WithOutput(cmd.ErrOrStderr()),
	)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
