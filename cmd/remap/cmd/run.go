package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/remap/internal/enrichment"
	"github.com/solatis/remap/internal/transform"
	"github.com/solatis/remap/internal/value"
)

var runCmd = &cobra.Command{
	Use:   "run [program-file]",
	Short: "Apply a program to newline-delimited JSON events",
	Long: `Reads one JSON object per line from --input (default stdin), applies the
program and writes one JSON object per line to stdout. Dropped events are
omitted; failed events are logged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("input", "", "input file of JSON lines (default stdin)")
	runCmd.Flags().String("program", "", "program file (overrides remap.program_file)")
	runCmd.Flags().Int("workers", 0, "worker count (default one per CPU)")
	runCmd.Flags().Bool("drop-on-error", false, "drop events that fail instead of passing them through")
}

func runRun(cmd *cobra.Command, args []string) error {
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

	remap := transform.New(prog,
		transform.WithTables(enrichment.NewStore(tables)),
		transform.WithLogger(logger),
		transform.WithWorkers(cfg.Workers),
		transform.WithMaxBatchSize(cfg.MaxBatchSize),
		transform.WithDropOnError(cfg.DropOnError),
	)

	in := cmd.InOrStdin()
	if name, _ := cmd.Flags().GetString("input"); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	return processStream(ctx, remap, in, cmd.OutOrStdout(), cfg.MaxBatchSize, cfg.MaxPayloadSize)
}

// processStream batches JSON lines through remap. Lines that are not JSON
// objects are logged and skipped.
func processStream(ctx context.Context, remap *transform.Remap, r io.Reader, w io.Writer, batchSize, maxLine int) error {
	initial := 64 * 1024
	if maxLine < initial {
		initial = maxLine
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), maxLine)
	out := bufio.NewWriter(w)
	defer out.Flush()

	batch := make([]value.Object, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results, err := remap.ProcessBatch(ctx, batch)
		if err != nil {
			return err
		}
		for _, res := range results {
			if res.Dropped {
				continue
			}
			out.Write(value.EncodeJSON(res.Event))
			out.WriteByte('\n')
		}
		batch = batch[:0]
		return nil
	}

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		v, err := value.FromJSON(scanner.Bytes())
		if err != nil {
			logger.Warn("skipping malformed input line", "line", line, "error", err)
			continue
		}
		event, ok := v.(value.Object)
		if !ok {
			logger.Warn("skipping input line that is not an object", "line", line, "kind", value.KindOf(v).String())
			continue
		}
		batch = append(batch, event)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input at line %d: %w", line+1, err)
	}
	return flush()
}
