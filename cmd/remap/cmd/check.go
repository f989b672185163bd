package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/remap/internal/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [program-file]",
	Short: "Compile a program and print its result type",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, err := programPath(args)
	if err != nil {
		return err
	}
	tables, err := loadTables(cmd.Context())
	if err != nil {
		return err
	}
	prog, err := compileFile(path, tables)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok\n", path)
	fmt.Fprintf(out, "program: %s (compiled %s)\n", prog.ID, types.ProgramIDTime(prog.ID).UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "result: %s\n", prog.TypeDef())
	for _, name := range prog.State().Locals() {
		def, _ := prog.State().Local(name)
		fmt.Fprintf(out, "local %s: %s\n", name, def)
	}
	return nil
}
