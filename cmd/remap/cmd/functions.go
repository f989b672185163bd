package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/solatis/remap/internal/function"
	"github.com/solatis/remap/internal/stdlib"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "Print documentation for every built-in function",
	Args:  cobra.NoArgs,
	RunE:  runFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
	functionsCmd.Flags().String("format", "yaml", "output format (yaml, json)")
}

func runFunctions(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")

	registry, err := stdlib.NewRegistry()
	if err != nil {
		return err
	}
	var docs []function.Doc
	for _, fn := range registry.Functions() {
		docs = append(docs, function.Document(fn))
	}

	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	return fmt.Errorf("unknown format %q (expected yaml or json)", format)
}
