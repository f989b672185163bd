package main

import (
	"os"

	"github.com/solatis/remap/cmd/remap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
