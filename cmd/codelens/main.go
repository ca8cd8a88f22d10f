// Package main provides the codelens CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "codelens",
		Short: "Dependency graph intelligence for source repositories",
		Long: `CodeLens imports file-level dependency graphs produced by an indexer,
answers blast-radius queries, ranks files by importance, and renders
dependency structure matrices.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newImpactCmd(),
		newTopCmd(),
		newMatrixCmd(),
		newDiffCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
