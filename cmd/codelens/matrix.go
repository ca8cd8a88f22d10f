package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/codelens/codelens/pkg/matrix"
	"github.com/spf13/cobra"
)

func newMatrixCmd() *cobra.Command {
	var (
		graphRef string
		repoPath string
		maxSize  int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Render the dependency structure matrix",
		Long: `Builds a dependency structure matrix for the graph: one row and column
per file, cell counts for import relationships, and circular dependency
detection between file pairs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(graphRef, repoPath, maxSize, asJSON)
		},
	}

	cmd.Flags().StringVar(&graphRef, "graph", "", "Graph id, id prefix, or path (default: latest import)")
	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Path to repository root (default: current directory)")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "Maximum matrix dimension (default: from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of terminal output")

	return cmd
}

func runMatrix(graphRef, repoPath string, maxSize int, asJSON bool) error {
	root, err := resolveRepo(repoPath)
	if err != nil {
		return err
	}

	cfg := loadRepoConfig(root)
	if maxSize <= 0 {
		maxSize = cfg.Analysis.MatrixMaxSize
	}

	g, err := findGraph(root, graphRef)
	if err != nil {
		return err
	}

	m := matrix.Build(g, maxSize)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	printMatrix(m)
	return nil
}

func printMatrix(m *matrix.Result) {
	fmt.Printf("Dependency matrix: %d files, %d dependencies, %d cycles\n",
		len(m.Labels), m.TotalDeps, m.TotalCycles)
	if m.Truncated {
		fmt.Println("  (truncated to the matrix size limit)")
	}
	fmt.Println()

	for i, label := range m.Labels {
		fmt.Printf("  %-24s", truncateLabel(m.ShortLabels[i], 24))
		for j := range m.Labels {
			switch {
			case i == j:
				fmt.Print("  ·")
			case m.Cells[i][j] == 0:
				fmt.Print("  .")
			default:
				fmt.Printf(" %2d", m.Cells[i][j])
			}
		}
		fmt.Printf("  %s\n", label)
	}

	if len(m.CyclePairs) > 0 {
		fmt.Println("\nCircular dependencies:")
		for _, p := range m.CyclePairs {
			fmt.Printf("  %s <-> %s\n", p.A, p.B)
		}
	}
	fmt.Println()
}

func truncateLabel(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
