package main

import (
	"encoding/json"
	"os"

	"github.com/codelens/codelens/pkg/impact"
	"github.com/codelens/codelens/pkg/surface"
	"github.com/spf13/cobra"
)

func newTopCmd() *cobra.Command {
	var (
		graphRef string
		repoPath string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank files by importance",
		Long: `Ranks every file in the graph by importance, a weighted combination of
how many files depend on it and how many files it imports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(graphRef, repoPath, limit, asJSON)
		},
	}

	cmd.Flags().StringVar(&graphRef, "graph", "", "Graph id, id prefix, or path (default: latest import)")
	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Path to repository root (default: current directory)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of files to show (default: from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of terminal output")

	return cmd
}

func runTop(graphRef, repoPath string, limit int, asJSON bool) error {
	root, err := resolveRepo(repoPath)
	if err != nil {
		return err
	}

	cfg := loadRepoConfig(root)
	if limit <= 0 {
		limit = cfg.Analysis.TopFiles
	}

	g, err := findGraph(root, graphRef)
	if err != nil {
		return err
	}

	metrics := impact.NewAnalyzer(g).FileMetrics()
	if limit < len(metrics) {
		metrics = metrics[:limit]
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(metrics)
	}

	r := &surface.TerminalRenderer{}
	return r.RenderTop(os.Stdout, metrics)
}
