package main

import (
	"os"

	"github.com/codelens/codelens/pkg/impact"
	"github.com/codelens/codelens/pkg/surface"
	"github.com/spf13/cobra"
)

func newImpactCmd() *cobra.Command {
	var (
		graphRef string
		repoPath string
		maxDepth int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "impact <file>",
		Short: "Show the blast radius of changing a file",
		Long: `Traverses the dependent graph from the given file and reports every file
that would be affected by a change, split into direct and transitive
dependents, with a risk classification.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(args[0], graphRef, repoPath, maxDepth, asJSON)
		},
	}

	cmd.Flags().StringVar(&graphRef, "graph", "", "Graph id, id prefix, or path (default: latest import)")
	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Path to repository root (default: current directory)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum traversal depth, 0 for unlimited")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of terminal output")

	return cmd
}

func runImpact(file, graphRef, repoPath string, maxDepth int, asJSON bool) error {
	root, err := resolveRepo(repoPath)
	if err != nil {
		return err
	}

	cfg := loadRepoConfig(root)
	if maxDepth == 0 {
		maxDepth = cfg.Analysis.MaxDepth
	}

	g, err := findGraph(root, graphRef)
	if err != nil {
		return err
	}

	result := impact.NewAnalyzer(g).Dependents(file, maxDepth)

	var r surface.Renderer = &surface.TerminalRenderer{}
	if asJSON {
		r = &surface.JSONRenderer{}
	}
	return r.Render(os.Stdout, &result)
}
