package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/codelens/codelens/pkg/config"
	"github.com/codelens/codelens/pkg/graph"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		repoPath string
		commit   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "import <graph.json>",
		Short: "Import an indexer-produced dependency graph into the local cache",
		Long: `Reads a file-level dependency graph exported by the indexer, fills in
the build metadata, and stores it under the local cache for later queries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], repoPath, commit, output)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Path to repository root (default: current directory)")
	cmd.Flags().StringVar(&commit, "commit", "", "Commit SHA for this build (default: git rev-parse HEAD)")
	cmd.Flags().StringVar(&output, "output", "", "Output path (default: ~/.cache/codelens/<repo>/graphs/<id>.json)")

	return cmd
}

func runImport(ctx context.Context, graphFile, repoPath, commit, output string) error {
	root, err := resolveRepo(repoPath)
	if err != nil {
		return err
	}

	start := time.Now()
	g, err := graph.LoadGraph(graphFile)
	if err != nil {
		return fmt.Errorf("loading graph: %w", err)
	}

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if commit == "" {
		// Best effort; imported graphs do not require a git checkout.
		commit, _ = gitRevParse(ctx, root, "HEAD")
	}
	if commit != "" {
		g.CommitSHA = commit
	}
	if g.BuiltAt.IsZero() {
		g.BuiltAt = time.Now().UTC()
	}
	g.ComputeStats()
	g.Stats.BuildMs = int(time.Since(start).Milliseconds())

	outPath := output
	if outPath == "" {
		outPath = filepath.Join(config.GraphDir(root), g.ID+".json")
	}

	if err := graph.SaveGraph(outPath, g); err != nil {
		return fmt.Errorf("saving graph: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Graph %s saved to %s\n", g.ID[:minInt(8, len(g.ID))], outPath)
	fmt.Fprintf(os.Stderr, "  Files:     %d\n", g.Stats.NodeCount)
	fmt.Fprintf(os.Stderr, "  Edges:     %d\n", g.Stats.EdgeCount)
	fmt.Fprintf(os.Stderr, "  Languages: %d\n", g.Stats.Languages)

	return nil
}

func resolveRepo(repoPath string) (string, error) {
	if repoPath != "" {
		abs, err := filepath.Abs(repoPath)
		if err != nil {
			return "", fmt.Errorf("resolving repo path: %w", err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

func gitRevParse(ctx context.Context, dir, ref string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", ref)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse %s: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func loadRepoConfig(root string) *config.Config {
	cfgFile := config.FindConfigFile(root)
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// findGraph resolves a graph reference: a file path, a cached graph id, or a
// cached id/SHA prefix. An empty ref picks the most recently written build.
func findGraph(root, ref string) (*graph.Graph, error) {
	graphDir := config.GraphDir(root)

	if ref == "" {
		return latestGraph(graphDir)
	}

	if _, err := os.Stat(ref); err == nil {
		return graph.LoadGraph(ref)
	}

	if g, err := graph.LoadGraph(filepath.Join(graphDir, ref+".json")); err == nil {
		return g, nil
	}

	entries, err := os.ReadDir(graphDir)
	if err != nil {
		return nil, fmt.Errorf("no graph matching %q (run 'codelens import' first)", ref)
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".json")
		if strings.HasPrefix(name, ref) {
			return graph.LoadGraph(filepath.Join(graphDir, e.Name()))
		}
	}

	return nil, fmt.Errorf("no graph matching %q in %s", ref, graphDir)
}

func latestGraph(graphDir string) (*graph.Graph, error) {
	entries, err := os.ReadDir(graphDir)
	if err != nil {
		return nil, fmt.Errorf("no cached graphs (run 'codelens import' first)")
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = e.Name()
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return nil, fmt.Errorf("no cached graphs in %s", graphDir)
	}

	return graph.LoadGraph(filepath.Join(graphDir, newest))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
