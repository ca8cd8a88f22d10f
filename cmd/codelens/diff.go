package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codelens/codelens/pkg/config"
	"github.com/codelens/codelens/pkg/graph"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var (
		baseRef  string
		headRef  string
		repoPath string
		output   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two graph builds and compute a structural delta",
		Long: `Computes the files and import relationships added or removed between two
imported graph builds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraphDiff(baseRef, headRef, repoPath, output, asJSON)
		},
	}

	cmd.Flags().StringVar(&baseRef, "base", "", "Base graph id, id prefix, or path (required)")
	cmd.Flags().StringVar(&headRef, "head", "", "Head graph id, id prefix, or path (default: latest import)")
	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Path to repository root (default: current directory)")
	cmd.Flags().StringVar(&output, "output", "", "Also save the delta JSON to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of terminal output")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func runGraphDiff(baseRef, headRef, repoPath, output string, asJSON bool) error {
	root, err := resolveRepo(repoPath)
	if err != nil {
		return err
	}

	base, err := findGraph(root, baseRef)
	if err != nil {
		return fmt.Errorf("resolving base graph: %w", err)
	}
	head, err := findGraph(root, headRef)
	if err != nil {
		return fmt.Errorf("resolving head graph: %w", err)
	}

	delta := graph.ComputeDelta(base, head)

	if output == "" {
		output = filepath.Join(config.DeltaDir(root), delta.ID+".json")
	}
	if err := graph.SaveDelta(output, delta); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save delta: %v\n", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(delta)
	}

	printDelta(delta)
	return nil
}

func printDelta(delta *graph.Delta) {
	fmt.Printf("Delta: %s -> %s\n", delta.BaseGraphID, delta.HeadGraphID)
	fmt.Printf("  Added files:    %d\n", delta.Stats.AddedNodeCount)
	fmt.Printf("  Removed files:  %d\n", delta.Stats.RemovedNodeCount)
	fmt.Printf("  Added edges:    %d\n", delta.Stats.AddedEdgeCount)
	fmt.Printf("  Removed edges:  %d\n", delta.Stats.RemovedEdgeCount)

	if len(delta.AddedNodes) > 0 {
		fmt.Println("\nAdded files:")
		for _, n := range delta.AddedNodes {
			fmt.Printf("  + %s\n", n.ID)
		}
	}

	if len(delta.RemovedNodes) > 0 {
		fmt.Println("\nRemoved files:")
		for _, n := range delta.RemovedNodes {
			fmt.Printf("  - %s\n", n.ID)
		}
	}

	if len(delta.AddedEdges) > 0 {
		fmt.Println("\nAdded edges:")
		for _, e := range delta.AddedEdges {
			fmt.Printf("  + %s -> %s\n", e.Source, e.Target)
		}
	}

	if len(delta.RemovedEdges) > 0 {
		fmt.Println("\nRemoved edges:")
		for _, e := range delta.RemovedEdges {
			fmt.Printf("  - %s -> %s\n", e.Source, e.Target)
		}
	}
}
