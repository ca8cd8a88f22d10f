package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/codelens/codelens/pkg/cluster"
	"github.com/codelens/codelens/pkg/config"
	"github.com/codelens/codelens/pkg/graph"
	"github.com/codelens/codelens/pkg/impact"
	"github.com/codelens/codelens/pkg/matrix"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		repoPath string
		port     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local API server for the CodeLens dashboard",
		Long: `Starts an HTTP server on localhost that serves imported graph builds and
derived views from the local cache. Point the dashboard at this server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(repoPath, port)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Path to repository root (default: current directory)")
	cmd.Flags().StringVar(&port, "port", "", "Port to serve on (default: from config)")

	return cmd
}

func runServe(repoPath, port string) error {
	root, err := resolveRepo(repoPath)
	if err != nil {
		return err
	}

	cfg := loadRepoConfig(root)
	if port == "" {
		port = strconv.Itoa(cfg.Server.Port)
	}

	srv := &localAPIServer{
		root:     root,
		repoName: filepath.Base(root),
		graphDir: config.GraphDir(root),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/repos", srv.handleRepos)
	mux.HandleFunc("/api/graphs", srv.listGraphs)
	mux.HandleFunc("/api/graphs/", srv.handleGraphRoutes)

	handler := corsMiddleware(mux)

	fmt.Fprintf(os.Stderr, "CodeLens API server\n")
	fmt.Fprintf(os.Stderr, "  Repo:      %s\n", root)
	fmt.Fprintf(os.Stderr, "  Graphs:    %s\n", srv.graphDir)
	fmt.Fprintf(os.Stderr, "  Listening: http://localhost:%s\n", port)

	return http.ListenAndServe(":"+port, handler)
}

type localAPIServer struct {
	root     string
	repoName string
	graphDir string
}

func (s *localAPIServer) handleRepos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []map[string]string{
		{
			"id":        "local",
			"full_name": s.repoName,
		},
	})
}

func (s *localAPIServer) listGraphs(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.graphDir)
	if err != nil {
		writeJSON(w, []interface{}{})
		return
	}

	type graphInfo struct {
		ID        string `json:"id"`
		CommitSHA string `json:"commit_sha"`
		Nodes     int    `json:"node_count"`
		Edges     int    `json:"edge_count"`
	}

	var graphs []graphInfo
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		g, err := graph.LoadGraph(filepath.Join(s.graphDir, e.Name()))
		if err != nil {
			continue
		}
		graphs = append(graphs, graphInfo{
			ID:        g.ID,
			CommitSHA: g.CommitSHA,
			Nodes:     g.Stats.NodeCount,
			Edges:     g.Stats.EdgeCount,
		})
	}

	if graphs == nil {
		writeJSON(w, []interface{}{})
		return
	}
	writeJSON(w, graphs)
}

func (s *localAPIServer) handleGraphRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/graphs/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		s.listGraphs(w, r)
		return
	}

	graphID := parts[0]

	// /api/graphs/{base}/diff/{head}
	if len(parts) >= 3 && parts[1] == "diff" {
		s.handleGraphDiff(w, r, graphID, parts[2])
		return
	}

	g, err := findGraph(s.root, graphID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		writeJSON(w, g)
		return
	}

	a := impact.NewAnalyzer(g)

	switch parts[1] {
	case "impact":
		s.handleGraphImpact(w, r, a)
	case "imports":
		s.handleGraphImports(w, r, a)
	case "metrics":
		s.handleGraphMetrics(w, r, a)
	case "entrypoints":
		writeJSON(w, map[string]any{"entry_points": a.EntryPoints()})
	case "clusters":
		s.handleGraphClusters(w, r, a)
	case "matrix":
		s.handleGraphMatrix(w, r, g)
	case "insights":
		writeJSON(w, a.GraphMetrics())
	default:
		http.NotFound(w, r)
	}
}

func (s *localAPIServer) handleGraphImpact(w http.ResponseWriter, r *http.Request, a *impact.Analyzer) {
	file := r.URL.Query().Get("file")
	if file == "" {
		http.Error(w, "file parameter required", http.StatusBadRequest)
		return
	}

	maxDepth := 0
	if v := r.URL.Query().Get("max_depth"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxDepth = parsed
		}
	}

	result := a.Dependents(file, maxDepth)
	writeJSON(w, map[string]any{
		"result":  result,
		"summary": impact.Summarize(result),
	})
}

func (s *localAPIServer) handleGraphImports(w http.ResponseWriter, r *http.Request, a *impact.Analyzer) {
	file := r.URL.Query().Get("file")
	if file == "" {
		http.Error(w, "file parameter required", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"file":    file,
		"imports": a.Imports(file),
	})
}

func (s *localAPIServer) handleGraphMetrics(w http.ResponseWriter, r *http.Request, a *impact.Analyzer) {
	if file := r.URL.Query().Get("file"); file != "" {
		m := a.Metric(file)
		if m == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, m)
		return
	}

	metrics := a.FileMetrics()
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(metrics) {
			metrics = metrics[:n]
		}
	}
	writeJSON(w, metrics)
}

func (s *localAPIServer) handleGraphClusters(w http.ResponseWriter, r *http.Request, a *impact.Analyzer) {
	expanded := make(map[string]bool)
	for _, dir := range r.URL.Query()["expanded"] {
		expanded[dir] = true
	}

	clusters, roots := cluster.Build(cluster.FromMetrics(a.FileMetrics()), expanded)
	writeJSON(w, map[string]any{
		"clusters": clusters,
		"roots":    roots,
	})
}

func (s *localAPIServer) handleGraphMatrix(w http.ResponseWriter, r *http.Request, g *graph.Graph) {
	maxSize := 0
	if v := r.URL.Query().Get("max_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxSize = parsed
		}
	}
	writeJSON(w, matrix.Build(g, maxSize))
}

func (s *localAPIServer) handleGraphDiff(w http.ResponseWriter, r *http.Request, baseID, headID string) {
	base, err := findGraph(s.root, baseID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	head, err := findGraph(s.root, headID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, graph.ComputeDelta(base, head))
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
