package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveGraph writes a graph to disk as JSON.
func SaveGraph(path string, g *Graph) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for graph: %w", err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}

	return nil
}

// LoadGraph reads a graph from disk.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshaling graph: %w", err)
	}

	return &g, nil
}

// SaveDelta writes a delta to disk as JSON.
func SaveDelta(path string, delta *Delta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for delta: %w", err)
	}

	data, err := json.MarshalIndent(delta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling delta: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing delta: %w", err)
	}

	return nil
}

// LoadDelta reads a delta from disk.
func LoadDelta(path string) (*Delta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading delta: %w", err)
	}

	var delta Delta
	if err := json.Unmarshal(data, &delta); err != nil {
		return nil, fmt.Errorf("unmarshaling delta: %w", err)
	}

	return &delta, nil
}
