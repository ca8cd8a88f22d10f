// Package surface defines output rendering interfaces for CodeLens results.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/codelens/codelens/pkg/impact"
)

// Renderer produces formatted output from an impact analysis.
type Renderer interface {
	// Render writes the formatted impact result to the writer.
	Render(w io.Writer, result *impact.ImpactResult) error
}
