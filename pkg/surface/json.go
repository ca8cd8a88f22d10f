package surface

import (
	"encoding/json"
	"io"

	"github.com/codelens/codelens/pkg/impact"
)

// JSONRenderer marshals an ImpactResult to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *impact.ImpactResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
