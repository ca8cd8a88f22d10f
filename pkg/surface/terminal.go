package surface

import (
	"fmt"
	"io"
	"os"

	"github.com/codelens/codelens/pkg/impact"
)

// TerminalRenderer renders an ImpactResult as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func riskColor(risk impact.RiskLevel) string {
	if noColor() {
		return ""
	}
	switch risk {
	case impact.RiskLow:
		return colorGreen
	case impact.RiskMedium:
		return colorYellow
	case impact.RiskHigh, impact.RiskCritical:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, result *impact.ImpactResult) error {
	rc := riskColor(result.Risk)

	// Header
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("CodeLens: %s  risk %s (%d dependents)",
			result.File, colored(string(result.Risk), rc), result.RiskScore)))

	fmt.Fprintf(w, "%s\n\n", impact.Summarize(*result))

	if result.IsEntryPoint {
		fmt.Fprintf(w, "%s\n\n", dim("Entry point: nothing upstream imports into this file."))
	}

	if len(result.Direct) > 0 {
		fmt.Fprintln(w, "Direct dependents:")
		for _, dep := range result.Direct {
			fmt.Fprintf(w, "  %s %s\n", colored("●", rc), dep)
		}
		fmt.Fprintln(w)
	}

	if len(result.Transitive) > 0 {
		fmt.Fprintln(w, "Transitive dependents:")
		for _, dep := range result.Transitive {
			fmt.Fprintf(w, "  %s\n", dim(dep))
		}
		fmt.Fprintln(w)
	}

	if result.RiskScore == 0 {
		fmt.Fprintln(w, "No dependents.")
		fmt.Fprintln(w)
	}

	return nil
}

// RenderTop writes the importance ranking table shown by the top command.
func (r *TerminalRenderer) RenderTop(w io.Writer, metrics []impact.FileMetrics) error {
	if len(metrics) == 0 {
		fmt.Fprintln(w, "No files in graph.")
		return nil
	}

	fmt.Fprintf(w, "%s\n\n", bold("Most important files"))
	for i, m := range metrics {
		marker := ""
		if m.IsEntryPoint {
			marker = dim(" (entry point)")
		}
		fmt.Fprintf(w, "  %2d. %s %s%s\n", i+1,
			colored(fmt.Sprintf("[%s]", m.Risk), riskColor(m.Risk)),
			bold(m.File), marker)
		fmt.Fprintf(w, "      %s\n",
			dim(fmt.Sprintf("importance %d, %d dependents, %d imports",
				m.Importance, m.DependentCount, m.ImportCount)))
	}
	fmt.Fprintln(w)

	return nil
}
