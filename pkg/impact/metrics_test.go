package impact

import (
	"reflect"
	"testing"
)

func TestFileMetricsRanking(t *testing.T) {
	// core has 2 dependents (importance 4), app has 2 imports (importance 2),
	// util has 1 dependent + 1 import (importance 3).
	a := newTestAnalyzer(
		[]string{"app", "core", "util"},
		[][2]string{{"app", "core"}, {"app", "util"}, {"util", "core"}},
	)

	metrics := a.FileMetrics()

	var order []string
	for _, m := range metrics {
		order = append(order, m.File)
	}
	if !reflect.DeepEqual(order, []string{"core", "util", "app"}) {
		t.Errorf("importance order = %v, want [core util app]", order)
	}

	core := metrics[0]
	if core.DependentCount != 2 || core.ImportCount != 0 || core.Importance != 4 {
		t.Errorf("core metrics = %+v", core)
	}
	if !core.IsEntryPoint {
		t.Error("core has dependents and no imports: entry point")
	}
}

func TestFileMetricsStableTies(t *testing.T) {
	// Three files with identical importance keep node-list order.
	a := newTestAnalyzer([]string{"c.ts", "a.ts", "b.ts"}, nil)

	var order []string
	for _, m := range a.FileMetrics() {
		order = append(order, m.File)
	}
	if !reflect.DeepEqual(order, []string{"c.ts", "a.ts", "b.ts"}) {
		t.Errorf("tie order = %v, want input order", order)
	}
}

func TestIsolatedFileMetrics(t *testing.T) {
	a := newTestAnalyzer([]string{"E"}, nil)

	m := a.Metric("E")
	if m == nil {
		t.Fatal("Metric(E) = nil for a known file")
	}
	if m.Importance != 0 || m.Risk != RiskLow || m.IsEntryPoint {
		t.Errorf("isolated file metrics = %+v, want zero importance, low risk, no entry point", m)
	}
}

func TestMetricUnknown(t *testing.T) {
	a := newTestAnalyzer([]string{"A"}, nil)
	if m := a.Metric("missing"); m != nil {
		t.Errorf("Metric(missing) = %+v, want nil", m)
	}
}

func TestTopFiles(t *testing.T) {
	a := newTestAnalyzer(
		[]string{"app", "core", "util"},
		[][2]string{{"app", "core"}, {"util", "core"}},
	)

	if got := a.TopFiles(1); !reflect.DeepEqual(got, []string{"core"}) {
		t.Errorf("TopFiles(1) = %v, want [core]", got)
	}
	if got := a.TopFiles(10); len(got) != 3 {
		t.Errorf("TopFiles(10) = %v, want all 3 files", got)
	}
}

func TestEntryPoints(t *testing.T) {
	a := newTestAnalyzer(
		[]string{"app", "core", "lonely"},
		[][2]string{{"app", "core"}},
	)

	if got := a.EntryPoints(); !reflect.DeepEqual(got, []string{"core"}) {
		t.Errorf("EntryPoints = %v, want [core]", got)
	}
}

func TestGraphMetrics(t *testing.T) {
	a := newTestAnalyzer(
		[]string{"app", "core", "util"},
		[][2]string{{"app", "core"}, {"app", "util"}, {"util", "core"}},
	)

	m := a.GraphMetrics()
	if m.TotalFiles != 3 || m.TotalEdges != 3 {
		t.Errorf("GraphMetrics = %+v, want 3 files / 3 edges", m)
	}
	if m.AvgDependencies != 1.0 {
		t.Errorf("AvgDependencies = %f, want 1.0", m.AvgDependencies)
	}
	if len(m.MostCriticalFiles) == 0 || m.MostCriticalFiles[0].File != "core" {
		t.Errorf("MostCriticalFiles = %v, want core first", m.MostCriticalFiles)
	}
	if m.EntryPointCount != 1 {
		t.Errorf("EntryPointCount = %d, want 1 (core)", m.EntryPointCount)
	}
}

func TestSummarize(t *testing.T) {
	a := newTestAnalyzer(
		[]string{"X", "Y", "Z"},
		[][2]string{{"X", "Y"}, {"Y", "Z"}},
	)

	if got := Summarize(a.Dependents("Z", 0)); got == "" {
		t.Error("Summarize returned empty string")
	}
	empty := Summarize(a.Dependents("X", 0))
	if empty == "" {
		t.Error("Summarize of zero-impact file returned empty string")
	}
}
