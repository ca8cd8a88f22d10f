package main

import (
	"testing"
)

func TestImportCmdFlags(t *testing.T) {
	cmd := newImportCmd()
	f := cmd.Flags()

	for _, flag := range []string{"repo-path", "commit", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestImpactCmdFlags(t *testing.T) {
	cmd := newImpactCmd()
	f := cmd.Flags()

	// Default depth is unlimited
	depth, _ := f.GetInt("max-depth")
	if depth != 0 {
		t.Errorf("default max-depth = %d, want 0", depth)
	}

	for _, flag := range []string{"graph", "repo-path", "max-depth", "json"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestTopCmdFlags(t *testing.T) {
	cmd := newTopCmd()
	f := cmd.Flags()

	for _, flag := range []string{"graph", "repo-path", "limit", "json"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestMatrixCmdFlags(t *testing.T) {
	cmd := newMatrixCmd()
	f := cmd.Flags()

	for _, flag := range []string{"graph", "repo-path", "max-size", "json"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestDiffCmdFlags(t *testing.T) {
	cmd := newDiffCmd()
	f := cmd.Flags()

	for _, flag := range []string{"base", "head", "repo-path", "output", "json"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()
	f := cmd.Flags()

	for _, flag := range []string{"repo-path", "port"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestMinInt(t *testing.T) {
	if minInt(3, 5) != 3 {
		t.Error("minInt(3, 5) should be 3")
	}
	if minInt(5, 3) != 3 {
		t.Error("minInt(5, 3) should be 3")
	}
	if minInt(3, 3) != 3 {
		t.Error("minInt(3, 3) should be 3")
	}
}
