package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArchitecture_Valid(t *testing.T) {
	yaml := `
name: edge-small
cost_ceiling: 100
max_generic_depth: 2
`
	arch, err := ParseArchitecture([]byte(yaml), "arch.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arch.Name != "edge-small" {
		t.Errorf("name = %q, want edge-small", arch.Name)
	}
	if arch.CostCeiling != 100 {
		t.Errorf("cost_ceiling = %d, want 100", arch.CostCeiling)
	}
	if arch.MaxGenericDepth != 2 {
		t.Errorf("max_generic_depth = %d, want 2", arch.MaxGenericDepth)
	}
}

func TestParseArchitecture_Defaults(t *testing.T) {
	arch, err := ParseArchitecture([]byte("{}"), "arch.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arch.CostCeiling != DefaultCostCeiling {
		t.Errorf("cost_ceiling = %d, want %d", arch.CostCeiling, DefaultCostCeiling)
	}
	if arch.MaxGenericDepth != DefaultMaxGenericDepth {
		t.Errorf("max_generic_depth = %d, want %d", arch.MaxGenericDepth, DefaultMaxGenericDepth)
	}
	if arch.Name != "default" {
		t.Errorf("name = %q, want default", arch.Name)
	}
}

func TestParseArchitecture_ErrorNegativeDepth(t *testing.T) {
	_, err := ParseArchitecture([]byte("max_generic_depth: -1"), "arch.yaml")
	if err == nil {
		t.Fatal("expected error for negative depth")
	}
	if !strings.Contains(err.Error(), "max_generic_depth") {
		t.Errorf("error should mention max_generic_depth, got: %v", err)
	}
}

func TestParseArchitecture_ErrorBadYAML(t *testing.T) {
	_, err := ParseArchitecture([]byte("cost_ceiling: [1, 2"), "broken.yaml")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("error should mention the path, got: %v", err)
	}
}

func TestLoadArchitecture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arch.yaml")
	if err := os.WriteFile(path, []byte("cost_ceiling: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	arch, err := LoadArchitecture(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arch.CostCeiling != 42 {
		t.Errorf("cost_ceiling = %d, want 42", arch.CostCeiling)
	}

	if _, err := LoadArchitecture(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWithDefaultsCopies(t *testing.T) {
	a := &Architecture{CostCeiling: 10}
	b := a.WithDefaults()
	if a.MaxGenericDepth != 0 || a.Name != "" {
		t.Errorf("WithDefaults modified its receiver: %+v", a)
	}
	if b.CostCeiling != 10 || b.MaxGenericDepth != DefaultMaxGenericDepth || b.Name != "default" {
		t.Errorf("unexpected defaults %+v", b)
	}
}
