package finlang_test

import (
	"os"
	"path/filepath"
	"testing"

	finlang "github.com/funvibe/finlang/pkg/embed"
)

const library = `
namespace: host.lib
body:
  - fun: each
    type_params: [{n: Fin}]
    params: [{xs: {List: [Int, n]}}]
    body:
      - for: x
        in: xs
        do:
          - call: print
            args: [x]
`

func TestEmbedAPI(t *testing.T) {
	checker := finlang.New(finlang.WithArchitecture(&finlang.Architecture{Name: "host", CostCeiling: 20}))

	report, err := checker.AddUnit([]byte(library), "lib.yaml")
	if err != nil {
		t.Fatalf("library rejected: %v", err)
	}
	if report.Namespace != "host.lib" || len(report.Functions) != 1 {
		t.Errorf("unexpected report %+v", report)
	}

	report, err = checker.AddUnit([]byte(`
namespace: host.app
body:
  - call: host.lib.each
    args:
      - list: [1, 2, 3, 4, 5]
`), "app.yaml")
	if err != nil {
		t.Fatalf("app rejected: %v", err)
	}
	if report.Cost != 5 || report.Ceiling != 20 {
		t.Errorf("cost %d of %d, want 5 of 20", report.Cost, report.Ceiling)
	}
	if checker.Cost() != 5 {
		t.Errorf("program cost %d, want 5", checker.Cost())
	}

	sig, ok := checker.Signature("host.lib.each")
	if !ok {
		t.Fatal("signature of host.lib.each not found")
	}
	if len(sig.TypeParams) != 1 || !sig.TypeParams[0].Fin {
		t.Errorf("unexpected type parameters %+v", sig.TypeParams)
	}
	if _, ok := checker.Signature("host.lib.missing"); ok {
		t.Error("missing function reported as found")
	}
}

func TestEmbedDiagnostics(t *testing.T) {
	checker := finlang.New(finlang.WithArchitecture(&finlang.Architecture{Name: "tiny", CostCeiling: 2}))
	_, err := checker.AddUnit([]byte(`
namespace: host.app
body:
  - for: x
    in: {list: [1, 2, 3]}
    do: [{call: tick}]
`), "app.yaml")
	if err == nil {
		t.Fatal("expected the unit to be over the ceiling")
	}
	diags := finlang.Diagnostics(err)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Code != "R001" || d.Family != "resource" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.File != "app.yaml" {
		t.Errorf("diagnostic file %q", d.File)
	}

	if finlang.Diagnostics(os.ErrNotExist) != nil {
		t.Error("plain errors carry no diagnostics")
	}
}

func TestEmbedAddFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.yaml")
	content := library + "---\n" + `
namespace: host.app
body:
  - call: host.lib.each
    type_args: [3]
    args:
      - list: [1]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	checker := finlang.New()
	reports, err := checker.AddFile(path)
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected two reports, got %d", len(reports))
	}
	if reports[1].Cost != 3 {
		t.Errorf("explicit bound should be charged: cost %d", reports[1].Cost)
	}
}
